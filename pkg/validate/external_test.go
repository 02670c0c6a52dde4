package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPCheckerStatuses(t *testing.T) {
	var hits atomic.Int32
	srv := newStatusServer(t, &hits)
	checker := NewHTTPChecker(time.Second)
	ctx := context.Background()

	res := checker.Check(ctx, srv.URL+"/ok")
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Empty(t, res.Warning)

	res = checker.Check(ctx, srv.URL+"/missing")
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = checker.Check(ctx, srv.URL+"/broken")
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, srv.URL+"/broken responded status 500, is it expected?", res.Warning)
}

func TestHTTPCheckerCachesResults(t *testing.T) {
	var hits atomic.Int32
	srv := newStatusServer(t, &hits)
	checker := NewHTTPChecker(time.Second)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, checker.Check(context.Background(), srv.URL+"/ok").OK)
		}()
	}
	wg.Wait()
	assert.True(t, checker.Check(context.Background(), srv.URL+"/ok").OK)

	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPCheckerLocalhost(t *testing.T) {
	checker := NewHTTPChecker(time.Second)
	res := checker.Check(context.Background(), "http://localhost:1/anything")
	assert.True(t, res.OK)
	assert.Zero(t, res.Status)
}

func TestHTTPCheckerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	res := NewHTTPChecker(time.Second).Check(context.Background(), addr+"/gone")
	assert.False(t, res.OK)
	assert.Zero(t, res.Status)
}

type stubChecker map[string]CheckResult

func (s stubChecker) Check(_ context.Context, rawURL string) CheckResult {
	return s[rawURL]
}

func TestValidateFilesExternal(t *testing.T) {
	checker := stubChecker{
		"https://example.com/ok":      {OK: true, Status: 200},
		"https://example.com/missing": {OK: false, Status: 404},
		"https://example.com/teapot":  {OK: true, Status: 418, Warning: "https://example.com/teapot responded status 418, is it expected?"},
	}
	content := "[a](https://example.com/ok)\n[b](https://example.com/missing)\n[c](https://example.com/teapot)"

	t.Run("disabled by default", func(t *testing.T) {
		report := validate(t, Config{Scanned: testSpace(t), Checker: checker}, File{Path: "a.md", Content: content})
		assert.Empty(t, report.Results)
		assert.Empty(t, report.Warnings)
	})

	t.Run("checked", func(t *testing.T) {
		report := validate(t, Config{Scanned: testSpace(t), Checker: checker, CheckExternal: true},
			File{Path: "a.md", Content: content})

		assert.Equal(t, map[string][]simpleError{
			"a.md": {{"https://example.com/missing", 2, 1, ReasonNotFound}},
		}, simplify(t, report))
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0].Message, "responded status 418")
	})
}

func TestDetectorMissingPathToURL(t *testing.T) {
	d := newDetector(Config{Scanned: testSpace(t), CheckRelativePaths: RelativePathsAsURL})

	_, err := d.Detect(context.Background(), "./other.md", Resolution{BaseDir: "content"})
	assert.ErrorIs(t, err, ErrMissingPathToURL)
}
