package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abdul-hamid-achik/validlink/pkg/config"
	"github.com/abdul-hamid-achik/validlink/pkg/logger"
	"github.com/abdul-hamid-achik/validlink/pkg/report"
	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
	"github.com/abdul-hamid-achik/validlink/pkg/toc"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

// response mirrors the CLI's --json envelope.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InfoOutput is the result of project_info.
type InfoOutput struct {
	Cwd         string              `json:"cwd"`
	HasConfig   bool                `json:"has_config"`
	ConfigPath  string              `json:"config_path,omitempty"`
	Preset      string              `json:"preset"`
	Files       []string            `json:"files,omitempty"`
	Collections []config.Collection `json:"collections,omitempty"`
	Documents   int                 `json:"documents"`
}

// HeadingsOutput is the result of document_headings.
type HeadingsOutput struct {
	Path     string        `json:"path"`
	Headings []toc.Heading `json:"headings"`
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(response{Success: true, Data: data}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// path resolves p against the server working directory.
func (s *Server) path(p string) string {
	if p == "" {
		p = "."
	}
	if filepath.IsAbs(p) || s.workdir == "" {
		return p
	}
	return filepath.Join(s.workdir, p)
}

// loadConfig loads the config named by the common project arguments.
func (s *Server) loadConfig(req mcp.CallToolRequest) (*config.Config, error) {
	opts := config.LoadOptions{
		Dir: s.path(req.GetString("cwd", "")),
		Fs:  s.fs,
	}
	if file := req.GetString("config", ""); file != "" {
		opts.File = s.path(file)
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	if preset := req.GetString("preset", ""); preset != "" {
		cfg.Preset = preset
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (s *Server) handleScanURLs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.loadConfig(req)
	if err != nil {
		return errorResult(err)
	}

	project, err := cfg.Resolve(s.fs)
	if err != nil {
		return errorResult(err)
	}
	space, err := scanner.ScanURLs(project.Scan)
	if err != nil {
		return errorResult(err)
	}
	logger.FromContext(ctx).Debug("scanned urls", "cwd", project.Root, "urls", space.Len())

	return jsonResult(report.NewScanOutput(project.Root, cfg.Preset, space))
}

func (s *Server) handleValidateLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.loadConfig(req)
	if err != nil {
		return errorResult(err)
	}
	if files := req.GetString("files", ""); files != "" {
		cfg.Files = splitList(files)
	}
	if req.GetBool("check_external", false) {
		cfg.CheckExternal = true
	}
	if !cfg.HasDocuments() {
		return errorResult(config.ErrNoDocuments)
	}

	project, err := cfg.Resolve(s.fs)
	if err != nil {
		return errorResult(err)
	}
	_, r, err := project.Run(ctx)
	if err != nil {
		return errorResult(err)
	}
	logger.FromContext(ctx).Debug("validated links", "files", r.Files, "errors", r.ErrorCount())

	return jsonResult(report.NewOutput(r))
}

func (s *Server) handleProjectInfo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.loadConfig(req)
	if err != nil {
		return errorResult(err)
	}

	project, err := cfg.Resolve(s.fs)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(InfoOutput{
		Cwd:         project.Root,
		HasConfig:   cfg.Path() != "",
		ConfigPath:  cfg.Path(),
		Preset:      cfg.Preset,
		Files:       cfg.Files,
		Collections: cfg.Collections,
		Documents:   len(project.Files),
	})
}

func (s *Server) handleDocumentHeadings(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return errorResult(err)
	}

	doc, err := validate.ReadFile(s.fs, s.path(path), nil)
	if err != nil {
		return errorResult(err)
	}

	headings := toc.Headings([]byte(doc.Content))
	if headings == nil {
		headings = []toc.Heading{}
	}
	return jsonResult(HeadingsOutput{Path: path, Headings: headings})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
