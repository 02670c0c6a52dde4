package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
)

// EnvPrefix prefixes the environment overrides, e.g. VALIDLINK_BASE_URL.
const EnvPrefix = "VALIDLINK"

// overrides maps the config keys that may be set from flags and the
// environment to their flag names.
var overrides = map[string]string{
	"preset":             "preset",
	"cwd":                "cwd",
	"baseUrl":            "base-url",
	"baseDir":            "base-dir",
	"ignoreFragment":     "ignore-fragment",
	"ignoreQuery":        "ignore-query",
	"checkExternal":      "check-external",
	"externalTimeout":    "external-timeout",
	"checkRelativePaths": "relative-paths",
	"skipRelativeUrls":   "skip-relative-urls",
	"concurrency":        "concurrency",
}

// LoadOptions controls where the config comes from.
type LoadOptions struct {
	// Dir is searched for validlink.{yaml,yml,json} (default: working directory)
	Dir string
	// File is an explicit config path; a missing file is an error
	File string
	// Fs is the file system to read from (default: OS file system)
	Fs afero.Fs
	// Flags override file values when changed
	Flags *pflag.FlagSet
}

// Load reads the config file, applies environment and flag overrides, and
// validates the result. Without a config file the defaults are used, rooted
// at the searched directory.
func Load(opts LoadOptions) (*Config, error) {
	fsys := fsutil.OrDefault(opts.Fs)

	dir, err := fsutil.AbsDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fsys)
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
	}

	for key, flag := range overrides {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
		if opts.Flags == nil {
			continue
		}
		if f := opts.Flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	raw := map[string]any{}
	cfgPath := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		cfgPath = v.ConfigFileUsed()
		if raw, err = readRaw(fsys, cfgPath); err != nil {
			return nil, err
		}
	}

	for key := range overrides {
		if v.IsSet(key) {
			raw[key] = v.Get(key)
		}
	}

	cfg := Default()
	if err := decode(raw, cfg); err != nil {
		if cfgPath != "" {
			return nil, fmt.Errorf("failed to decode %s: %w", cfgPath, err)
		}
		return nil, err
	}
	cfg.path = cfgPath

	switch {
	case cwdOverridden(opts.Flags):
	case cfgPath != "":
		cfg.Cwd = resolveCwd(cfgPath, cfg.Cwd)
	case cfg.Cwd == "":
		cfg.Cwd = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readRaw decodes the config file keeping the case of its keys. Populate keys
// contain dots and component names are case-sensitive, so only the scalar
// overrides are read through viper.
func readRaw(fsys afero.Fs, path string) (map[string]any, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	supported := false
	for _, e := range Extensions {
		supported = supported || e == ext
	}
	if !supported {
		return nil, fmt.Errorf("unsupported config format %q, use one of %s", ext, strings.Join(Extensions, ", "))
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

// cwdOverridden reports whether the project root was given on the command
// line or in the environment, which are relative to the working directory.
func cwdOverridden(flags *pflag.FlagSet) bool {
	if flags != nil && flags.Changed(overrides["cwd"]) {
		return true
	}
	return os.Getenv(EnvPrefix+"_CWD") != ""
}

// resolveCwd makes the project root relative to the config file's directory.
func resolveCwd(cfgPath, cwd string) string {
	dir := filepath.Dir(cfgPath)
	if cwd == "" {
		return dir
	}
	if filepath.IsAbs(cwd) {
		return cwd
	}
	return filepath.Join(dir, cwd)
}

// decode fills cfg from untyped data, as produced by a YAML or JSON decoder.
func decode(data map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
		TagName:          "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			populateValueDecodeHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// populateValueDecodeHook converts untyped populate values (a string, a list
// of strings or a record of those) into scanner.Value.
func populateValueDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(scanner.Value{}) {
		return data, nil
	}
	return scanner.ValueOf(data)
}
