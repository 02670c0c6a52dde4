// Package config loads validlink.yaml and turns it into scanner and
// validator options.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

// FileName is the base name of the config file, without extension.
const FileName = "validlink"

// Extensions are the config file formats, in lookup order.
var Extensions = []string{"yaml", "yml", "json"}

// DefaultInclude matches the documents of a collection.
var DefaultInclude = []string{"**/*.{md,mdx}"}

// ErrNoDocuments is returned when neither files nor collections are configured.
var ErrNoDocuments = errors.New("no documents to check, set files or collections")

// Config is the content of validlink.yaml.
type Config struct {
	// Preset is the routing convention of the project
	Preset string `mapstructure:"preset" yaml:"preset,omitempty" validate:"omitempty,oneof=next app-router astro nuxt waku tanstack-start react-router"`
	// Cwd is the project root, relative to the config file
	Cwd string `mapstructure:"cwd" yaml:"cwd,omitempty"`
	// Pages bypasses page discovery
	Pages []string `mapstructure:"pages" yaml:"pages,omitempty"`
	// Extensions overrides the page file extensions of the preset
	Extensions []string `mapstructure:"extensions" yaml:"extensions,omitempty"`
	// Routes is the React Router route tree
	Routes []scanner.RouteConfigEntry `mapstructure:"routes" yaml:"routes,omitempty"`
	// Populate supplies the values of parameterized routes
	Populate scanner.PopulateParams `mapstructure:"populate" yaml:"populate,omitempty"`
	// Meta attaches hashes and queries to static routes
	Meta map[string]scanner.URLMeta `mapstructure:"meta" yaml:"meta,omitempty"`
	// Collections derive populate entries from content directories
	Collections []Collection `mapstructure:"collections" yaml:"collections,omitempty" validate:"dive"`

	// Files are glob patterns of the documents to check
	Files []string `mapstructure:"files" yaml:"files,omitempty"`

	BaseURL            string        `mapstructure:"baseUrl" yaml:"baseUrl,omitempty"`
	BaseDir            string        `mapstructure:"baseDir" yaml:"baseDir,omitempty"`
	IgnoreFragment     bool          `mapstructure:"ignoreFragment" yaml:"ignoreFragment,omitempty"`
	IgnoreQuery        bool          `mapstructure:"ignoreQuery" yaml:"ignoreQuery,omitempty"`
	CheckExternal      bool          `mapstructure:"checkExternal" yaml:"checkExternal,omitempty"`
	ExternalTimeout    time.Duration `mapstructure:"externalTimeout" yaml:"externalTimeout,omitempty" validate:"gte=0"`
	CheckRelativePaths string        `mapstructure:"checkRelativePaths" yaml:"checkRelativePaths,omitempty" validate:"omitempty,oneof=exists as-url"`
	SkipRelativeURLs   bool          `mapstructure:"skipRelativeUrls" yaml:"skipRelativeUrls,omitempty"`
	// Whitelist holds doublestar patterns of hrefs that are always valid
	Whitelist   []string `mapstructure:"whitelist" yaml:"whitelist,omitempty"`
	Concurrency int      `mapstructure:"concurrency" yaml:"concurrency,omitempty" validate:"gte=0"`
	// Components maps MDX components to the attributes holding links
	Components map[string]validate.ComponentSpec `mapstructure:"components" yaml:"components,omitempty"`

	// path is the file the config was loaded from, empty for defaults
	path string
}

// Collection is a directory of documents published under one route. Every
// document becomes a populate entry of Route, with its heading anchors as
// hashes.
type Collection struct {
	Dir     string   `mapstructure:"dir" yaml:"dir" validate:"required"`
	Route   string   `mapstructure:"route" yaml:"route" validate:"required"`
	Include []string `mapstructure:"include" yaml:"include,omitempty"`
}

// Default returns the config used when no file is found.
func Default() *Config {
	return &Config{Preset: string(scanner.PresetNext)}
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

var structValidator = validator.New()

// Validate checks the structure of the config.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HasDocuments reports whether the config names any document to check.
func (c *Config) HasDocuments() bool {
	return len(c.Files) > 0 || len(c.Collections) > 0
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
