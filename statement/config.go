// Package statement is the public handle of the SQL Statement Processing
// Core (spec §4.5): the immutable Statement object, its lazily-populated
// ProcessedState cell, and the YAML-backed StatementConfig loader. Grounded
// on snapsql's top-level Config/Statement split in config.go and
// query/query.go (an immutable value object that drives a pipeline on first
// access and caches the result).
package statement

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/litestar-org/sqlspec-core/procctx"
	"github.com/litestar-org/sqlspec-core/sqlspec"
)

// yamlConfig is the on-disk shape LoadStatementConfig decodes, mirroring
// snapsql's config.go YAML tags (snake_case keys, stage toggles, cache
// policy). It has no processor fields, since processors are Go values, not
// data.
type yamlConfig struct {
	ParseEnabled     *bool  `yaml:"parse_enabled"`
	TransformEnabled *bool  `yaml:"transform_enabled"`
	ValidateEnabled  *bool  `yaml:"validate_enabled"`
	AnalyzeEnabled   *bool  `yaml:"analyze_enabled"`
	StrictMode       bool   `yaml:"strict_mode"`
	AllowMixedStyles bool   `yaml:"allow_mixed_styles"`
	DefaultStyle     string `yaml:"default_placeholder_style"`
	CachePolicy      struct {
		ParseCacheSize       int   `yaml:"parse_cache_size"`
		ParseCacheEnabled    *bool `yaml:"parse_cache_enabled"`
		PipelineCacheSize    int   `yaml:"pipeline_cache_size"`
		PipelineCacheEnabled *bool `yaml:"pipeline_cache_enabled"`
		FilterCacheSize      int   `yaml:"filter_cache_size"`
		FilterCacheEnabled   *bool `yaml:"filter_cache_enabled"`
	} `yaml:"cache_policy"`
}

// LoadStatementConfig reads a YAML file into a StatementConfig (spec's
// SPEC_FULL.md ambient-stack "Configuration" section), layering it onto
// procctx.NewStatementConfig's defaults so a file only needs to mention the
// fields it overrides. Transformers/Validators/Analyzers are never
// data-driven here — a host application registers those in Go after
// loading, the same way snapsql wires up its own processor chain in
// code rather than YAML.
func LoadStatementConfig(path string) (*procctx.StatementConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sql: read statement config %q: %w", path, err)
	}

	var doc yamlConfig
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("sql: parse statement config %q: %w", path, err)
	}

	cfg := procctx.NewStatementConfig()
	if doc.ParseEnabled != nil {
		cfg.ParseEnabled = *doc.ParseEnabled
	}
	if doc.TransformEnabled != nil {
		cfg.TransformEnabled = *doc.TransformEnabled
	}
	if doc.ValidateEnabled != nil {
		cfg.ValidateEnabled = *doc.ValidateEnabled
	}
	if doc.AnalyzeEnabled != nil {
		cfg.AnalyzeEnabled = *doc.AnalyzeEnabled
	}
	cfg.StrictMode = doc.StrictMode
	cfg.AllowMixedStyles = doc.AllowMixedStyles

	if doc.DefaultStyle != "" {
		style, err := styleByName(doc.DefaultStyle)
		if err != nil {
			return nil, fmt.Errorf("sql: statement config %q: %w", path, err)
		}
		cfg.DefaultPlaceholderStyle = style
	}

	if doc.CachePolicy.ParseCacheSize > 0 {
		cfg.CachePolicy.ParseCacheSize = doc.CachePolicy.ParseCacheSize
	}
	if doc.CachePolicy.PipelineCacheSize > 0 {
		cfg.CachePolicy.PipelineCacheSize = doc.CachePolicy.PipelineCacheSize
	}
	if doc.CachePolicy.FilterCacheSize > 0 {
		cfg.CachePolicy.FilterCacheSize = doc.CachePolicy.FilterCacheSize
	}
	if doc.CachePolicy.ParseCacheEnabled != nil {
		cfg.CachePolicy.ParseCacheEnabled = *doc.CachePolicy.ParseCacheEnabled
	}
	if doc.CachePolicy.PipelineCacheEnabled != nil {
		cfg.CachePolicy.PipelineCacheEnabled = *doc.CachePolicy.PipelineCacheEnabled
	}
	if doc.CachePolicy.FilterCacheEnabled != nil {
		cfg.CachePolicy.FilterCacheEnabled = *doc.CachePolicy.FilterCacheEnabled
	}

	return &cfg, nil
}

func styleByName(name string) (sqlspec.PlaceholderStyle, error) {
	for _, s := range []sqlspec.PlaceholderStyle{
		sqlspec.Qmark, sqlspec.NumericDollar, sqlspec.NumericColon, sqlspec.NamedColon,
		sqlspec.NamedAt, sqlspec.PyformatPositional, sqlspec.PyformatNamed, sqlspec.Static,
	} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", sqlspec.ErrUnknownPlaceholderStyle, name)
}
