// =============================================================================
// TSV to PDF Ticket Generator - Configuration Module
// =============================================================================
//
// This module loads the main application configuration from YAML and the
// collaborator credentials from the environment. Credentials are surfaced as
// an explicit value handed into collaborator constructors; nothing in this
// repository reads credentials through package-level state.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MainConfig holds the global application configuration, loaded from the
// main config.yaml file.
type MainConfig struct {
	// TemplatePath is the fillable delivery ticket PDF template.
	// Default: "./assets/delivery_ticket_template.pdf"
	TemplatePath string `yaml:"template_path"`

	// InputDir is scanned for billing exports when no explicit file is given.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// InputArchiveDir receives successfully processed exports.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputDir is the destination root for final tickets. Tickets are routed
	// into the emailed/mailed sub-destinations underneath it.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// PreviewDir receives temporary preview artifacts.
	// Default: system temp directory.
	PreviewDir string `yaml:"preview_dir"`

	// EmailedSubdir and MailedSubdir name the routing sub-destinations.
	// Defaults: "emailed" and "mailed".
	EmailedSubdir string `yaml:"emailed_subdir"`
	MailedSubdir  string `yaml:"mailed_subdir"`

	// LogLevel: "debug", "info", "warn", "error". Default: "info".
	LogLevel string `yaml:"log_level"`

	// LogFormat: "text" or "json". Default: "text".
	LogFormat string `yaml:"log_format"`

	// CheckboxMark positions the reinforcement glyph stamped over the
	// Delivery checkbox. Offsets are template-specific.
	CheckboxMark CheckboxMark `yaml:"checkbox_mark"`
}

// CheckboxMark configures the Delivery checkbox reinforcement stamp.
type CheckboxMark struct {
	Enabled bool    `yaml:"enabled"`
	Glyph   string  `yaml:"glyph"`
	Page    int     `yaml:"page"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Points  int     `yaml:"points"`
}

// Default returns the built-in configuration.
func Default() *MainConfig {
	return &MainConfig{
		TemplatePath:    "./assets/delivery_ticket_template.pdf",
		InputDir:        "./input",
		InputArchiveDir: "./input_archive",
		OutputDir:       "./output",
		EmailedSubdir:   "emailed",
		MailedSubdir:    "mailed",
		LogLevel:        "info",
		LogFormat:       "text",
		CheckboxMark: CheckboxMark{
			Enabled: true,
			Glyph:   "X",
			Page:    1,
			OffsetX: 46,
			OffsetY: 112,
			Points:  14,
		},
	}
}

// LoadMainConfig reads the YAML config file. A missing file yields the
// defaults; a present but unparseable file is an error.
func LoadMainConfig(path string) (*MainConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in any fields zeroed out by an explicit config file.
func (c *MainConfig) applyDefaults() {
	d := Default()
	if c.TemplatePath == "" {
		c.TemplatePath = d.TemplatePath
	}
	if c.InputDir == "" {
		c.InputDir = d.InputDir
	}
	if c.InputArchiveDir == "" {
		c.InputArchiveDir = d.InputArchiveDir
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.EmailedSubdir == "" {
		c.EmailedSubdir = d.EmailedSubdir
	}
	if c.MailedSubdir == "" {
		c.MailedSubdir = d.MailedSubdir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.CheckboxMark.Glyph == "" {
		c.CheckboxMark.Glyph = d.CheckboxMark.Glyph
	}
	if c.CheckboxMark.Points == 0 {
		c.CheckboxMark.Points = d.CheckboxMark.Points
	}
	if c.CheckboxMark.Page == 0 {
		c.CheckboxMark.Page = d.CheckboxMark.Page
	}
}
