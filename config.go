package ludtwig

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
)

// IndentationMode selects whether FormatConfig pads with spaces or tabs.
type IndentationMode string

const (
	IndentSpaces IndentationMode = "spaces"
	IndentTabs   IndentationMode = "tabs"
)

// LinebreakMode selects the line-ending style the formatter writes back.
type LinebreakMode string

const (
	LinebreakLF   LinebreakMode = "lf"
	LinebreakCRLF LinebreakMode = "crlf"
)

// FormatConfig is the "[format]" TOML table (§6).
type FormatConfig struct {
	IndentationMode        IndentationMode `toml:"indentation_mode"`
	IndentationCount       uint8           `toml:"indentation_count"`
	IndentChildrenOfBlocks bool            `toml:"indent_children_of_blocks"`
	Linebreak              LinebreakMode   `toml:"linebreak"`
}

// RuleConfig is one "[rules.<name>]" TOML table entry.
type RuleConfig struct {
	Enabled  *bool  `toml:"enabled"`
	Severity string `toml:"severity"`
}

// Config is the root of ludtwig.toml, loaded with BurntSushi/toml the same
// way the teacher's template_sets.go loads its own small settings structs,
// generalized here to the richer [format]/[rules.*] shape §6 specifies.
type Config struct {
	Format FormatConfig          `toml:"format"`
	Rules  map[string]RuleConfig `toml:"rules"`
}

// DefaultConfig returns the configuration in effect with no ludtwig.toml
// present: 4-space indentation, LF line endings, every rule on at its
// default severity.
func DefaultConfig() *Config {
	return &Config{
		Format: FormatConfig{
			IndentationMode:        IndentSpaces,
			IndentationCount:       4,
			IndentChildrenOfBlocks: true,
			Linebreak:              LinebreakLF,
		},
		Rules: map[string]RuleConfig{},
	}
}

// LoadConfig reads and decodes a ludtwig.toml file, filling in
// DefaultConfig's values for anything the file doesn't set.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "reading config %s", path)
	}
	// Decode onto a config whose Format already carries the defaults, so a
	// partial [format] table in the file only overrides the keys it names.
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Annotatef(err, "parsing config %s", path)
	}
	return cfg, nil
}

func (c *Config) ruleEnabled(name string) bool {
	if c == nil {
		return true
	}
	if rc, ok := c.Rules[name]; ok {
		if rc.Enabled != nil {
			return *rc.Enabled
		}
		if strings.EqualFold(rc.Severity, "off") {
			return false
		}
	}
	return true
}

// severityOverride reports the configured severity for name, if any.
func (c *Config) severityOverride(name string) (Severity, bool) {
	if c == nil {
		return 0, false
	}
	rc, ok := c.Rules[name]
	if !ok || rc.Severity == "" {
		return 0, false
	}
	switch strings.ToLower(rc.Severity) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "help":
		return SeverityHelp, true
	case "info":
		return SeverityInfo, true
	default:
		return 0, false
	}
}

func (c *Config) indentUnit() int {
	if c == nil || c.Format.IndentationCount == 0 {
		return 4
	}
	return int(c.Format.IndentationCount)
}

func (c *Config) indentString(n int) string {
	ch := " "
	if c != nil && c.Format.IndentationMode == IndentTabs {
		ch = "\t"
	}
	return strings.Repeat(ch, n)
}

// linebreakString returns the literal line-ending string this config writes.
func (c *Config) linebreakString() string {
	if c != nil && c.Format.Linebreak == LinebreakCRLF {
		return "\r\n"
	}
	return "\n"
}
