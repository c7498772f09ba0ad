package ludtwig

import (
	"os"
	"path/filepath"
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner, the same way the teacher's own
// pongo2_issues_test.go does, kept here for the occasional test that reads
// more naturally as a suite of Checks than a table-driven loop.
func TestConfigSuite(t *testing.T) { TestingT(t) }

type ConfigTestSuite struct{}

var _ = Suite(&ConfigTestSuite{})

func (s *ConfigTestSuite) TestDefaults(c *C) {
	cfg := DefaultConfig()
	c.Check(cfg.Format.IndentationCount, Equals, uint8(4))
	c.Check(cfg.Format.IndentationMode, Equals, IndentSpaces)
	c.Check(cfg.Format.Linebreak, Equals, LinebreakLF)
	c.Check(cfg.ruleEnabled("anything"), Equals, true)
}

func (s *ConfigTestSuite) TestLoadOverridesIndentCount(c *C) {
	dir := c.MkDir()
	path := filepath.Join(dir, "ludtwig.toml")
	body := "[format]\nindentation_count = 2\n\n[rules.duplicate-attribute]\nenabled = false\n"
	c.Assert(os.WriteFile(path, []byte(body), 0o644), IsNil)

	cfg, err := LoadConfig(path)
	c.Assert(err, IsNil)
	c.Check(cfg.Format.IndentationCount, Equals, uint8(2))
	c.Check(cfg.ruleEnabled("duplicate-attribute"), Equals, false)
}

func (s *ConfigTestSuite) TestSeverityOverride(c *C) {
	cfg := DefaultConfig()
	cfg.Rules["indentation"] = RuleConfig{Severity: "error"}
	sev, ok := cfg.severityOverride("indentation")
	c.Assert(ok, Equals, true)
	c.Check(sev, Equals, SeverityError)
}
