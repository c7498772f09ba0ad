package ludtwig

import "fmt"

// Severity ranks a Diagnostic for sorting and exit-code purposes. Order
// matters: Severity values compare numerically, Error being the highest, so
// "worst severity seen" is a plain max over a diagnostic slice (§6 "exit
// code reflects the worst severity emitted").
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityHelp
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHelp:
		return "help"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Suggestion is a single proposed text edit a rule can attach to a
// Diagnostic. The applier (applier.go) replaces Range with Replacement
// verbatim; Range must address the same source the Diagnostic's tree was
// parsed from.
type Suggestion struct {
	Message     string
	Range       Range
	Replacement string
}

// Diagnostic is one finding, either synthesized by the parser core (a syntax
// error, always Severity Error) or by a rule (engine.go). RuleName is empty
// for parser-synthesized diagnostics.
type Diagnostic struct {
	Severity    Severity
	RuleName    string
	Message     string
	Primary     Range
	Suggestions []Suggestion
}

func (d Diagnostic) String() string {
	if d.RuleName == "" {
		return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Primary)
	}
	return fmt.Sprintf("%s[%s]: %s (%s)", d.Severity, d.RuleName, d.Message, d.Primary)
}

// WorstSeverity returns the highest Severity among diags, and ok=false if
// diags is empty (so callers can distinguish "nothing reported" from "only
// Info reported").
func WorstSeverity(diags []Diagnostic) (sev Severity, ok bool) {
	for i, d := range diags {
		if i == 0 || d.Severity > sev {
			sev = d.Severity
		}
		ok = true
	}
	return sev, ok
}
