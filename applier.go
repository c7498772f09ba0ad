package ludtwig

import (
	"sort"
	"strings"

	"github.com/juju/errors"
)

// ApplySuggestions rewrites source by applying every suggestion attached to
// a diagnostic at or above minSeverity, per §7's fix-application rules: if
// any two applicable suggestions' ranges overlap, nothing is applied and an
// error is returned instead, since applying one could invalidate the
// other's offsets. The result's line endings are normalized to cfg's
// configured format.linebreak (§6), regardless of how many edits applied.
func ApplySuggestions(source string, diags []Diagnostic, minSeverity Severity, cfg *Config) (string, int, error) {
	type edit struct {
		Suggestion
		rule string
	}
	var edits []edit
	for _, d := range diags {
		if d.Severity < minSeverity {
			continue
		}
		for _, s := range d.Suggestions {
			edits = append(edits, edit{Suggestion: s, rule: d.RuleName})
		}
	}
	if len(edits) == 0 {
		return normalizeLinebreaks(source, cfg), 0, nil
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].Range.Start < edits[j].Range.Start })
	for i := 1; i < len(edits); i++ {
		if edits[i-1].Range.Overlaps(edits[i].Range) {
			return source, 0, errors.Errorf(
				"overlapping suggestions from %q and %q at %s and %s: refusing to apply any",
				edits[i-1].rule, edits[i].rule, edits[i-1].Range, edits[i].Range)
		}
	}

	// Apply back to front so earlier ranges' offsets stay valid.
	out := source
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		out = out[:e.Range.Start] + e.Replacement + out[e.Range.End:]
	}
	return normalizeLinebreaks(out, cfg), len(edits), nil
}

// normalizeLinebreaks rewrites every line ending in s to cfg's configured
// format.linebreak, first collapsing CRLF to LF so mixed-ending input
// converges on a single style either way.
func normalizeLinebreaks(s string, cfg *Config) string {
	normalized := strings.ReplaceAll(s, "\r\n", "\n")
	if cfg.linebreakString() == "\r\n" {
		return strings.ReplaceAll(normalized, "\n", "\r\n")
	}
	return normalized
}
