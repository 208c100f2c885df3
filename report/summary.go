package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kasuganosora/railsim/sim"
)

// Summary prints the average damage of every player over the trials,
// followed by the share of each tag list:
//
//	Blade did 412345 DMG
//	Basic ATK Wind: 12.5%; Ultimate Wind: 40.1%; ...
func Summary(w io.Writer, s sim.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Average Results Over %d trials:\n", s.Trials)
	if s.Aborted > 0 {
		fmt.Fprintf(&b, "%d trials were aborted\n", s.Aborted)
	}
	for _, p := range s.Players {
		fmt.Fprintf(&b, "%s did %.0f DMG\n", p.Name, p.Average)
		if p.Total <= 0 {
			continue
		}
		parts := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			parts[i] = fmt.Sprintf("%s: %.1f%%", t.Tag, t.Percent)
		}
		b.WriteString(strings.Join(parts, "; "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
