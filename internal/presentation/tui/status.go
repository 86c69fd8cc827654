package tui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/aretw0/checkmark/pkg/domain"
)

var levelColors = map[domain.AccessibilityLevel]string{
	domain.None:          "#ef4444",
	domain.Inspect:       "#38bdf8",
	domain.Partial:       "#f59e0b",
	domain.SequenceBreak: "#a78bfa",
	domain.Normal:        "#22c55e",
}

// PrintStatus writes one row per location: accessibility, remaining items and name.
// Pass termenv.Ascii to disable colour.
func PrintStatus(w io.Writer, locs []domain.LocationStatus, profile termenv.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCATION\tACCESS\tLEFT\tNAME")
	for _, loc := range locs {
		level := loc.Accessibility()
		if loc.Remaining() == 0 {
			level = domain.None
		}
		access := profile.String(level.String()).Foreground(profile.Color(levelColors[level]))
		if loc.Remaining() == 0 {
			access = profile.String("cleared").Faint()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", loc.ID, access, loc.Remaining(), loc.Name)
	}
	return tw.Flush()
}

// Report renders the locations as a markdown document, one table per location.
func Report(title string, locs []domain.LocationStatus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	counts := make(map[domain.AccessibilityLevel]int)
	for _, loc := range locs {
		if loc.Remaining() > 0 {
			counts[loc.Accessibility()]++
		}
	}
	sb.WriteString("| accessibility | locations |\n|---|---|\n")
	for i := len(domain.Levels) - 1; i >= 0; i-- {
		level := domain.Levels[i]
		fmt.Fprintf(&sb, "| %s | %d |\n", level, counts[level])
	}

	for _, loc := range locs {
		name := loc.Name
		if name == "" {
			name = loc.ID
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", name)
		sb.WriteString("| # | section | kind | left | accessibility | notes |\n|---|---|---|---|---|---|\n")
		for _, s := range loc.Sections {
			fmt.Fprintf(&sb, "| %d | %s | %s | %d/%d | %s | %s |\n",
				s.Ref.Index, s.Name, s.Kind, s.Available, s.Total, s.Accessibility, notes(s))
		}
	}
	return sb.String()
}

func notes(s domain.SectionStatus) string {
	var parts []string
	if s.Boss != "" {
		parts = append(parts, "boss: "+s.Boss)
	}
	if s.Prize != "" {
		parts = append(parts, "prize: "+s.Prize)
	}
	if s.Marking != domain.MarkUnknown {
		parts = append(parts, "marked "+string(s.Marking))
	}
	if s.UserManipulated {
		parts = append(parts, "manual")
	}
	return strings.Join(parts, ", ")
}
