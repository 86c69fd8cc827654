package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the checkmark ASCII banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{`       _               _                         _    `, "#34d399"},
		{`   ___| |__   ___  ___| | ___ __ ___   __ _ _ __| | __`, "#2dd4bf"},
		{`  / __| '_ \ / _ \/ __| |/ / '_ ' _ \ / _' | '__| |/ /`, "#22d3ee"},
		{` | (__| | | |  __/ (__|   <| | | | | | (_| | |  |   < `, "#38bdf8"},
		{`  \___|_| |_|\___|\___|_|\_\_| |_| |_|\__,_|_|  |_|\_\`, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
