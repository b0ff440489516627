package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the funchain banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   __              _         _       `, "#818cf8"},
		{`  / _|_  _ _ _  __| |_  __ _(_)_ _   `, "#a78bfa"},
		{` |  _| || | ' \/ _| ' \/ _' | | ' \  `, "#c084fc"},
		{` |_|  \_,_|_||_\__|_||_\__,_|_|_||_| `, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status colours a run status for terminal output.
func Status(status string) termenv.Style {
	p := termenv.ColorProfile()
	s := termenv.String(status).Bold()
	switch status {
	case "completed":
		return s.Foreground(p.Color("#22c55e"))
	case "failed":
		return s.Foreground(p.Color("#ef4444"))
	}
	return s
}
