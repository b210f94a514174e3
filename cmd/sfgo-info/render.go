//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/obinnaokechukwu/sfgo"
)

// styles renders against the command's output, so colors are dropped
// when it is not a terminal.
type styles struct {
	name    lipgloss.Style
	loaded  lipgloss.Style
	missing lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		name:    r.NewStyle().Width(16).Bold(true),
		loaded:  r.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		missing: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		detail:  r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
	}
}

func printStatus(w io.Writer, st sfgo.Status) {
	s := newStyles(w)
	for _, m := range st.Modules {
		if !m.Loaded {
			fmt.Fprintln(w, s.name.Render(m.Name)+s.missing.Render("not loaded"))
			continue
		}
		line := s.name.Render(m.Name) + s.loaded.Render(m.Path)
		if m.Version != "" {
			line += " " + s.detail.Render("("+m.Version+")")
		}
		fmt.Fprintln(w, line)
	}

	shimStyle := s.loaded
	if strings.HasPrefix(st.Shim, "not loaded") {
		shimStyle = s.missing
	}
	fmt.Fprintln(w, s.name.Render("sfshim")+shimStyle.Render(st.Shim))
	fmt.Fprintln(w, s.name.Render("live objects")+s.detail.Render(fmt.Sprint(st.LiveObjects)))
	if st.ThreadClaimed {
		fmt.Fprintln(w, s.name.Render("window thread")+s.detail.Render(fmt.Sprint(st.WindowThread)))
	}
}
