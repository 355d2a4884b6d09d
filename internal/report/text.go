// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// Text renders r for a terminal.
func Text(r *Report) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d modules", filepath.Base(r.Entry), len(r.Modules))))
	sb.WriteString("\n")

	width := 0
	for _, m := range r.Modules {
		width = max(width, len(m.Name))
	}
	for _, m := range r.Modules {
		name := nameStyle.Render(m.Name + strings.Repeat(" ", width-len(m.Name)))
		fmt.Fprintf(&sb, "  %s  %s\n", name, pathStyle.Render(m.Path))
	}

	if len(r.Dropped) > 0 {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%d references not found:", len(r.Dropped))))
		sb.WriteString("\n")
		for _, d := range r.Dropped {
			fmt.Fprintf(&sb, "  %s  %s\n", d.Name, pathStyle.Render("from "+filepath.Base(d.Referrer)))
		}
	}
	if len(r.Failures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%d modules could not be read:", len(r.Failures))))
		sb.WriteString("\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "  %s  %s\n", f.Path, pathStyle.Render(f.Err))
		}
	}
	return sb.String()
}
