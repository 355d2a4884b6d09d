// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders r as a Markdown document.
func Markdown(r *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Closure of %s\n\n", filepath.Base(r.Entry))

	sb.WriteString("## Search roots\n\n")
	if len(r.Roots) == 0 {
		sb.WriteString("- None\n\n")
	} else {
		for i, root := range r.Roots {
			fmt.Fprintf(&sb, "%d. `%s`\n", i+1, root)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Modules\n\n")
	if len(r.Modules) == 0 {
		sb.WriteString("No dependencies.\n\n")
	} else {
		sb.WriteString("| # | Name | Path |\n")
		sb.WriteString("|---|---|---|\n")
		for i, m := range r.Modules {
			fmt.Fprintf(&sb, "| %d | %s | %s |\n", i+1, escapeTableValue(m.Name), escapeTableValue(m.Path))
		}
		sb.WriteString("\n")
	}

	if len(r.Dropped) > 0 {
		sb.WriteString("## Not found\n\n")
		sb.WriteString("| Reference | Referenced by |\n")
		sb.WriteString("|---|---|\n")
		for _, d := range r.Dropped {
			fmt.Fprintf(&sb, "| %s | %s |\n", escapeTableValue(d.Name), escapeTableValue(filepath.Base(d.Referrer)))
		}
		sb.WriteString("\n")
	}
	if len(r.Failures) > 0 {
		sb.WriteString("## Unreadable modules\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "- `%s`: %s\n", f.Path, f.Err)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderMarkdown(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return renderer.Render(md)
}

func escapeTableValue(value string) string {
	if value == "" {
		return "-"
	}
	escaped := strings.ReplaceAll(value, "\r", "")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return strings.ReplaceAll(escaped, "|", "\\|")
}
