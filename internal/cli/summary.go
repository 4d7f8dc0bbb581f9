package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/blimu-dev/schema-gen/pkg/generator"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// renderReport draws one row per document: status, document, output and
// the number of emitted types.
func renderReport(r *generator.Report) string {
	docWidth, outWidth := len("document"), len("output")
	for _, res := range r.Results {
		docWidth = max(docWidth, len(filepath.Base(res.Document)))
		outWidth = max(outWidth, len(res.Output))
	}
	docCol := lipgloss.NewStyle().Width(docWidth + 2)
	outCol := lipgloss.NewStyle().Width(outWidth + 2)
	statusCol := lipgloss.NewStyle().Width(6)

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top,
		statusCol.Render(headerStyle.Render("")),
		docCol.Render(headerStyle.Render("document")),
		outCol.Render(headerStyle.Render("output")),
		headerStyle.Render("types"),
	)}
	for _, res := range r.Results {
		status, types := okStyle.Render("ok"), fmt.Sprint(res.Types)
		if res.Err != nil {
			status, types = failStyle.Render("FAIL"), dimStyle.Render("-")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			statusCol.Render(status),
			docCol.Render(filepath.Base(res.Document)),
			outCol.Render(res.Output),
			types,
		))
	}

	footer := fmt.Sprintf("%d documents, %d failed in %s", len(r.Results), r.Failed(), r.Duration.Round(time.Millisecond))
	rows = append(rows, dimStyle.Render(footer))
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
