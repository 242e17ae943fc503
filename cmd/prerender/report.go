package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"todoblog/application"
	"todoblog/domain/pages"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// renderReport formats a prerender run for the terminal.
func renderReport(report *application.PrerenderReport, fallback bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Prerendered %d of %d detail pages", len(report.Generated), report.Total())))
	b.WriteString("\n\n")

	for _, id := range report.Generated {
		b.WriteString(successStyle.Render("  ✓ "))
		b.WriteString(pages.DetailPath(id))
		b.WriteString("\n")
	}
	for _, id := range report.Missing {
		b.WriteString(pendingStyle.Render("  ? "))
		b.WriteString(pages.DetailPath(id))
		b.WriteString(mutedStyle.Render("  listed but no longer found"))
		b.WriteString("\n")
	}
	for _, failure := range report.Failed {
		b.WriteString(errorStyle.Render("  ✗ "))
		b.WriteString(pages.DetailPath(failure.ID))
		b.WriteString(mutedStyle.Render("  " + failure.Err.Error()))
		b.WriteString("\n")
	}
	for _, path := range report.Pruned {
		b.WriteString(mutedStyle.Render("  - "))
		b.WriteString(path)
		b.WriteString(mutedStyle.Render("  evicted, no longer listed"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if fallback {
		b.WriteString(mutedStyle.Render("Unlisted pages are generated on first request."))
	} else {
		b.WriteString(mutedStyle.Render("Fallback is off: unlisted pages answer 404."))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Finished in %s", report.Duration.Round(time.Millisecond))))

	return boxStyle.Render(b.String())
}
