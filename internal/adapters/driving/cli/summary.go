package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
)

// summaryStyles holds the styles used for the run summary.
type summaryStyles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// newSummaryStyles returns coloured styles, or plain ones when colour is off.
func newSummaryStyles(colour bool) summaryStyles {
	if !colour {
		plain := lipgloss.NewStyle()
		return summaryStyles{
			Title: plain, Label: plain, Success: plain,
			Warning: plain, Error: plain, Muted: plain,
		}
	}
	return summaryStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderSummary formats a run report.
func renderSummary(report *domain.RunReport, strict, colour bool) string {
	st := newSummaryStyles(colour)
	var b strings.Builder

	line := func(label string, value any) {
		fmt.Fprintf(&b, "  %s %v\n", st.Label.Render(fmt.Sprintf("%-20s", label)), value)
	}

	b.WriteString(st.Title.Render("Run "+report.RunID) + "\n")
	if report.IndexErr != nil {
		line("Index", st.Error.Render(report.IndexErr.Error()))
	}
	line("Locators", report.Locators)
	line("Fetched", report.Fetched)
	line("Processed", report.DocumentsProcessed)
	line("Fetch failures", count(st, report.FetchFailures))
	line("Parse failures", count(st, report.ParseFailures))
	line("Documents w/o filer", report.DroppedFilers)
	line("Filers", report.Filers)
	line("Recipients", report.Recipients)
	line("Duration", report.Duration().Round(time.Millisecond))

	if report.DryRun {
		b.WriteString("  " + st.Muted.Render("Dry run: no tables written") + "\n")
	}
	for _, t := range report.Tables {
		if t.Err != nil {
			line("Table "+t.Table, st.Error.Render("failed: "+t.Err.Error()))
			continue
		}
		line("Table "+t.Table, st.Success.Render(fmt.Sprintf("%d rows", t.Rows)))
	}

	if report.Failed(strict) {
		b.WriteString(st.Error.Render("Run failed") + "\n")
	} else {
		b.WriteString(st.Success.Render("Run succeeded") + "\n")
	}
	return b.String()
}

func count(st summaryStyles, n int) string {
	if n == 0 {
		return "0"
	}
	return st.Warning.Render(fmt.Sprint(n))
}
