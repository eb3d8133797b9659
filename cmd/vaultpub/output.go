package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/vaultpub/pkg/publish"
	"github.com/arthur-debert/vaultpub/pkg/syncer"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	modStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	summaryStyle = lipgloss.NewStyle().Bold(true)
)

func statusLabel(s syncer.Status) string {
	switch s {
	case syncer.StatusNew:
		return newStyle.Render("new       ")
	case syncer.StatusModified:
		return modStyle.Render("modified  ")
	case syncer.StatusDeleted:
		return delStyle.Render("deleted   ")
	default:
		return subtleStyle.Render("unchanged ")
	}
}

// renderPreview prints the file record table and the uncommitted-changes
// note.
func renderPreview(w io.Writer, preview *publish.Preview) {
	if len(preview.Records) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("Nothing to publish."))
	}
	for _, r := range preview.Records {
		fmt.Fprintf(w, "  %s %s\n", statusLabel(r.Status), r.Path)
	}
	if preview.UncommittedChanges {
		fmt.Fprintln(w, warnStyle.Render("The publish repository has uncommitted changes."))
	}
}

// renderResult prints the publish cycle summary.
func renderResult(w io.Writer, res *publish.Result) {
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf(
		"%d new, %d modified, %d deleted, %d unchanged",
		res.New, res.Modified, res.Deleted, res.Unmodified)))
	switch {
	case !res.Committed:
		fmt.Fprintln(w, subtleStyle.Render("Nothing to commit."))
	case res.Pushed:
		fmt.Fprintln(w, "Committed and pushed.")
	default:
		fmt.Fprintln(w, "Committed (not pushed).")
	}
}
