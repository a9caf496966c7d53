package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/weavetpl/weave"
)

var (
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	locationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// printDiagnostic renders err to stderr, colorizing the kind/location of
// *weave.Error values the way an interactive CLI in the pack colorizes
// near-miss suggestions; any other error is printed plainly.
func printDiagnostic(err error) {
	werr, ok := err.(*weave.Error)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	line := kindStyle.Render(werr.Kind.String()) + ": " + werr.Message
	if werr.Name != "" {
		loc := werr.Name
		if werr.Span != nil {
			loc = fmt.Sprintf("%s:%d", werr.Name, werr.Span.StartLine)
		}
		line += " " + locationStyle.Render("("+loc+")")
	}
	if werr.Suggestion != "" {
		line += " " + suggestStyle.Render(fmt.Sprintf("did you mean %q?", werr.Suggestion))
	}
	fmt.Fprintln(os.Stderr, line)
}
