// Package report renders persisted run results as Markdown or HTML documents.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mvaughn/solvercheck/internal/history"
	"github.com/mvaughn/solvercheck/internal/models"
)

// BuildMarkdown renders one run's results as a Markdown document.
func BuildMarkdown(run history.RunRecord, examples []history.ExampleRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Regression Run %s\n\n", run.ID)
	fmt.Fprintf(&sb, "- **Mode**: %s\n", run.Mode)
	fmt.Fprintf(&sb, "- **Started**: %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- **Duration**: %s\n", run.Duration)
	fmt.Fprintf(&sb, "- **Result**: %d/%d examples passed\n\n", run.Passed, run.Total)

	sb.WriteString("## Examples\n\n")
	sb.WriteString("| Example | Status | Log |\n")
	sb.WriteString("|---------|--------|-----|\n")
	for _, ex := range examples {
		fmt.Fprintf(&sb, "| %s | %s | `%s` |\n", ex.ExampleName, exampleStatus(ex), ex.LogPath)
	}
	sb.WriteString("\n")

	for _, ex := range examples {
		if ex.Passed {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n", ex.ExampleName)
		if ex.LogMissing {
			fmt.Fprintf(&sb, "Log file missing or misnamed: `%s`. All checks skipped.\n\n", ex.LogPath)
			continue
		}
		if len(ex.MissingSpecs) > 0 {
			fmt.Fprintf(&sb, "Values never found in the log: %s\n\n", strings.Join(ex.MissingSpecs, ", "))
		}
		for _, check := range ex.Checks {
			switch check.Outcome {
			case models.OutcomePassed, models.OutcomeValueNotFound:
				// Value-not-found is already covered by the missing list.
			default:
				fmt.Fprintf(&sb, "- %s\n", check.Message())
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// exampleStatus renders a status cell for the example table.
func exampleStatus(ex history.ExampleRecord) string {
	switch {
	case ex.Passed:
		return "pass"
	case ex.LogMissing:
		return "skipped (log unavailable)"
	default:
		return "fail"
	}
}

// RenderHTML converts a Markdown report to a standalone HTML document.
func RenderHTML(markdown string) (string, error) {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("render report HTML: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>solvercheck report</title>\n</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}
