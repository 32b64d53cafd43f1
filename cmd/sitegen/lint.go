package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"essex_travel/internal/catalog"
)

func lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check catalog content rules",
		RunE:  runLint,
	}
}

func runLint(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	report := catalog.Lint(p.cat)
	out := cmd.OutOrStdout()

	var errorIssues, warnIssues []catalog.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case catalog.SeverityError:
			errorIssues = append(errorIssues, issue)
		case catalog.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}
	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}
	if len(errorIssues) > 0 {
		return fmt.Errorf("catalog lint found %d errors", len(errorIssues))
	}
	return nil
}

func printIssues(out io.Writer, issues []catalog.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s: %s (%s)\n", issue.Entity, issue.Message, issue.Code)
	}
}
