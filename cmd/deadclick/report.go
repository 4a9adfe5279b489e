package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"deadclick/internal/pipeline"
	"deadclick/internal/store"
	"deadclick/internal/types"
)

var (
	statusStyles = map[types.Status]lipgloss.Style{
		types.StatusConfirmed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		types.StatusSuspected:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		types.StatusInformational: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	silenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Render a findings report for a run",
	Long: `Renders the findings of a persisted run as a markdown report in the
terminal. Without a run id the most recent run is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()

		runID := ""
		if len(args) == 1 {
			runID = args[0]
		} else {
			runs, err := s.Runs(cmd.Context(), 1)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return fmt.Errorf("no runs recorded in %s", cfg.Store.DatabasePath)
			}
			runID = runs[0].ID
		}

		findings, err := s.Findings(cmd.Context(), runID)
		if err != nil {
			return err
		}
		silences, err := s.Silences(cmd.Context(), runID)
		if err != nil {
			return err
		}

		md := reportMarkdown(runID, findings, silences)
		rendered, err := renderMarkdown(md)
		if err != nil {
			// Fall back to raw markdown on terminals glamour cannot probe.
			rendered = md
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

func reportMarkdown(runID string, findings []types.Finding, silences map[string][]types.SilenceSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# deadclick report: %s\n\n", runID)

	if len(findings) == 0 {
		b.WriteString("No findings. Every judged promise held.\n\n")
	}
	for _, f := range findings {
		fmt.Fprintf(&b, "## %s `%s`\n\n", f.Status, f.ID)
		fmt.Fprintf(&b, "**%s** (%s, confidence %.2f, %s)\n\n", f.Summary, f.Type, f.Confidence, f.Scoring.Level)
		if f.Impact != "" {
			fmt.Fprintf(&b, "Impact: %s\n\n", f.Impact)
		}
		if f.Promise != nil {
			fmt.Fprintf(&b, "Promise: `%s` at %s:%d:%d\n\n",
				f.Promise.Value, f.Promise.Source.File, f.Promise.Source.Line, f.Promise.Source.Column)
		}
		if len(f.Scoring.TopReasons) > 0 {
			fmt.Fprintf(&b, "Reasons: %s\n\n", strings.Join(f.Scoring.TopReasons, ", "))
		}
		if len(f.Guardrails.AppliedRules) > 0 {
			fmt.Fprintf(&b, "Guardrails: %s (%s)\n\n",
				strings.Join(f.Guardrails.AppliedRules, ", "), f.Guardrails.FinalDecision)
		}
		if len(f.Enrichment.ConfirmedEligibilityMissing) > 0 {
			fmt.Fprintf(&b, "Downgraded: missing %s\n\n",
				strings.Join(f.Enrichment.ConfirmedEligibilityMissing, ", "))
		}
	}

	if len(silences) > 0 {
		b.WriteString("## Silences\n\n")
		b.WriteString("Observations the detectors declined to judge:\n\n")
		for obsID, sigs := range silences {
			for _, sig := range sigs {
				fmt.Fprintf(&b, "- `%s`: %s (%s)\n", obsID, sig.Code, sig.Detector)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func summaryLine(runID string, res pipeline.Result) string {
	confirmed, suspected, informational := 0, 0, 0
	for _, f := range res.Findings {
		switch f.Status {
		case types.StatusConfirmed:
			confirmed++
		case types.StatusSuspected:
			suspected++
		case types.StatusInformational:
			informational++
		}
	}
	return headerStyle.Render(fmt.Sprintf("%s: %d confirmed, %d suspected, %d informational",
		runID, confirmed, suspected, informational))
}

func findingLine(f types.Finding) string {
	style, ok := statusStyles[f.Status]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return fmt.Sprintf("  %s  %s (%.2f) %s",
		style.Render(string(f.Status)), f.Type, f.Confidence, f.Summary)
}

func silenceLine(n int) string {
	return silenceStyle.Render(fmt.Sprintf("  %d observation(s) left unjudged; see report for silence codes", n))
}
