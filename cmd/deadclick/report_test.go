package main

import (
	"strings"
	"testing"

	"deadclick/internal/pipeline"
	"deadclick/internal/types"
)

func TestReportMarkdown(t *testing.T) {
	findings := []types.Finding{
		{
			ID:         "finding_abcd",
			Type:       types.FindingBrokenNavigation,
			Status:     types.StatusConfirmed,
			Confidence: 0.95,
			Summary:    "navigation to \"/settings\" never happened",
			Impact:     "user is promised a destination they can never reach",
			Promise: &types.Expectation{
				Value:  "/settings",
				Source: types.SourceRef{File: "src/nav.tsx", Line: 10, Column: 2},
			},
			Scoring: types.ConfidenceResult{Level: types.LevelHigh, TopReasons: []string{"critical_evidence"}},
		},
	}
	silences := map[string][]types.SilenceSignal{
		"o7": {{Code: types.SilenceSubmissionAmbiguous, Detector: "silent_submission"}},
	}

	md := reportMarkdown("run_1234", findings, silences)

	for _, want := range []string{
		"# deadclick report: run_1234",
		"CONFIRMED",
		"finding_abcd",
		"src/nav.tsx:10:2",
		"critical_evidence",
		"## Silences",
		"submission_ambiguous",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestReportMarkdownNoFindings(t *testing.T) {
	md := reportMarkdown("run_1", nil, nil)
	if !strings.Contains(md, "Every judged promise held") {
		t.Errorf("empty report = %q", md)
	}
	if strings.Contains(md, "## Silences") {
		t.Error("silence section rendered with no silences")
	}
}

func TestSummaryLineCounts(t *testing.T) {
	res := pipeline.Result{Findings: []types.Finding{
		{Status: types.StatusConfirmed},
		{Status: types.StatusSuspected},
		{Status: types.StatusSuspected},
		{Status: types.StatusInformational},
	}}
	line := summaryLine("run_x", res)
	if !strings.Contains(line, "1 confirmed, 2 suspected, 1 informational") {
		t.Errorf("summary = %q", line)
	}
}
