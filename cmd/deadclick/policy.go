package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deadclick/internal/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate policy documents",
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configured policy documents",
	Long: `Loads the guardrails and confidence policy documents exactly as a
detection run would and reports any configuration error. A run with an invalid
policy fails before any detection happens; this surfaces those errors early.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := policy.Load(cfg.Policy.GuardrailsPath, cfg.Policy.ConfidencePath)
		if err != nil {
			return err
		}
		gv, cv := s.Versions()
		fmt.Fprintf(cmd.OutOrStdout(), "guardrails policy: version %s (%s)\n", gv, describePath(cfg.Policy.GuardrailsPath))
		fmt.Fprintf(cmd.OutOrStdout(), "confidence policy: version %s (%s)\n", cv, describePath(cfg.Policy.ConfidencePath))
		return nil
	},
}

func describePath(path string) string {
	if path == "" {
		return "embedded default"
	}
	return path
}

func init() {
	policyCmd.AddCommand(policyValidateCmd)
}
