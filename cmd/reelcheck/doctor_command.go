package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reelcheck/internal/preflight"
)

type doctorOutput struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, directories, policies, and provider access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, !offline)

			if ctx.jsonOutput() {
				outputs := make([]doctorOutput, 0, len(results))
				for _, result := range results {
					outputs = append(outputs, doctorOutput(result))
				}
				if err := writeJSON(cmd, outputs); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range results {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
			}
			if !preflight.AllPassed(results) {
				return errors.New("one or more preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the provider reachability check")
	return cmd
}
