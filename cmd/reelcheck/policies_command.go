package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelcheck/internal/compliance"
	"reelcheck/internal/config"
)

type ruleOutput struct {
	Category        string `json:"category"`
	AllowedPresence string `json:"allowed_presence"`
	AllowedSeverity string `json:"allowed_severity,omitempty"`
}

type jurisdictionOutput struct {
	Name  string       `json:"name"`
	Rules []ruleOutput `json:"rules"`
}

func newPoliciesCommand(ctx *commandContext) *cobra.Command {
	var jurisdiction string
	var exportPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Show the jurisdiction policy table",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ctx.policies()
			if err != nil {
				return err
			}
			if strings.TrimSpace(exportPath) != "" {
				return exportPolicies(cmd, table, exportPath, overwrite)
			}

			jurisdictions := table.Jurisdictions()
			if name := strings.TrimSpace(jurisdiction); name != "" {
				found, ok := table.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown jurisdiction %q (known: %s)", name, strings.Join(table.Names(), ", "))
				}
				jurisdictions = []compliance.Jurisdiction{found}
			}

			if ctx.jsonOutput() {
				outputs := make([]jurisdictionOutput, 0, len(jurisdictions))
				for _, j := range jurisdictions {
					entry := jurisdictionOutput{Name: j.Name, Rules: make([]ruleOutput, 0, len(j.Rules))}
					for _, rule := range j.Rules {
						entry.Rules = append(entry.Rules, ruleOutput{
							Category:        rule.Category.String(),
							AllowedPresence: string(rule.AllowedPresence),
							AllowedSeverity: rule.AllowedSeverity,
						})
					}
					outputs = append(outputs, entry)
				}
				return writeJSON(cmd, outputs)
			}

			var rows [][]string
			for _, j := range jurisdictions {
				for _, rule := range j.Rules {
					severity := rule.AllowedSeverity
					if severity == "" {
						severity = "any"
					}
					rows = append(rows, []string{j.Name, rule.Category.String(), string(rule.AllowedPresence), severity})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Jurisdiction", "Category", "Presence", "Severity"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&jurisdiction, "jurisdiction", "j", "", "Show a single jurisdiction")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the active table to a .toml or .yaml file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the export file if present")
	return cmd
}

func exportPolicies(cmd *cobra.Command, table *compliance.Table, path string, overwrite bool) error {
	target, err := config.ExpandPath(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("resolve export path: %w", err)
	}
	format, err := compliance.FormatForPath(target)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("policy file already exists at %s (use --overwrite to replace it)", target)
		}
	}
	data, err := compliance.MarshalTable(table, format)
	if err != nil {
		return fmt.Errorf("encode policies: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write policies: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d jurisdictions to %s\n", table.Len(), target)
	fmt.Fprintln(cmd.OutOrStdout(), "Set [policies] path in the config file to use it.")
	return nil
}
