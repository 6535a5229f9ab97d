package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelcheck/internal/checker"
)

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [file|-]",
		Short: "Evaluate saved classifier output without contacting the provider",
		Long: "Read provider text from a file (or stdin with '-' or no argument), extract\n" +
			"the classification record, and evaluate it. Exits 2 on violations.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = strings.TrimSpace(args[0])
			}
			raw, err := readInput(cmd, source)
			if err != nil {
				return err
			}

			chk, cleanup, err := ctx.newChecker(cmd, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			label := "stdin"
			if source != "-" {
				label = source
			}
			result, _ := chk.EvaluateText(cmd.Context(), label, raw)
			results := []checker.Result{result}
			if err := emitResults(cmd, ctx, results, false); err != nil {
				return err
			}
			return resultsExit(results)
		},
	}
}

func readInput(cmd *cobra.Command, source string) (string, error) {
	if source == "" || source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(data), nil
}
