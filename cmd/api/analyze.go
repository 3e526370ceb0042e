package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/mockbackend"
	"github.com/C-1995-O1-HALE-POPP/ris-system/pkg/random"
)

func newAnalyzeCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Run the keyword emotion analysis on text and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := mockbackend.New(mockbackend.NoDelays(), random.New(seed), zap.NewNop())

			reading, err := backend.AnalyzeText(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reading)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for the confidence jitter (0 = time-seeded)")
	return cmd
}
