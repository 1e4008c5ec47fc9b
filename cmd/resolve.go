package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/superior-tools/crm-resolver/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [input]",
	Short: "Run the full resolution pipeline on a text blob",
	Long:  "Segments the input into names, resolves each against the CRM, groups lead identities, and prints one JSON row per lead/contract pair. Reads stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			return eris.New("empty input")
		}

		engine := resolve.NewEngine(newFenceClient(), resolve.WithConcurrency(cfg.Resolve.Concurrency))
		rows, err := engine.Run(cmd.Context(), input)
		if err != nil {
			return eris.Wrap(err, "run pipeline")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	},
}

// readInput returns the first argument, or all of stdin when absent.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", eris.Wrap(err, "read stdin")
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
