package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/superior-tools/crm-resolver/internal/validate"
)

var validateJobID int64

var validateCmd = &cobra.Command{
	Use:   "validate [customer-name]",
	Short: "Cross-check a customer against the CRM",
	Long:  "Walks the lead -> contract -> job chain and prints a validation summary. Pass a customer name, or --job-id to validate via the job record.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := validate.New(newFenceClient(),
			validate.WithTrackStates(cfg.Resolve.TrackStates),
			validate.WithContractStatuses(cfg.Resolve.ContractStatuses),
			validate.WithConcurrency(cfg.Resolve.Concurrency),
		)

		var summary *validate.Summary
		var err error
		switch {
		case validateJobID > 0:
			summary, err = v.ByJobID(cmd.Context(), validateJobID)
		case len(args) == 1:
			summary, err = v.ByLeadName(cmd.Context(), args[0])
		default:
			return eris.New("pass a customer name or --job-id")
		}
		if err != nil {
			return eris.Wrap(err, "validate")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	validateCmd.Flags().Int64Var(&validateJobID, "job-id", 0, "validate by job ID instead of name")
	rootCmd.AddCommand(validateCmd)
}
