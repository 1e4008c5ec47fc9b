package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/superior-tools/crm-resolver/internal/model"
	"github.com/superior-tools/crm-resolver/internal/resolve"
)

var matchRecord model.Record

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a structured customer record against the CRM",
	Long:  "Derives name, address, email, and phone search candidates from the given fields, searches each in parallel, and reports which categories matched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := resolve.NewEngine(newFenceClient(), resolve.WithConcurrency(cfg.Resolve.Concurrency))
		result := engine.MatchRecord(cmd.Context(), matchRecord)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchRecord.FirstName, "first-name", "", "customer first name")
	f.StringVar(&matchRecord.LastName, "last-name", "", "customer last name")
	f.StringVar(&matchRecord.PersonalAddress, "address", "", "street address")
	f.StringVar(&matchRecord.PersonalCity, "city", "", "city")
	f.StringVar(&matchRecord.PersonalState, "state", "", "state")
	f.StringVar(&matchRecord.PersonalZip, "zip", "", "zip code")
	f.StringVar(&matchRecord.MobilePhone, "mobile-phone", "", "mobile phone")
	f.StringVar(&matchRecord.PersonalPhone, "personal-phone", "", "personal phone")
	f.StringVar(&matchRecord.BusinessEmail, "business-email", "", "business email")
	f.StringVar(&matchRecord.PersonalEmails, "personal-emails", "", "personal emails, comma separated")
	f.StringVar(&matchRecord.DeepVerifiedEmails, "verified-emails", "", "verified emails, comma separated")
	rootCmd.AddCommand(matchCmd)
}
