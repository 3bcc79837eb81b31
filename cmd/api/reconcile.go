package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"courier-backend/internal/client"
	"courier-backend/internal/logging"
	"courier-backend/internal/model"
	"courier-backend/internal/repository"
	"courier-backend/internal/service"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "List payments whose parcel was never marked paid",
		Long: `List orphan payments: payments recorded for a parcel that was missing
when the payment arrived. Nothing is modified.

Examples:
  api reconcile
  api reconcile --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer client.CloseDB(db)

			svc := service.NewPaymentService(
				logging.New(cfg.Log),
				nil,
				cfg.Payment.DefaultCurrency,
				repository.NewParcelRepository(db),
				repository.NewPaymentRepository(db),
			)

			orphans, err := svc.ListOrphans(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeOrphansJSON(cmd.OutOrStdout(), orphans)
			}
			return writeOrphansTable(cmd.OutOrStdout(), orphans)
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func writeOrphansJSON(w io.Writer, orphans []*model.Payment) error {
	if orphans == nil {
		orphans = []*model.Payment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(orphans)
}

func writeOrphansTable(w io.Writer, orphans []*model.Payment) error {
	if len(orphans) == 0 {
		_, err := fmt.Fprintln(w, "no orphan payments")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PAYMENT ID\tINTENT ID\tPARCEL ID\tAMOUNT\tEMAIL\tCREATED AT")
	for _, p := range orphans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			p.ID,
			p.PaymentIntentID,
			p.ParcelID,
			p.Amount.StringFixed(2),
			p.Currency,
			p.Email,
			p.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return tw.Flush()
}
