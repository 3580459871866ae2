package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lcflow/internal/domain/lc"
	lcuc "lcflow/internal/usecase/lc"
)

func lcsCmd(a *app) *cobra.Command {
	var status, creator, search string
	var summary bool

	cmd := &cobra.Command{
		Use:   "lcs",
		Short: "List letters of credit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := lc.Filter{CreatedBy: creator, Search: search}
			if status != "" {
				f.Status = lc.Status(strings.ToUpper(status))
				if !f.Status.Valid() {
					return fmt.Errorf("%w: %q", lc.ErrInvalidStatus, status)
				}
			}

			uc, err := a.lcUsecase()
			if err != nil {
				return err
			}
			list, err := uc.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No letters of credit found.")
			} else {
				printLCs(cmd.OutOrStdout(), list)
			}

			if summary {
				s, err := uc.Summary(cmd.Context())
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only LCs in this status")
	cmd.Flags().StringVar(&creator, "creator", "", "only LCs created by this user")
	cmd.Flags().StringVar(&search, "search", "", "match reference, applicant or beneficiary")
	cmd.Flags().BoolVar(&summary, "summary", false, "print dashboard totals")
	return cmd
}

func printLCs(out io.Writer, list []lc.LC) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREFERENCE\tAPPLICANT\tAMOUNT\tCREATED\tSTATUS")
	fmt.Fprintln(w, "--\t---------\t---------\t------\t-------\t------")
	for _, l := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.LCID,
			l.Reference,
			truncate(l.FormData.ApplicantName, 24),
			strings.TrimSpace(l.FormData.LCAmount+" "+l.FormData.Currency),
			l.CreatedAt.UTC().Format("2006-01-02"),
			statusColor(l.Status).Sprint(l.Status),
		)
	}
	_ = w.Flush()
}

func printSummary(out io.Writer, s *lcuc.Summary) {
	fmt.Fprintf(out, "\nTotal: %d  Pending review: %d  On chain: %d  In shipment: %d  Completed: %d\n",
		s.Total, s.PendingReview, s.Onchain, s.InShipment, s.Completed)
	fmt.Fprintf(out, "Total value: %s\n", s.TotalValue.StringFixed(2))
}

func statusColor(s lc.Status) *color.Color {
	switch s {
	case lc.StatusAwaitingExporterDocs, lc.StatusAwaitingAdminReview:
		return color.New(color.FgYellow)
	case lc.StatusOnchain:
		return color.New(color.FgCyan)
	case lc.StatusShipmentInitiated, lc.StatusShipmentInTransit:
		return color.New(color.FgBlue)
	case lc.StatusShipmentCompleted:
		return color.New(color.FgGreen)
	}
	return color.New(color.FgWhite)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
