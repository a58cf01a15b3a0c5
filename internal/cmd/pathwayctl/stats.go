package pathwayctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	runtimecmd "github.com/officialpathway/pathwei-website/internal/cmd/runtime"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
)

func (a *app) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Inspect the price experiment",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print clicks and conversions per price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRuntime(cmd, func(ctx context.Context, rt *runtimecmd.Runtime) error {
				stats, err := rt.Stats.Snapshot(ctx)
				if err != nil {
					return err
				}
				report := pricing.BuildReport(stats)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}
				return writeReport(cmd, report)
			})
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Zero every counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRuntime(cmd, func(ctx context.Context, rt *runtimecmd.Runtime) error {
				if _, err := rt.Stats.Reset(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "price experiment counters reset")
				return err
			})
		},
	}

	cmd.AddCommand(show, reset)
	return cmd
}

func writeReport(cmd *cobra.Command, report pricing.Report) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRICE\tCLICKS\tCONVERSIONS\tRATE")
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\n", row.Price, row.Clicks, row.Conversions, row.ConversionRate*100)
	}
	fmt.Fprintf(w, "total\t%d\t%d\t\n", report.TotalClicks, report.TotalConversions)
	if err := w.Flush(); err != nil {
		return err
	}
	if report.Leader != "" {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "leader: %s\n", report.Leader)
		return err
	}
	return nil
}

func (a *app) newNewsletterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsletter",
		Short: "Work with newsletter subscribers",
	}
	var output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write subscribers as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRuntime(cmd, func(ctx context.Context, rt *runtimecmd.Runtime) error {
				if output == "" || output == "-" {
					return rt.Newsletter.ExportCSV(ctx, cmd.OutOrStdout())
				}
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				if err := rt.Newsletter.ExportCSV(ctx, file); err != nil {
					_ = file.Close()
					return err
				}
				return file.Close()
			})
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "-", "Destination file, - for stdout")
	cmd.AddCommand(export)
	return cmd
}
