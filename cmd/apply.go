package cmd

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"aapctl/internal/cli"
	"aapctl/internal/formatting"
	"aapctl/internal/manifest"
	"aapctl/pkg/logging"
)

var (
	applyFile    string
	applySet     []string
	applyCheck   bool
	applyWatch   bool
	applyOutput  string
	applyQuiet   bool
	applyGateway gatewayFlags
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply -f manifest.yaml",
		Short: "Reconcile gateway resources against a manifest",
		Long: `Apply loads a manifest, renders it with the supplied values, and
reconciles every resource entry in order. With --check, nothing is
mutated and the exit code reports whether anything would change. With
--watch, the manifest is re-applied whenever the file changes.`,
		RunE: runApply,
	}

	cmd.Flags().StringVarP(&applyFile, "file", "f", "", "Manifest file to apply (required)")
	cmd.Flags().StringArrayVar(&applySet, "set", nil, "Template values as key=value (repeatable)")
	cmd.Flags().BoolVar(&applyCheck, "check", false, "Report what would change without mutating")
	cmd.Flags().BoolVar(&applyWatch, "watch", false, "Re-apply whenever the manifest file changes")
	cmd.Flags().StringVarP(&applyOutput, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false, "Suppress progress output")
	applyGateway.register(cmd)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(applyOutput); err != nil {
		return err
	}
	values, err := manifest.ParseValues(applySet)
	if err != nil {
		return err
	}

	opts := cli.ApplyOptions{
		ManifestPath: applyFile,
		Values:       values,
		Check:        applyCheck,
		Quiet:        applyQuiet,
		Gateway:      applyGateway.config(cmd),
	}

	if applyWatch {
		return runApplyWatch(cmd, opts)
	}
	return applyOnce(cmd, opts)
}

// applyOnce runs a single apply pass and prints its summary.
func applyOnce(cmd *cobra.Command, opts cli.ApplyOptions) error {
	summary, err := cli.Apply(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if err := printSummary(cmd, summary); err != nil {
		return err
	}
	if opts.Check && summary.Changed > 0 {
		return &cli.DriftError{Count: summary.Changed}
	}
	return nil
}

// runApplyWatch applies once, then keeps re-applying on manifest
// changes until interrupted. A failing pass in watch mode is logged
// rather than fatal, so a half-edited manifest does not stop the loop.
func runApplyWatch(cmd *cobra.Command, opts cli.ApplyOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := applyOnce(cmd, opts); err != nil && !cli.IsDrift(err) {
		logging.Error("Apply", err, "Initial apply failed; watching for changes")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return manifest.WatchFile(ctx, opts.ManifestPath, 0, func() {
			if err := applyOnce(cmd, opts); err != nil && !cli.IsDrift(err) {
				logging.Error("Apply", err, "Apply failed; still watching")
			}
		})
	})

	err := g.Wait()
	if ctx.Err() != nil {
		// Interrupted by signal; a clean stop, not a failure.
		return nil
	}
	return err
}

// printSummary renders an apply summary in the requested format.
func printSummary(cmd *cobra.Command, summary *cli.ApplySummary) error {
	switch cli.OutputFormat(applyOutput) {
	case cli.OutputFormatTable:
		rows := make([][]string, 0, len(summary.Results))
		for _, r := range summary.Results {
			warnings := ""
			if n := len(r.Warnings); n > 0 {
				warnings = strconv.Itoa(n)
			}
			rows = append(rows, []string{r.Kind, r.Name, r.State, strconv.FormatBool(r.Changed), warnings})
		}
		fmt.Fprint(cmd.OutOrStdout(),
			formatting.RenderTable([]string{"KIND", "NAME", "STATE", "CHANGED", "WARNINGS"}, rows))
		verb := "changed"
		if summary.Check {
			verb = "would change"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d resources %s\n", summary.Changed, len(summary.Results), verb)
		return nil
	default:
		out, err := cli.Marshal(cli.OutputFormat(applyOutput), summary)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
}
