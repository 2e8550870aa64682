package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"aapctl/internal/gateway"
	"aapctl/internal/manifest"
	"aapctl/internal/reconciler"
	"aapctl/internal/resource"
	"aapctl/pkg/logging"
)

// ApplyOptions configures one apply run.
type ApplyOptions struct {
	// ManifestPath is the manifest file to converge.
	ManifestPath string

	// Values are template values for manifest rendering.
	Values map[string]any

	// Check reports what would change without mutating.
	Check bool

	// Quiet suppresses the progress spinner.
	Quiet bool

	// Gateway carries connection settings from flags and environment;
	// unset fields fall back to the manifest's gateway block.
	Gateway gateway.Config
}

// EntryResult is the outcome of reconciling one manifest entry.
type EntryResult struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Name     string   `json:"name" yaml:"name"`
	State    string   `json:"state" yaml:"state"`
	Changed  bool     `json:"changed" yaml:"changed"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ApplySummary aggregates the results of an apply run.
type ApplySummary struct {
	Results []EntryResult `json:"results" yaml:"results"`
	Changed int           `json:"changed" yaml:"changed"`
	Check   bool          `json:"check" yaml:"check"`
}

// Applier drives reconciliation of a whole manifest, one entry at a
// time. Entries are applied strictly in manifest order; the run aborts
// on the first fatal error.
type Applier struct {
	client         *gateway.Client
	rec            *reconciler.Reconciler
	controllerBase string
	quiet          bool
	check          bool
}

// Apply loads, validates and converges a manifest.
func Apply(ctx context.Context, opts ApplyOptions) (*ApplySummary, error) {
	m, err := manifest.Load(opts.ManifestPath, opts.Values)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(resource.Kinds()); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	cfg := MergeGatewayConfig(opts.Gateway, m.Gateway)
	client, err := gateway.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewApplier(client, opts.Check, opts.Quiet).Run(ctx, resource.ExpandEntries(m.Resources))
}

// NewApplier builds an applier on top of a connected gateway client.
func NewApplier(client *gateway.Client, check, quiet bool) *Applier {
	return &Applier{
		client: client,
		rec:    reconciler.NewReconciler(client).WithCheckMode(check),
		quiet:  quiet,
		check:  check,
	}
}

// Run reconciles a list of entries against the gateway.
func (a *Applier) Run(ctx context.Context, entries []manifest.Entry) (*ApplySummary, error) {
	summary := &ApplySummary{Check: a.check}

	for i, entry := range entries {
		schema, err := resource.SchemaFor(entry.Kind)
		if err != nil {
			return summary, err
		}
		if resource.NeedsController(schema, entry) {
			base, err := a.controller(ctx)
			if err != nil {
				return summary, err
			}
			schema = resource.WireController(schema, base)
		}

		desc, err := resource.BuildDescriptor(schema, entry)
		if err != nil {
			return summary, err
		}

		name := entryName(schema, entry)
		stop := a.progress(fmt.Sprintf(" %s/%s", entry.Kind, name))
		result, err := a.rec.Reconcile(ctx, desc)
		stop()
		if err != nil {
			return summary, fmt.Errorf("resources[%d] (%s %s): %w", i, entry.Kind, name, err)
		}

		summary.Results = append(summary.Results, EntryResult{
			Kind:     entry.Kind,
			Name:     name,
			State:    string(desc.State),
			Changed:  result.Changed,
			Warnings: result.Warnings,
		})
		if result.Changed {
			summary.Changed++
		}
	}

	logging.Info("Apply", "Reconciled %d resources, %d changed", len(summary.Results), summary.Changed)
	return summary, nil
}

// controller discovers the controller API base once per run.
func (a *Applier) controller(ctx context.Context) (string, error) {
	if a.controllerBase != "" {
		return a.controllerBase, nil
	}
	base, err := resource.DetectControllerBase(ctx, a.client)
	if err != nil {
		return "", err
	}
	a.controllerBase = base
	return base, nil
}

// progress starts a terminal spinner for one entry and returns its stop
// function. Quiet mode and non-terminal output make it a no-op.
func (a *Applier) progress(suffix string) func() {
	if a.quiet {
		return func() {}
	}
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Start()
	return s.Stop
}

// entryName picks the value shown for an entry in progress and summary
// output: the first unique key field that is set.
func entryName(schema reconciler.Schema, entry manifest.Entry) string {
	for _, field := range schema.UniqueKey {
		if v, ok := entry.Fields[field]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
	}
	return "?"
}
