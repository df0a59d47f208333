package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/whitedoc/migrator"
	"github.com/whitedoc/migrator/internal/cfg"
)

type command struct {
	Name    string
	Summary string
	Run     func(ctx context.Context, r *migrator.Runner, w io.Writer) error
}

var commands = []*command{
	{Name: "migrate", Summary: "Apply all pending migrations", Run: migrateRun},
	{Name: "seed", Summary: "Run all seeds", Run: seedRun},
	{Name: "all", Summary: "Apply pending migrations, then run all seeds", Run: allRun},
	{Name: "status", Summary: "Print the status of every migration", Run: statusRun},
	{Name: "env", Summary: "Print the environment variables the migrator reads", Run: envRun},
	{Name: "version", Summary: "Print the highest applied migration version, or the binary version without a database", Run: versionRun},
}

func runCommand(ctx context.Context, r *migrator.Runner, name string, w io.Writer) error {
	for _, c := range commands {
		if c.Name == name {
			return c.Run(ctx, r, w)
		}
	}
	return fmt.Errorf("%q: no such command", name)
}

func migrateRun(ctx context.Context, r *migrator.Runner, w io.Writer) error {
	results, err := r.RunMigrations(ctx)
	printResults(w, results, err)
	return err
}

func seedRun(ctx context.Context, r *migrator.Runner, w io.Writer) error {
	results, err := r.RunSeeds(ctx)
	printResults(w, results, err)
	return err
}

func allRun(ctx context.Context, r *migrator.Runner, w io.Writer) error {
	results, err := r.RunAll(ctx)
	printResults(w, results, err)
	return err
}

func statusRun(ctx context.Context, r *migrator.Runner, w io.Writer) error {
	status, err := r.Status(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "VERSION\tSTATE\tUNIT\n")
	for _, s := range status {
		unit := s.Source.ID
		if s.Source.Path != "" {
			unit = s.Source.Path
		}
		if unit == "" {
			unit = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Source.Version, s.State, unit)
	}
	return tw.Flush()
}

func envRun(_ context.Context, _ *migrator.Runner, w io.Writer) error {
	for _, env := range cfg.List() {
		fmt.Fprintf(w, "%s=%q\n", env.Name, env.Value)
	}
	return nil
}

func versionRun(ctx context.Context, r *migrator.Runner, w io.Writer) error {
	versions, err := r.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	var current int64
	if n := len(versions); n > 0 {
		current = versions[n-1]
	}
	fmt.Fprintf(w, "%d\n", current)
	return nil
}

// printResults prints every applied unit, including those applied before a partial failure.
func printResults(w io.Writer, results []*migrator.UnitResult, err error) {
	var partialErr *migrator.PartialError
	if errors.As(err, &partialErr) {
		results = append(partialErr.Applied, partialErr.Failed)
	}
	for _, r := range results {
		fmt.Fprintln(w, r)
	}
}
