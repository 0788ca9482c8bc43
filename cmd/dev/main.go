package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bellybutton/adapters/postgres"
	"bellybutton/adapters/render"
	"bellybutton/internal/config"
	"bellybutton/internal/dashboard"
	"bellybutton/internal/migration"
	"bellybutton/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bellybutton-dev",
		Short: "Belly button dashboard development tools",
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newSmokeTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generatorFlags(cmd *cobra.Command, gen *testkit.GeneratorConfig) {
	cmd.Flags().IntVar(&gen.SubjectCount, "subjects", gen.SubjectCount, "number of subjects to generate")
	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "random seed")
	cmd.Flags().Float64Var(&gen.NullWashRate, "null-wfreq-rate", gen.NullWashRate, "share of subjects with a null washing frequency")
	cmd.Flags().Float64Var(&gen.MissingMetadataRate, "missing-metadata-rate", gen.MissingMetadataRate, "share of subjects without a metadata record")
}

func newGenerateCmd() *cobra.Command {
	gen := testkit.DefaultGeneratorConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic samples.json document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := testkit.NewGenerator(gen).Document()
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(doc, '\n'))
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d subjects to %s\n", gen.SubjectCount, out)
			return nil
		},
	}
	generatorFlags(cmd, &gen)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

type databaseFlags struct {
	url   string
	table string
}

func (f *databaseFlags) register(cmd *cobra.Command) {
	defaults := config.Default().Database
	cmd.Flags().StringVar(&f.url, "database-url", os.Getenv("DATABASE_URL"), "postgres connection URL")
	cmd.Flags().StringVar(&f.table, "table", defaults.Table, "dataset table")
}

func newMigrateCmd() *cobra.Command {
	var db databaseFlags

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the dataset table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), cmd, db)
		},
	}
	db.register(cmd)
	return cmd
}

func runMigrations(ctx context.Context, cmd *cobra.Command, flags databaseFlags) error {
	db, err := postgres.Connect(ctx, flags.url)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := migration.NewRunner(flags.table)
	if err := runner.Run(ctx, db); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s to version %s\n", flags.table, runner.Version())
	return nil
}

func newSeedCmd() *cobra.Command {
	var (
		db        databaseFlags
		name      string
		file      string
		synthetic bool
	)
	gen := testkit.DefaultGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a dataset document in postgres",
		Long: `Store a dataset document in the postgres dataset table, creating the
table first if needed. The document comes from --file or, with
--synthetic, from the generator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == !synthetic {
				return fmt.Errorf("exactly one of --file or --synthetic is required")
			}

			var doc []byte
			var err error
			if synthetic {
				doc, err = testkit.NewGenerator(gen).Document()
			} else {
				doc, err = os.ReadFile(file)
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			conn, err := postgres.Connect(ctx, db.url)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := migration.NewRunner(db.table).Run(ctx, conn); err != nil {
				return err
			}
			if err := postgres.NewSource(conn, db.table, name).Store(ctx, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded dataset %q into %s\n", name, db.table)
			return nil
		},
	}
	db.register(cmd)
	generatorFlags(cmd, &gen)
	cmd.Flags().StringVar(&name, "name", config.Default().Database.DatasetName, "dataset name")
	cmd.Flags().StringVar(&file, "file", "", "samples.json document to store")
	cmd.Flags().BoolVar(&synthetic, "synthetic", false, "store a generated document")
	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	gen := testkit.DefaultGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Select every subject of a synthetic dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context(), cmd, gen)
		},
	}
	generatorFlags(cmd, &gen)
	return cmd
}

func runSmokeTests(ctx context.Context, cmd *cobra.Command, gen testkit.GeneratorConfig) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Running smoke tests...")

	surface := render.NewSurface()
	controller := dashboard.NewController(testkit.NewSource(gen), surface)
	if err := controller.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize failed: %w", err)
	}

	ds, _ := controller.Dataset()
	passed, partial := 0, 0
	for _, name := range ds.Names {
		views, err := controller.SelectSubject(ctx, name)
		if err != nil {
			fmt.Fprintf(out, "  %s FAILED: %v\n", name, err)
			continue
		}
		if len(views.Skipped) > 0 {
			partial++
		}
		passed++
	}

	fmt.Fprintf(out, "\nSmoke tests: %d/%d subjects rendered (%d partial)\n", passed, len(ds.Names), partial)
	if passed < len(ds.Names) {
		return fmt.Errorf("some subjects failed to render")
	}
	return nil
}
