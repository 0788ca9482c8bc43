package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bellybutton/adapters/render"
	"bellybutton/internal/config"
	"bellybutton/internal/container"
	"bellybutton/internal/dashboard"
	"bellybutton/internal/report"
	"bellybutton/ports"
)

// options are the persistent flags shared by every command. Empty values
// fall back to the environment configuration.
type options struct {
	source      string
	url         string
	file        string
	databaseURL string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bellybutton",
		Short:         "Belly button biodiversity dataset CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.source, "source", "", "Dataset source: remote, file or postgres (default DATASET_SOURCE)")
	flags.StringVar(&opts.url, "url", "", "Dataset URL for the remote source")
	flags.StringVar(&opts.file, "file", "", "Dataset file for the file source")
	flags.StringVar(&opts.databaseURL, "database-url", "", "Database URL for the postgres source")

	rootCmd.AddCommand(
		newSubjectsCmd(opts),
		newShowCmd(opts),
		newSummaryCmd(opts),
		newReportCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

func (o *options) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.source != "" {
		cfg.Dataset.Source = o.source
	}
	if o.url != "" {
		cfg.Dataset.URL = o.url
	}
	if o.file != "" {
		cfg.Dataset.File = o.file
	}
	if o.databaseURL != "" {
		cfg.Database.URL = o.databaseURL
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is a loaded controller plus the container that owns its resources
type session struct {
	container  *container.Container
	controller *dashboard.Controller
}

func openSession(ctx context.Context, opts *options, renderer ports.Renderer) (*session, error) {
	// a missing .env is not an error for the CLI
	_ = godotenv.Load()

	cfg, err := opts.config()
	if err != nil {
		return nil, err
	}

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.InitSource(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}

	controller, err := c.NewController(renderer)
	if err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	if _, err := controller.Load(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	return &session{container: c, controller: controller}, nil
}

func (s *session) Close() {
	s.container.Shutdown(context.Background())
}

func newSubjectsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List subject IDs in dataset order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, render.NewSurface())
			if err != nil {
				return err
			}
			defer s.Close()

			ds, _ := s.controller.Dataset()
			for _, name := range ds.Names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [subject-id]",
		Short: "Select a subject and print its views as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, render.NewJSONWriter(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer s.Close()

			_, err = s.controller.SelectSubject(cmd.Context(), args[0])
			return err
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [subject-id]",
		Short: "Print diversity figures for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, render.NewSurface())
			if err != nil {
				return err
			}
			defer s.Close()

			views, err := s.controller.Project(args[0])
			if err != nil {
				return err
			}
			if views.Summary == nil {
				return fmt.Errorf("subject %s has no usable sample", views.Subject)
			}

			sum := views.Summary
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Subject\t%s\n", views.Subject)
			fmt.Fprintf(w, "Richness\t%d\n", sum.Richness)
			fmt.Fprintf(w, "Total\t%g\n", sum.Total)
			fmt.Fprintf(w, "Mean\t%.2f\n", sum.Mean)
			fmt.Fprintf(w, "Median\t%g\n", sum.Median)
			fmt.Fprintf(w, "Max\t%g\n", sum.Max)
			fmt.Fprintf(w, "Shannon\t%.3f\n", sum.Shannon)
			fmt.Fprintf(w, "Evenness\t%.3f\n", sum.Evenness)
			fmt.Fprintf(w, "Top OTU\tOTU %d (%s)\n", sum.TopOTU, sum.TopLabel)
			return w.Flush()
		},
	}
}

func newReportCmd(opts *options) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report [subject-id]",
		Short: "Print a markdown report for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, render.NewSurface())
			if err != nil {
				return err
			}
			defer s.Close()

			views, err := s.controller.Project(args[0])
			if err != nil {
				return err
			}

			md := report.Markdown(views)
			if asHTML {
				_, err = cmd.OutOrStdout().Write(report.HTML(md))
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML")
	return cmd
}
