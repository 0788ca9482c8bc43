package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"bellybutton/adapters/excel"
	"bellybutton/adapters/render"
	"bellybutton/domain/chart"
	"bellybutton/domain/core"
	"bellybutton/internal/dashboard"
)

type exportOptions struct {
	all         bool
	dir         string
	concurrency int
	withSamples bool
}

func newExportCmd(opts *options) *cobra.Command {
	export := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [subject-ids...]",
		Short: "Export subject views to Excel workbooks, one file per subject",
		Long: `Export subject views to Excel workbooks, one file per subject.

Example: bellybutton export 940 941 --dir out
         bellybutton export --all --concurrency 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !export.all && len(args) == 0 {
				return fmt.Errorf("name at least one subject or pass --all")
			}

			s, err := openSession(cmd.Context(), opts, render.NewSurface())
			if err != nil {
				return err
			}
			defer s.Close()

			ids := args
			if export.all {
				ds, _ := s.controller.Dataset()
				ids = ds.Names
			}

			batch := core.NewID()
			paths, err := runExport(cmd.Context(), s.controller, ids, export)
			if err != nil {
				return fmt.Errorf("export batch %s: %w", batch, err)
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			s.container.Logger.Info("export batch %s wrote %d workbooks to %s", batch, len(paths), export.dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&export.all, "all", false, "Export every subject in the dataset")
	cmd.Flags().StringVar(&export.dir, "dir", "exports", "Output directory")
	cmd.Flags().IntVar(&export.concurrency, "concurrency", 4, "Maximum workbooks written at once")
	cmd.Flags().BoolVar(&export.withSamples, "with-samples", false, "Include the raw sample table")

	return cmd
}

// runExport writes one workbook per subject, at most opts.concurrency at
// a time. Repeated ids are exported once; the returned paths follow the
// first occurrence of each id.
func runExport(ctx context.Context, controller *dashboard.Controller, ids []string, opts exportOptions) ([]string, error) {
	if opts.concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1")
	}
	ds, ok := controller.Dataset()
	if !ok {
		return nil, fmt.Errorf("dataset not loaded")
	}
	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", opts.dir, err)
	}

	options := make([]chart.Option, len(ds.Names))
	for i, name := range ds.Names {
		options[i] = chart.Option{Text: name, Value: name}
	}

	ids = uniqueSubjects(ids)
	sem := semaphore.NewWeighted(int64(opts.concurrency))
	g, gctx := errgroup.WithContext(ctx)
	paths := make([]string, len(ids))

	for i, id := range ids {
		i, id := i, id // per-iteration copies (go 1.21 loop semantics)
		if err := sem.Acquire(gctx, 1); err != nil {
			// a worker failed or ctx was cancelled; Wait reports the cause
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			path, err := exportSubject(controller, id, options, opts)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// uniqueSubjects drops repeated ids so no workbook is written twice
func uniqueSubjects(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func exportSubject(controller *dashboard.Controller, id string, options []chart.Option, opts exportOptions) (string, error) {
	views, err := controller.Project(id)
	if err != nil {
		return "", err
	}

	wb, err := excel.NewWorkbook()
	if err != nil {
		return "", err
	}
	defer wb.Close()

	if err := wb.RenderSelector(options); err != nil {
		return "", err
	}
	if err := wb.RenderViews(views); err != nil {
		return "", err
	}
	if opts.withSamples {
		ds, _ := controller.Dataset()
		if err := wb.WriteDataset(ds); err != nil {
			return "", err
		}
	}

	path := filepath.Join(opts.dir, fmt.Sprintf("subject-%s.xlsx", views.Subject))
	if err := wb.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
