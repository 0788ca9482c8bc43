package excel

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"bellybutton/domain/chart"
	"bellybutton/domain/dataset"
)

// Sheet names written by the workbook renderer
const (
	SheetSubjects = "Subjects"
	SheetBar      = "Bar"
	SheetBubble   = "Bubble"
	SheetGauge    = "Gauge"
	SheetMetadata = "Metadata"
	SheetSummary  = "Summary"
	SheetStatus   = "Status"
)

const notAvailable = "not available for this subject"

// Workbook renders dashboard views into an Excel workbook, one sheet per
// region. The bar sheet carries a native bar chart.
type Workbook struct {
	file *excelize.File
}

// NewWorkbook creates an empty workbook whose first sheet is the subject list
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSubjects); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name subjects sheet: %w", err)
	}
	return &Workbook{file: f}, nil
}

// RenderSelector writes the subject list
func (w *Workbook) RenderSelector(options []chart.Option) error {
	if err := w.resetSheet(SheetSubjects); err != nil {
		return err
	}
	if err := w.file.SetCellValue(SheetSubjects, "A1", "Subject ID"); err != nil {
		return err
	}
	for i, opt := range options {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(SheetSubjects, cell, opt.Value); err != nil {
			return err
		}
	}
	return nil
}

// RenderViews writes every view sheet, replacing previous content
func (w *Workbook) RenderViews(views *chart.ViewSet) error {
	if views == nil {
		return fmt.Errorf("render: nil view set")
	}
	steps := []struct {
		sheet string
		write func() error
	}{
		{SheetBar, func() error { return w.writeBar(views.Bar) }},
		{SheetBubble, func() error { return w.writeBubble(views.Bubble) }},
		{SheetGauge, func() error { return w.writeGauge(views.Gauge) }},
		{SheetMetadata, func() error { return w.writeMetadata(views.Metadata) }},
		{SheetSummary, func() error { return w.writeSummary(views.Summary) }},
	}
	for _, step := range steps {
		if err := w.resetSheet(step.sheet); err != nil {
			return err
		}
		if err := step.write(); err != nil {
			return fmt.Errorf("failed to write %s sheet: %w", step.sheet, err)
		}
	}
	return nil
}

// RenderLoadFailure writes a status sheet describing the failure
func (w *Workbook) RenderLoadFailure(cause error) error {
	message := "failed to load dataset"
	if cause != nil {
		message = cause.Error()
	}
	if err := w.resetSheet(SheetStatus); err != nil {
		return err
	}
	if err := w.file.SetCellValue(SheetStatus, "A1", "Dataset failed to load"); err != nil {
		return err
	}
	return w.file.SetCellValue(SheetStatus, "A2", message)
}

// SaveAs writes the workbook to path
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	log.Printf("[Workbook] Saved %s", path)
	return nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) resetSheet(name string) error {
	idx, err := w.file.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx < 0 {
		_, err := w.file.NewSheet(name)
		return err
	}
	if name == SheetSubjects {
		// the first sheet cannot be deleted, clear it in place
		rows, err := w.file.GetRows(name)
		if err != nil {
			return err
		}
		for i := len(rows); i >= 1; i-- {
			if err := w.file.RemoveRow(name, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := w.file.DeleteSheet(name); err != nil {
		return err
	}
	_, err = w.file.NewSheet(name)
	return err
}

func (w *Workbook) setRow(sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.file.SetSheetRow(sheet, cell, &values)
}

func (w *Workbook) writeBar(fig *chart.Figure) error {
	if fig == nil || len(fig.Data) == 0 {
		return w.file.SetCellValue(SheetBar, "A1", notAvailable)
	}
	trace := fig.Data[0]
	values, _ := trace.X.([]float64)
	ids, _ := trace.Y.([]string)

	if err := w.file.SetCellValue(SheetBar, "A1", fig.Layout.Title); err != nil {
		return err
	}
	if err := w.setRow(SheetBar, 2, "OTU", "Label", "Sample Value"); err != nil {
		return err
	}
	for i := range values {
		label := ""
		if i < len(trace.Text) {
			label = trace.Text[i]
		}
		if err := w.setRow(SheetBar, i+3, ids[i], label, values[i]); err != nil {
			return err
		}
	}
	if len(values) == 0 {
		return nil
	}

	last := len(values) + 2
	return w.file.AddChart(SheetBar, "E2", &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$C$2", SheetBar),
			Categories: fmt.Sprintf("%s!$A$3:$A$%d", SheetBar, last),
			Values:     fmt.Sprintf("%s!$C$3:$C$%d", SheetBar, last),
		}},
		Title: []excelize.RichTextRun{{Text: fig.Layout.Title}},
	})
}

func (w *Workbook) writeBubble(fig *chart.Figure) error {
	if fig == nil || len(fig.Data) == 0 {
		return w.file.SetCellValue(SheetBubble, "A1", notAvailable)
	}
	trace := fig.Data[0]
	ids, _ := trace.X.([]int)
	values, _ := trace.Y.([]float64)

	if err := w.file.SetCellValue(SheetBubble, "A1", fig.Layout.Title); err != nil {
		return err
	}
	if err := w.setRow(SheetBubble, 2, "OTU ID", "Sample Value", "Label"); err != nil {
		return err
	}
	for i := range ids {
		label := ""
		if i < len(trace.Text) {
			label = trace.Text[i]
		}
		if err := w.setRow(SheetBubble, i+3, ids[i], values[i], label); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) writeGauge(fig *chart.Figure) error {
	if fig == nil || len(fig.Data) == 0 {
		return w.file.SetCellValue(SheetGauge, "A1", notAvailable)
	}
	trace := fig.Data[0]

	var value interface{} = "null"
	if trace.Value != nil {
		value = *trace.Value
	}
	if err := w.setRow(SheetGauge, 1, "Washing Frequency", value); err != nil {
		return err
	}
	if trace.Gauge == nil {
		return nil
	}
	if err := w.setRow(SheetGauge, 3, "From", "To", "Color"); err != nil {
		return err
	}
	for i, step := range trace.Gauge.Steps {
		if err := w.setRow(SheetGauge, i+4, step.Range[0], step.Range[1], step.Color); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) writeMetadata(panel *chart.MetadataPanel) error {
	if panel == nil {
		return w.file.SetCellValue(SheetMetadata, "A1", notAvailable)
	}
	for i, line := range panel.Lines {
		if err := w.setRow(SheetMetadata, i+1, line); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) writeSummary(summary *chart.Summary) error {
	if summary == nil {
		return w.file.SetCellValue(SheetSummary, "A1", notAvailable)
	}
	rows := [][]interface{}{
		{"Richness", summary.Richness},
		{"Total", summary.Total},
		{"Mean", summary.Mean},
		{"Median", summary.Median},
		{"Max", summary.Max},
		{"Shannon Index", summary.Shannon},
		{"Evenness", summary.Evenness},
		{"Top OTU", fmt.Sprintf("OTU %d", summary.TopOTU)},
		{"Top OTU Label", summary.TopLabel},
	}
	for i, row := range rows {
		if err := w.setRow(SheetSummary, i+1, row...); err != nil {
			return err
		}
	}
	return nil
}

// WriteDataset writes the raw sample table of ds, one row per OTU
// observation, to a "Samples" sheet
func (w *Workbook) WriteDataset(ds *dataset.Dataset) error {
	const sheet = "Samples"
	if err := w.resetSheet(sheet); err != nil {
		return err
	}
	if err := w.setRow(sheet, 1, "Subject ID", "OTU ID", "OTU Label", "Sample Value"); err != nil {
		return err
	}
	row := 2
	for _, s := range ds.Samples {
		if !s.Aligned() {
			log.Printf("[Workbook] Skipping misaligned sample %s", s.ID)
			continue
		}
		for i := range s.OTUIDs {
			if err := w.setRow(sheet, row, s.ID, s.OTUIDs[i], s.OTULabels[i], s.SampleValues[i]); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
