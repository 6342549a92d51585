package analysis

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary   = "Summary"
	SheetRomTrend  = "ROM trend"
	SheetFrequency = "Frequency"
	SheetExercises = "ROM by exercise"
	SheetLabels    = "Phases and types"
)

// WritePatientWorkbook renders a patient analysis as an XLSX workbook into w.
func WritePatientWorkbook(w io.Writer, pa *PatientAnalysis) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, sheet := range []string{SheetRomTrend, SheetFrequency, SheetExercises, SheetLabels} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	avgRom := any("-")
	if pa.AvgRom != nil {
		avgRom = *pa.AvgRom
	}
	summary := [][]any{
		{"Patient", pa.PatientID},
		{"Total sessions", pa.TotalSessions},
		{"Average ROM (deg)", avgRom},
	}
	if ds := pa.SessionDurationStats; ds != nil {
		summary = append(summary,
			[]any{"Average duration (s)", ds.Avg},
			[]any{"Min duration (s)", ds.Min},
			[]any{"Max duration (s)", ds.Max},
			[]any{"Total duration (s)", ds.Total},
		)
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	trend := [][]any{{"Date", "ROM (deg)", "Session"}}
	for _, p := range pa.RomTrend {
		trend = append(trend, []any{p.Date, p.Rom, p.SessionID})
	}
	if err := writeTable(f, SheetRomTrend, trend, headerStyle); err != nil {
		return err
	}

	frequency := [][]any{{"Date", "Sessions"}}
	for _, p := range pa.FrequencyByDay {
		frequency = append(frequency, []any{p.Date, p.SessionsCount})
	}
	if err := writeTable(f, SheetFrequency, frequency, headerStyle); err != nil {
		return err
	}

	exercises := [][]any{{"Exercise", "Avg", "Min", "Max", "Count"}}
	for _, exerciseID := range sortedKeys(pa.RomByExercise) {
		s := pa.RomByExercise[exerciseID]
		exercises = append(exercises, []any{exerciseID, s.Avg, s.Min, s.Max, s.Count})
	}
	if err := writeTable(f, SheetExercises, exercises, headerStyle); err != nil {
		return err
	}

	labels := [][]any{{"Dimension", "Label", "Sessions"}}
	labels = appendLabelRows(labels, "Phase", pa.SessionsByPhase)
	labels = appendLabelRows(labels, "Type", pa.SessionsByType)
	if err := writeTable(f, SheetLabels, labels, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", "A", 16)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func appendLabelRows(rows [][]any, dimension string, counts LabelCounts) [][]any {
	flat := counts.Strings()
	for _, label := range sortedKeys(flat) {
		rows = append(rows, []any{dimension, label, flat[label]})
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
