// Package report builds daily fleet summaries from recorded telemetry
// and renders them as PDF or XLSX.
package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/shved/plantwatch/internal/alerts"
	"github.com/shved/plantwatch/internal/equipment"
	"github.com/shved/plantwatch/internal/store"
)

// MetricStat aggregates one metric series of one machine over a day.
type MetricStat struct {
	Metric string
	Unit   string
	Min    float64
	Avg    float64
	Peak   float64
}

// AlertCounts tallies classified alerts by severity.
type AlertCounts struct {
	Critical int
	High     int
	Medium   int
	Low      int
}

func (c AlertCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// MachineSummary is the per-machine section of a day report.
type MachineSummary struct {
	Machine  string
	Kind     string
	Readings int
	Stats    []MetricStat
	Alerts   AlertCounts
}

// DayReport summarizes one recorded day of fleet telemetry.
type DayReport struct {
	Day      string
	Readings int
	Machines []MachineSummary
	Alerts   AlertCounts
}

// BuildDay loads the recorded readings for day from the data directory
// and aggregates them. An empty dir uses the default location.
func BuildDay(dir, day string) (*DayReport, error) {
	readings, err := store.LoadDay(dir, day)
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", day, err)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("no readings recorded for %s", day)
	}

	type acc struct {
		kind   string
		count  int
		min    map[string]float64
		sum    map[string]float64
		peak   map[string]float64
		alerts AlertCounts
	}
	byMachine := make(map[string]*acc)
	var order []string

	rep := &DayReport{Day: day, Readings: len(readings)}

	for _, r := range readings {
		a, ok := byMachine[r.Machine]
		if !ok {
			a = &acc{
				kind: r.Kind,
				min:  make(map[string]float64),
				sum:  make(map[string]float64),
				peak: make(map[string]float64),
			}
			byMachine[r.Machine] = a
			order = append(order, r.Machine)
		}
		a.count++

		for _, met := range equipment.Metrics {
			v := r.Value(met.Name)
			if a.count == 1 {
				a.min[met.Name] = v
				a.peak[met.Name] = v
			} else {
				a.min[met.Name] = math.Min(a.min[met.Name], v)
				a.peak[met.Name] = math.Max(a.peak[met.Name], v)
			}
			a.sum[met.Name] += v
		}

		for _, al := range alerts.Classify(r) {
			switch al.Severity {
			case alerts.SeverityCritical:
				a.alerts.Critical++
				rep.Alerts.Critical++
			case alerts.SeverityHigh:
				a.alerts.High++
				rep.Alerts.High++
			case alerts.SeverityMedium:
				a.alerts.Medium++
				rep.Alerts.Medium++
			case alerts.SeverityLow:
				a.alerts.Low++
				rep.Alerts.Low++
			}
		}
	}

	for _, machine := range order {
		a := byMachine[machine]
		sum := MachineSummary{
			Machine:  machine,
			Kind:     a.kind,
			Readings: a.count,
			Alerts:   a.alerts,
		}
		for _, met := range equipment.Metrics {
			sum.Stats = append(sum.Stats, MetricStat{
				Metric: met.Label,
				Unit:   met.Unit,
				Min:    a.min[met.Name],
				Avg:    a.sum[met.Name] / float64(a.count),
				Peak:   a.peak[met.Name],
			})
		}
		rep.Machines = append(rep.Machines, sum)
	}

	return rep, nil
}

// BuildPDF renders the report as a PDF document.
func BuildPDF(rep *DayReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Equipment Day Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Day: %s", rep.Day))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Readings: %d", rep.Readings))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Alerts: %d critical, %d high, %d medium, %d low",
		rep.Alerts.Critical, rep.Alerts.High, rep.Alerts.Medium, rep.Alerts.Low))
	pdf.Ln(8)

	for _, m := range rep.Machines {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, fmt.Sprintf("%s (%s) - %d readings, %d alerts",
			equipment.FriendlyName(m.Kind), m.Machine, m.Readings, m.Alerts.Total()))
		pdf.Ln(7)

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(40, 6, "Metric", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Min", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Avg", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Peak", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, s := range m.Stats {
			pdf.CellFormat(40, 6, s.Metric, "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f %s", s.Min, s.Unit), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f %s", s.Avg, s.Unit), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f %s", s.Peak, s.Unit), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the report as an XLSX workbook with a summary sheet
// and one sheet of stats rows.
func BuildXLSX(rep *DayReport) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	statsSheet := "stats"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(statsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Equipment Day Report")
	_ = f.SetCellValue(summarySheet, "A3", "Day")
	_ = f.SetCellValue(summarySheet, "B3", rep.Day)
	_ = f.SetCellValue(summarySheet, "A4", "Readings")
	_ = f.SetCellValue(summarySheet, "B4", rep.Readings)
	_ = f.SetCellValue(summarySheet, "A5", "Machines")
	_ = f.SetCellValue(summarySheet, "B5", len(rep.Machines))
	_ = f.SetCellValue(summarySheet, "A6", "Critical alerts")
	_ = f.SetCellValue(summarySheet, "B6", rep.Alerts.Critical)
	_ = f.SetCellValue(summarySheet, "A7", "High alerts")
	_ = f.SetCellValue(summarySheet, "B7", rep.Alerts.High)
	_ = f.SetCellValue(summarySheet, "A8", "Medium alerts")
	_ = f.SetCellValue(summarySheet, "B8", rep.Alerts.Medium)
	_ = f.SetCellValue(summarySheet, "A9", "Low alerts")
	_ = f.SetCellValue(summarySheet, "B9", rep.Alerts.Low)

	headers := []string{"Machine", "Kind", "Metric", "Unit", "Min", "Avg", "Peak"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(statsSheet, cell, h)
	}
	row := 2
	for _, m := range rep.Machines {
		for _, s := range m.Stats {
			values := []interface{}{m.Machine, m.Kind, s.Metric, s.Unit, s.Min, s.Avg, s.Peak}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(statsSheet, cell, v)
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
