// Package store handles persistent CSV storage of machine readings with
// daily file rotation. Data is stored in ~/.plantwatch-data/ by default.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shved/plantwatch/internal/equipment"
)

const (
	dirName    = ".plantwatch-data"
	timeLayout = "2006-01-02T15:04:05"
	fileLayout = "2006-01-02"
)

var header = []string{
	"time", "machine", "kind", "status",
	"temperature", "pressure", "vibration", "rpm", "power_kw", "humidity", "efficiency",
}

// DiskStore handles persistent CSV storage of machine readings.
// Files are stored as <dir>/YYYY-MM-DD.csv, one row per machine snapshot.
type DiskStore struct {
	dir     string
	current *os.File
	writer  *csv.Writer
	curDate string
}

// New creates a new disk store rooted at dir, creating it if needed.
// An empty dir selects ~/.plantwatch-data.
func New(dir string) (*DiskStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot find home dir: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create data dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory this store writes to.
func (d *DiskStore) Dir() string {
	return d.dir
}

// Write appends a batch of readings to the day's CSV file, rotating the
// file when the date changes.
func (d *DiskStore) Write(readings []equipment.Reading, t time.Time) error {
	dateStr := t.Format(fileLayout)

	if d.curDate != dateStr || d.current == nil {
		d.Close()
		path := filepath.Join(d.dir, dateStr+".csv")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		d.current = f
		d.writer = csv.NewWriter(f)
		d.curDate = dateStr

		info, _ := f.Stat()
		if info.Size() == 0 {
			d.writer.Write(header)
		}
	}

	ts := t.Format(timeLayout)
	for _, r := range readings {
		d.writer.Write([]string{
			ts,
			r.Machine,
			r.Kind,
			r.Status,
			fmtField(r.Temperature),
			fmtField(r.Pressure),
			fmtField(r.Vibration),
			fmtField(r.RPM),
			fmtField(r.PowerKW),
			fmtField(r.Humidity),
			fmtField(r.Efficiency),
		})
	}
	d.writer.Flush()
	return d.writer.Error()
}

// Close flushes and closes the current file.
func (d *DiskStore) Close() {
	if d.writer != nil {
		d.writer.Flush()
	}
	if d.current != nil {
		d.current.Close()
		d.current = nil
	}
}

func fmtField(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ListDays returns available log dates (newest first).
func ListDays(dir string) ([]string, error) {
	dir = resolveDir(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var days []string
	for i := len(entries) - 1; i >= 0; i-- {
		name := entries[i].Name()
		if strings.HasSuffix(name, ".csv") {
			days = append(days, strings.TrimSuffix(name, ".csv"))
		}
	}
	return days, nil
}

// LoadDay reads all readings from a specific day's CSV file.
func LoadDay(dir, day string) ([]equipment.Reading, error) {
	return LoadFile(filepath.Join(resolveDir(dir), day+".csv"))
}

// LoadFile reads all readings from a CSV file. Rows that fail to parse
// are skipped.
func LoadFile(path string) ([]equipment.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var readings []equipment.Reading
	for i, row := range records {
		if i == 0 && len(row) > 0 && row[0] == "time" {
			continue
		}
		if len(row) < len(header) {
			continue
		}

		t, err := time.ParseInLocation(timeLayout, row[0], time.Local)
		if err != nil {
			continue
		}

		r := equipment.Reading{
			Time:    t,
			Machine: row[1],
			Kind:    row[2],
			Status:  row[3],
		}
		r.Temperature, _ = strconv.ParseFloat(row[4], 64)
		r.Pressure, _ = strconv.ParseFloat(row[5], 64)
		r.Vibration, _ = strconv.ParseFloat(row[6], 64)
		r.RPM, _ = strconv.ParseFloat(row[7], 64)
		r.PowerKW, _ = strconv.ParseFloat(row[8], 64)
		r.Humidity, _ = strconv.ParseFloat(row[9], 64)
		r.Efficiency, _ = strconv.ParseFloat(row[10], 64)

		readings = append(readings, r)
	}

	return readings, nil
}

// DataDir returns the default data directory path.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName)
}

func resolveDir(dir string) string {
	if dir == "" {
		return DataDir()
	}
	return dir
}
