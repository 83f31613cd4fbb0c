package jobs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const exportDateLayout = "2006-01-02"

var csvHeader = []string{
	"ID", "Title", "Company", "Location", "Type", "Remote",
	"Salary", "Match Score", "Source", "Posted", "URL",
}

// ExportFileName returns the name used for CSV exports made on the given day.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("job-search-results-%s.csv", now.Format(exportDateLayout))
}

// WriteCSV writes the jobs as CSV rows preceded by a header.
func (j *Jobs) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, job := range j.Items {
		posted := ""
		if !job.PostedDate.IsZero() {
			posted = job.PostedDate.Format(exportDateLayout)
		}

		salary := ""
		if job.Salary > 0 {
			salary = strconv.Itoa(job.Salary)
		}

		record := []string{
			job.ID,
			job.Title,
			job.Company,
			job.Location,
			job.Type,
			strconv.FormatBool(job.Remote),
			salary,
			strconv.Itoa(job.MatchScore),
			job.Source,
			posted,
			job.URL,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the jobs into dir using ExportFileName and returns the file path.
func (j *Jobs) ExportCSV(dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, ExportFileName(now))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := writeAndClose(file, j.WriteCSV); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}

	err = writeAndClose(file, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(j)
	})
	if err != nil {
		return "", err
	}
	return file.Name(), nil
}

// writeAndClose runs write and closes wc. A failed close is reported since
// buffered data may not have reached the disk.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
