// Package export renders the to-do list as JSON, CSV or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/abatilo/crtodo/internal/task"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// UnknownFormatError indicates an export format that is not supported.
type UnknownFormatError struct {
	Format string
}

func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown export format %q (valid: json, csv, pdf)", e.Format)
}

type row struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Done        bool   `json:"done"`
}

// Write renders tasks to w in the given format.
func Write(w io.Writer, tasks []task.Task, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, tasks)
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks)
	default:
		return UnknownFormatError{Format: format}
	}
}

func writeJSON(w io.Writer, tasks []task.Task) error {
	rows := make([]row, len(tasks))
	for i, t := range tasks {
		rows[i] = row{Position: i + 1, Description: t.Description, Priority: t.Priority, Done: t.Done}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"position", "description", "priority", "done"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, t := range tasks {
		record := []string{
			strconv.Itoa(i + 1),
			t.Description,
			strconv.Itoa(t.Priority),
			strconv.FormatBool(t.Done),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []task.Task) error {
	return renderPDF(tasks).Output(w)
}

// renderPDF lays out the list on one A4 page. The core fonts are cp1252, so
// UTF-8 text goes through the translator first.
func renderPDF(tasks []task.Task) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "To-do list")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.MultiCell(0, 6, "There are no tasks in the to-do list yet.", "0", "L", false)
	}
	for i, t := range tasks {
		mark := "[ ]"
		if t.Done {
			mark = "[X]"
		}
		line := fmt.Sprintf("%s P%d [%d] %s", mark, t.Priority, i+1, t.Description)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	return pdf
}
