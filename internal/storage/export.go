package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/phasesector/internal/analysis"
	"github.com/san-kum/phasesector/internal/experiment"
)

// ExportJSON streams the whole report, including per-trajectory outcomes.
func ExportJSON(w io.Writer, report *experiment.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func ExportJSONFile(path string, report *experiment.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ExportJSON(f, report); err != nil {
		return err
	}
	return f.Close()
}

// ExportTraceCSV writes one phase portrait in the layout of a stored trace.
func ExportTraceCSV(path string, pp *analysis.PhasePortrait) error {
	return writeCSV(path, portraitRecords(pp))
}
