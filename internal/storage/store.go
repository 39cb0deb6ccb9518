package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/phasesector/internal/analysis"
	"github.com/san-kum/phasesector/internal/config"
	"github.com/san-kum/phasesector/internal/critical"
	"github.com/san-kum/phasesector/internal/experiment"
)

const (
	metadataFile   = "metadata.json"
	ensembleFile   = "ensemble.csv"
	curveFile      = "curve.csv"
	violationsFile = "monotone.csv"
	fitFile        = "fit.json"
	tracesDir      = "traces"
	traceIndexFile = "index.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string              `json:"id"`
	Timestamp  time.Time           `json:"timestamp"`
	Started    time.Time           `json:"started"`
	Finished   time.Time           `json:"finished"`
	Integrator string              `json:"integrator"`
	Rule       string              `json:"rule"`
	Seed       uint64              `json:"seed"`
	Samples    int                 `json:"samples"`
	KRot       []float64           `json:"k_rot"`
	Masses     []float64           `json:"masses"`
	Audit      critical.Audit      `json:"audit"`
	Estimates  []critical.Estimate `json:"estimates"`
	Config     *config.Config      `json:"config"`
}

// Save writes the report tables into a new run directory and returns its ID.
func (s *Store) Save(report *experiment.Report) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, tracesDir), 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Started:    report.Started,
		Finished:   report.Finished,
		Integrator: report.Integrator,
		Masses:     report.Masses,
		Audit:      report.Audit,
		Estimates:  report.Estimates(),
		Config:     report.Config,
	}
	if report.Config != nil {
		meta.Rule = report.Config.Sampling.Rule
		meta.Seed = report.Config.Sampling.Seed
		meta.Samples = report.Config.Sampling.Samples
		meta.KRot = report.Config.Sweep.KRot
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, ensembleFile), ensembleRecords(report.Rows())); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, curveFile), curveRecords(report.Estimates())); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, violationsFile), violationRecords(report.Violations())); err != nil {
		return "", err
	}
	if report.Fit != nil {
		if err := writeJSON(filepath.Join(runDir, fitFile), report.Fit); err != nil {
			return "", err
		}
	}
	for _, sm := range report.SectorMaps {
		if err := writeCSV(filepath.Join(runDir, sectorMapName(sm.KRot)), sectorMapRecords(sm)); err != nil {
			return "", err
		}
	}

	index := [][]string{{"file", "m_phi", "k_rot", "phi0", "label"}}
	for i, pp := range report.Portraits {
		name := fmt.Sprintf("trace_%03d.csv", i)
		if err := writeCSV(filepath.Join(runDir, tracesDir, name), portraitRecords(pp)); err != nil {
			return "", err
		}
		index = append(index, []string{name, formatFloat(pp.Mass), formatFloat(pp.KRot), formatFloat(pp.Phi0), pp.Label.Short()})
	}
	if err := writeCSV(filepath.Join(runDir, tracesDir, traceIndexFile), index); err != nil {
		return "", err
	}

	return runID, nil
}

func sectorMapName(kRot float64) string {
	return "sectors_k" + strconv.FormatFloat(kRot, 'f', 4, 64) + ".csv"
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", fmt.Errorf("%w: invalid run id %q", ErrRunNotFound, runID)
	}
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return "", err
	}
	return dir, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTable reads the ensemble table of a run.
func (s *Store) LoadTable(runID string) ([]experiment.Row, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	records, err := readCSV(filepath.Join(dir, ensembleFile))
	if err != nil {
		return nil, err
	}
	return parseEnsemble(records)
}

// LoadCurve reads the critical-mass curve of a run.
func (s *Store) LoadCurve(runID string) (critical.Curve, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	records, err := readCSV(filepath.Join(dir, curveFile))
	if err != nil {
		return nil, err
	}
	return parseCurve(records)
}

// LoadFit returns nil without error when the run had too few points to fit.
func (s *Store) LoadFit(runID string) (*analysis.Fit, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, fitFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var fit analysis.Fit
	if err := json.Unmarshal(data, &fit); err != nil {
		return nil, err
	}
	return &fit, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}
