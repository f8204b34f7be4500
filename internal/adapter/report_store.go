package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "lstt/internal/model"
	"lstt/pkg"
)

// ReportFileName is the name of the run report inside a download directory.
const ReportFileName = "lstt-report.yaml"

// ReportStore persists import run reports next to the downloaded images.
type ReportStore interface {
	// Save writes report into dir, replacing any report from an earlier run.
	Save(dir m.Path, report *m.Report) error

	// Load reads the report an earlier run saved into dir.
	Load(dir m.Path) (*m.Report, error)
}

// YAMLReportStore provides a concrete ReportStore backed by YAML files.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// Save implements ReportStore.
func (s *YAMLReportStore) Save(dir m.Path, report *m.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(string(dir), ReportFileName)

	if err := pkg.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}

	slog.Info("saved report", "path", path, "rows", len(report.Rows))

	return nil
}

// Load implements ReportStore.
func (s *YAMLReportStore) Load(dir m.Path) (*m.Report, error) {
	path := filepath.Join(string(dir), ReportFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read report", "path", path, "error", err)
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}

	return &report, nil
}
