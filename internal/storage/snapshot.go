package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot stages. Raw batches land before cleaning, processed ones after
// analysis, so a bad run can be replayed from disk.
const (
	StageRaw       = "raw"
	StageProcessed = "processed"
)

// WriteSnapshot writes one dated JSON batch under dataDir/<stage>/ and
// returns the file path.
func WriteSnapshot(dataDir, stage, date string, payload any) (string, error) {
	if stage != StageRaw && stage != StageProcessed {
		return "", fmt.Errorf("unknown snapshot stage %q", stage)
	}

	dir := filepath.Join(dataDir, stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_projects_%s.json", stage, date))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// ReadSnapshot loads a dated JSON batch written by WriteSnapshot into out.
func ReadSnapshot(dataDir, stage, date string, out any) error {
	path := filepath.Join(dataDir, stage, fmt.Sprintf("%s_projects_%s.json", stage, date))
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return nil
}
