package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes the full report, including raw per-test records, as
// indented JSON.
func WriteJSON(report Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}
