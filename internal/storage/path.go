package storage

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// BuildReportFilePath places one rendered report artifact under a
// date-partitioned prefix so object listings group runs by day.
func BuildReportFilePath(environment string, generatedAt time.Time, filename string) (string, error) {
	if err := validatePathComponent(environment, "environment"); err != nil {
		return "", err
	}
	if err := validatePathComponent(filename, "filename"); err != nil {
		return "", err
	}

	ts := generatedAt.UTC()
	return path.Join(
		environment,
		"reports",
		fmt.Sprintf("date=%04d-%02d-%02d", ts.Year(), ts.Month(), ts.Day()),
		filename,
	), nil
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
