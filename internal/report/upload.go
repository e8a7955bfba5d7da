package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/querysmith/querysmith/internal/storage"
)

var contentTypes = map[string]string{
	".json":    "application/json",
	".md":      "text/markdown",
	".csv":     "text/csv",
	".parquet": "application/vnd.apache.parquet",
}

// Upload pushes rendered report files to the object store under a
// date-partitioned key and returns the object keys written.
func Upload(ctx context.Context, store storage.ObjectStore, environment string, generatedAt time.Time, paths []string) ([]string, error) {
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		key, err := uploadFile(ctx, store, environment, generatedAt, path)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func uploadFile(ctx context.Context, store storage.ObjectStore, environment string, generatedAt time.Time, path string) (string, error) {
	key, err := storage.BuildReportFilePath(environment, generatedAt, filepath.Base(path))
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open report file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat report file: %w", err)
	}

	contentType := contentTypes[filepath.Ext(path)]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := store.Put(ctx, key, file, info.Size(), storage.PutOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("upload report %q: %w", key, err)
	}
	return key, nil
}
