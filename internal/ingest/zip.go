package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip unpacks the archive into extractPath and returns the path of
// the CSV file it contained. Entries that would escape extractPath are
// rejected.
func ExtractZip(zipPath, extractPath string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open zip file: %w", err)
	}
	defer r.Close()

	var csvPath string
	for _, f := range r.File {
		destPath := filepath.Join(extractPath, f.Name)
		if !strings.HasPrefix(destPath, filepath.Clean(extractPath)+string(os.PathSeparator)) {
			return "", fmt.Errorf("invalid file path in zip: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, f.Mode()); err != nil {
				return "", fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
		if err := extractFile(f, destPath); err != nil {
			return "", err
		}

		if strings.HasSuffix(strings.ToLower(destPath), ".csv") {
			csvPath = destPath
		}
	}

	if csvPath == "" {
		return "", fmt.Errorf("no CSV file found in zip")
	}
	return csvPath, nil
}

func extractFile(f *zip.File, destPath string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open file in zip: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("failed to create extracted file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to extract file: %w", err)
	}
	return dst.Close()
}
