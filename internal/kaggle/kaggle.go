// Package kaggle downloads datasets from the Kaggle API.
package kaggle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Credentials holds the Kaggle API authentication details.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// LoadCredentials reads a kaggle.json credentials file.
func LoadCredentials(path string) (*Credentials, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer file.Close()

	var creds Credentials
	if err := json.NewDecoder(file).Decode(&creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials JSON: %w", err)
	}
	if creds.Username == "" || creds.Key == "" {
		return nil, fmt.Errorf("credentials file is missing username or key")
	}

	return &creds, nil
}

// ZipName is the file name the downloaded archive lands under.
const ZipName = "walmart-dataset.zip"

// minZipSize guards against API error pages saved as downloads.
const minZipSize = 10_000

// NewClient returns an HTTP client tuned for large dataset downloads.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &http.Transport{
			TLSHandshakeTimeout: 10 * time.Second,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Download fetches the dataset archive into destDir using basic auth and
// returns the archive path. The payload lands in a uniquely named temporary
// file and is only renamed into place after passing the size check.
func Download(ctx context.Context, client *http.Client, url, destDir string, creds *Credentials) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create raw data directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	req.SetBasicAuth(creds.Username, creds.Key)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dataset download returned status %s", resp.Status)
	}

	zipPath := filepath.Join(destDir, ZipName)
	partPath := zipPath + "." + uuid.NewString() + ".part"

	out, err := os.Create(partPath)
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(partPath)
		return "", fmt.Errorf("failed to write download: %w", err)
	}
	if written < minZipSize {
		_ = os.Remove(partPath)
		return "", fmt.Errorf("downloaded zip looks too small (%d bytes); check Kaggle credentials/URL", written)
	}

	if err := os.Rename(partPath, zipPath); err != nil {
		_ = os.Remove(partPath)
		return "", fmt.Errorf("failed to move download into place: %w", err)
	}
	return zipPath, nil
}
