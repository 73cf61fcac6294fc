package config

import "path/filepath"

const (
	envCredentialsPath = "KAGGLE_CREDENTIALS_PATH"
	envDatasetURL      = "DATASET_URL"
	envRawDataDir      = "RAW_DATA_DIR"

	defaultDatasetURL = "https://www.kaggle.com/api/v1/datasets/download/yasserh/walmart-dataset"
)

// Pipeline holds the ingestion pipeline settings resolved from the
// environment.
type Pipeline struct {
	CredentialsPath string
	DatasetURL      string
	RawDataDir      string
}

// ResolvePipeline builds a Pipeline with the same precedence rules as
// Resolve. Every field has a default, so resolution cannot fail; empty
// values fall back to the default.
func ResolvePipeline() Pipeline {
	fileVars := repoEnv()
	root, ok := findRepoRoot()
	if !ok {
		root = "."
	}

	p := Pipeline{
		CredentialsPath: lookup(envCredentialsPath, fileVars),
		DatasetURL:      lookup(envDatasetURL, fileVars),
		RawDataDir:      lookup(envRawDataDir, fileVars),
	}
	if p.CredentialsPath == "" {
		p.CredentialsPath = filepath.Join(root, ".secrets", "kaggle.json")
	}
	if p.DatasetURL == "" {
		p.DatasetURL = defaultDatasetURL
	}
	if p.RawDataDir == "" {
		p.RawDataDir = filepath.Join(root, "data", "raw", "walmart")
	}
	return p
}
