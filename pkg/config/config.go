package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envHost     = "DB_HOST"
	envPort     = "DB_PORT"
	envUser     = "DB_USER"
	envPassword = "DB_PASSWORD"
	envName     = "DB_NAME"

	defaultHost = "localhost"
	defaultPort = "5433"
)

// Config holds the PostgreSQL connection settings resolved from the
// environment.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// MissingEnvError reports every mandatory connection variable that resolved
// to an empty value.
type MissingEnvError struct {
	Vars []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required env var(s): %s; check the repo-root .env file", strings.Join(e.Vars, ", "))
}

// Resolve builds a Config from the repo-root .env file and the process
// environment. A variable present in the process environment wins over the
// file, even when set to an empty string; the process environment itself is
// never modified. DB_USER, DB_PASSWORD and DB_NAME are mandatory and every
// missing one is reported in a single MissingEnvError.
func Resolve() (Config, error) {
	fileVars := repoEnv()

	cfg := Config{
		Host:     lookup(envHost, fileVars),
		Port:     lookup(envPort, fileVars),
		User:     lookup(envUser, fileVars),
		Password: lookup(envPassword, fileVars),
		Name:     lookup(envName, fileVars),
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	var missing []string
	for _, v := range []struct{ key, val string }{
		{envUser, cfg.User},
		{envPassword, cfg.Password},
		{envName, cfg.Name},
	} {
		if v.val == "" {
			missing = append(missing, v.key)
		}
	}
	if len(missing) > 0 {
		return Config{}, &MissingEnvError{Vars: missing}
	}
	return cfg, nil
}

// URL renders the config as a postgresql:// connection string. User and
// password are percent-escaped.
func (c Config) URL() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	return u.String()
}

// lookup resolves one variable: process environment first, then the .env
// file, then empty.
func lookup(key string, fileVars map[string]string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fileVars[key]
}

// repoEnv reads the repo-root .env file without touching the process
// environment. A missing or unreadable file yields no variables.
func repoEnv() map[string]string {
	root, ok := findRepoRoot()
	if !ok {
		return nil
	}
	vars, err := godotenv.Read(filepath.Join(root, ".env"))
	if err != nil {
		return nil
	}
	return vars
}

// maxWalkDepth bounds the upward search for the repository root.
const maxWalkDepth = 10

// findRepoRoot locates the repository root by walking up from the working
// directory, falling back to the executable's directory.
func findRepoRoot() (string, bool) {
	if cwd, err := os.Getwd(); err == nil {
		if root, ok := walkUpForRoot(cwd); ok {
			return root, true
		}
	}
	if exe, err := os.Executable(); err == nil {
		if root, ok := walkUpForRoot(filepath.Dir(exe)); ok {
			return root, true
		}
	}
	return "", false
}

// walkUpForRoot climbs at most maxWalkDepth directories. The first directory
// holding a .env file wins; otherwise the first one holding a .git directory
// or a go.mod file.
func walkUpForRoot(start string) (string, bool) {
	dir := filepath.Clean(start)
	marker := ""
	for i := 0; i < maxWalkDepth; i++ {
		if fileExists(filepath.Join(dir, ".env")) {
			return dir, true
		}
		if marker == "" && (dirExists(filepath.Join(dir, ".git")) || fileExists(filepath.Join(dir, "go.mod"))) {
			marker = dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return marker, marker != ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
