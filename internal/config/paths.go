package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved filesystem locations used at runtime.
// Relative entries in Config are interpreted against BaseDir.
type Paths struct {
	BaseDir         string
	DataDir         string
	ExportDir       string
	LogFile         string
	CatalogFile     string
	CredentialsFile string
}

// GetPaths resolves the configured paths. BaseDir is ECOM_BASE_DIR when
// set, otherwise the current working directory.
func GetPaths(cfg *Config) (*Paths, error) {
	base := os.Getenv(EnvPrefix + "_BASE_DIR")
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir %s: %w", base, err)
	}

	return &Paths{
		BaseDir:         abs,
		DataDir:         resolve(abs, cfg.Data.Dir),
		ExportDir:       resolve(abs, cfg.Data.ExportDir),
		LogFile:         resolve(abs, cfg.Logging.FilePath),
		CatalogFile:     resolve(abs, cfg.Data.CatalogFile),
		CredentialsFile: resolve(abs, cfg.Data.CredentialsFile),
	}, nil
}

// EnsureDirectories creates the directories the application writes to
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportDir, filepath.Dir(p.LogFile)} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
