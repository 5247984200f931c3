package app

import (
	"os"
	"path/filepath"
	"strings"
)

func ensureAppDirs() error {
	ad, err := appDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(ad, 0o700)
}

// appDir is REGISTRAR_HOME when set, otherwise the user config dir.
func appDir() (string, error) {
	if v := os.Getenv(envPrefix + "HOME"); strings.TrimSpace(v) != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

func configFilePath() (string, error) {
	ad, err := appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(ad, "config.yaml"), nil
}

func defaultDataDir() string {
	ad, err := appDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(ad, "data")
}

// expandHome resolves a leading "~/" against the home directory.
func expandHome(p string) string {
	p = strings.TrimSpace(p)
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
