package config

import (
	"path/filepath"

	"aquaform/internal/core"
)

// globFor returns the backend-specific glob pattern used when no
// explicit config path is given (§4.1).
func globFor(backend core.Backend) string {
	switch backend {
	case core.BackendMySQL:
		return "aquamy.*.yaml"
	default:
		return "aqua.*.yaml"
	}
}

// Discover returns the config files matching backend's default glob in
// dir. It never errors on zero matches - an empty desired set is a
// valid starting point.
func Discover(dir string, backend core.Backend) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, globFor(backend)))
	if err != nil {
		return nil, err
	}
	return matches, nil
}
