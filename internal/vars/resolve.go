// Package vars resolves "${NAME}" placeholders in connection fields
// against the process environment at apply time, not at load time.
package vars

import (
	"os"
	"regexp"

	"aquaform/internal/core"
)

// wholeValuePlaceholder matches a value that is *entirely* "${IDENT}" -
// partial interpolation ("prefix-${X}-suffix") is intentionally not
// supported, matching the source's `startswith("${") and endswith("}")`
// check.
var wholeValuePlaceholder = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// Resolve substitutes value with the named environment variable if value
// is entirely of the form "${IDENT}". A missing environment variable
// yields the literal value unchanged - this is not an error. Any other
// shape of value is returned unchanged.
func Resolve(value string) string {
	m := wholeValuePlaceholder.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	if resolved, ok := os.LookupEnv(m[1]); ok {
		return resolved
	}
	return value
}

// ResolveConnection returns a new Connection with every field resolved
// against the environment. The input is never mutated.
func ResolveConnection(c core.Connection) core.Connection {
	return core.Connection{
		URL:      Resolve(c.URL),
		Key:      Resolve(c.Key),
		Host:     Resolve(c.Host),
		User:     Resolve(c.User),
		Password: Resolve(c.Password),
		Database: Resolve(c.Database),
	}
}
