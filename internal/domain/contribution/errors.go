package contribution

import (
	"errors"
	"fmt"
)

var ErrTableNotFound = errors.New("contribution table not found")

// ConfigError marks a malformed bracket table. It is fatal for the
// calculation that hit it; the calculators never substitute a default.
type ConfigError struct {
	Scheme Scheme
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("malformed %s contribution table: %s", e.Scheme, e.Reason)
}
