package common

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// Duration is a wrapper type that parses time duration from text.
// Used in config files as strings like "30s", "5m" or "1h30m".
type Duration struct {
	time.Duration `validate:"required"`
}

// NewDuration is a constructor for Duration.
func NewDuration(duration time.Duration) Duration {
	return Duration{duration}
}

// UnmarshalText unmarshals a duration string using time.ParseDuration.
func (d *Duration) UnmarshalText(data []byte) error {
	duration, err := time.ParseDuration(string(data))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(data), err)
	}
	d.Duration = duration

	return nil
}

// MarshalText renders the duration in time.Duration string form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// JSONSchema describes the string form of a Duration.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Title:       "Duration",
		Description: "Duration expressed in units: [ns, us, ms, s, m, h, d]",
		Examples: []any{
			"1m",
			"300ms",
		},
	}
}
