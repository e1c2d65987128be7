package admin

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meridian-dev/meridian/internal/names"
	"github.com/meridian-dev/meridian/internal/utils"
	"github.com/meridian-dev/meridian/internal/validate"
)

// Default tuning applied by NewClient when config fields are zero.
const (
	DefaultRequestTimeout     = 30 * time.Second
	DefaultMaxRetries         = 5
	DefaultRetryBackoff       = 100 * time.Millisecond
	DefaultMaxInFlightPerNode = 8
)

// Config configures an admin client. The zero value of every field except
// View is usable: zero means "use the default".
type Config struct {
	// ClientID identifies this client in request envelopes and broker logs.
	// Lowercase alphanumerics plus dot, underscore, hyphen; max 64 chars.
	// Generated ("adjective-noun-hex") when empty.
	ClientID string

	// View supplies broker metadata snapshots. Required. Production wires
	// the gossip manager; tests and fixed fleets use metadata.Static.
	View MetadataView

	// Transport overrides the request transport. Nil gets the default
	// HTTP pool. The client owns whatever transport it ends up with and
	// closes it on Close.
	Transport Transport

	// RequestTimeout is the default per-call deadline, measured from
	// submission and never extended by retries. Operations override it per
	// invocation with WithTimeout.
	RequestTimeout time.Duration `validate:"min=0"`

	// MaxRetries bounds retry attempts after the initial send. Zero means
	// the default; negative disables retries entirely. The deadline usually
	// bites first.
	MaxRetries int

	// RetryBackoff is the pause before a retriable failure may be
	// rescheduled. The call's deadline keeps ticking during backoff.
	RetryBackoff time.Duration `validate:"min=0"`

	// MaxInFlightPerNode caps concurrent requests per broker in the default
	// transport. Ignored when Transport is injected.
	MaxInFlightPerNode int `validate:"min=0"`

	// Registerer exports call metrics when set. Nil keeps them
	// unregistered.
	Registerer prometheus.Registerer

	// timeoutFactory overrides expiry decisions so tests can force or
	// suppress timeouts without waiting on wall clocks.
	timeoutFactory timeoutProcessorFactory
}

// withDefaults returns a copy of the config with zero fields filled in. The
// caller's struct is never mutated.
func (c *Config) withDefaults() (*Config, error) {
	cfg := *c

	if cfg.ClientID == "" {
		suffix, err := utils.GenerateShortID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate client ID: %w", err)
		}
		cfg.ClientID = fmt.Sprintf("%s-%s", names.Generate(), suffix)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.MaxInFlightPerNode == 0 {
		cfg.MaxInFlightPerNode = DefaultMaxInFlightPerNode
	}
	return &cfg, nil
}

// validate checks the filled-in config. Runs after withDefaults, so zero
// values have already been replaced and anything invalid here was set
// explicitly by the caller.
func (c *Config) validate() error {
	if c.View == nil {
		return fmt.Errorf("metadata view is required")
	}
	if err := validate.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validate.ClientIDFormat(c.ClientID); err != nil {
		return fmt.Errorf("invalid client ID: %w", err)
	}
	return nil
}
