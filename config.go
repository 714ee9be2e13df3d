package osdlogin

import (
	"errors"
	"time"

	"github.com/RoCS2024/osdlogin/authclient"
	"github.com/RoCS2024/osdlogin/session"
)

// Config aggregates flow configuration. Instances are cloned on use and
// treated as immutable after Build.
type Config struct {
	Client  ClientConfig
	Token   TokenConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// ClientConfig controls the remote login call.
type ClientConfig struct {
	Endpoint    string
	TokenHeader string
	Timeout     time.Duration
}

// TokenConfig controls token processing. An empty VerifyKey keeps the
// decode-only behavior of the original flow; a key enables full HS256
// verification.
type TokenConfig struct {
	VerifyKey []byte
	Leeway    time.Duration
}

// SessionConfig controls the default session store backends. RedisPrefix
// applies when a Redis client is supplied; FilePath selects the file
// backend when no store or client is injected.
type SessionConfig struct {
	RedisPrefix string
	FilePath    string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration a fresh [Builder] starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Client: ClientConfig{
			TokenHeader: authclient.DefaultTokenHeader,
			Timeout:     authclient.DefaultTimeout,
		},
		Session: SessionConfig{
			RedisPrefix: session.DefaultRedisPrefix,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks invariants that Build depends on.
func (c Config) Validate() error {
	if c.Client.Endpoint == "" {
		return errors.New("client endpoint required")
	}
	if c.Client.Timeout < 0 {
		return errors.New("invalid client timeout")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("invalid token leeway")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.VerifyKey = cloneBytes(cfg.Token.VerifyKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
