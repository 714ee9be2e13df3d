package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const rolePrefix = "ROLE_"

var (
	// ErrMalformed is returned when the session token cannot be decoded.
	ErrMalformed = errors.New("malformed session token")
	// ErrNoAuthority is returned when the claim set carries no ROLE_ tag.
	ErrNoAuthority = errors.New("no role authority in token")
)

// Role is the authorization category derived from a token's authority tags.
// It determines which application area a session may access.
type Role uint8

const (
	// RoleGuest grants access to the guest area.
	RoleGuest Role = iota + 1
	// RoleEmployee grants access to the employee area.
	RoleEmployee
	// RoleStudent grants access to the student area. It is also the
	// fallback for ROLE_ tags that name neither guest nor employee.
	RoleStudent
)

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleEmployee:
		return "employee"
	case RoleStudent:
		return "student"
	default:
		return "unknown"
	}
}

// Claims is the decoded claim payload of a session token. Only the
// authorities list is consumed by this flow; everything else is opaque.
type Claims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// Resolution is the outcome of decoding a token and scanning its
// authorities. Authority is the matched ROLE_ tag; Ambiguous reports
// that more than one tag matched (the first in sequence order wins).
type Resolution struct {
	Role        Role
	Authority   string
	Authorities []string
	Ambiguous   bool
}

// Config controls token processing.
//
// When VerifyKey is empty the processor decodes the claim payload without
// signature verification — the trust boundary is then the authenticity of
// the TLS channel the token arrived on. Supplying an HS256 key closes that
// gap and additionally enforces expiry.
type Config struct {
	VerifyKey []byte
	Leeway    time.Duration
}

// Processor decodes session tokens and resolves the caller's role.
// It performs no network I/O and is safe for concurrent use.
type Processor struct {
	cfg Config
}

// NewProcessor validates cfg and returns a ready Processor.
func NewProcessor(cfg Config) (*Processor, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Processor{cfg: cfg}, nil
}

// Resolve decodes tokenStr locally and determines the caller's role from
// its authorities claim. It returns ErrMalformed when the token cannot be
// decoded (or fails verification when a key is configured) and
// ErrNoAuthority when no ROLE_ tag is present.
func (p *Processor) Resolve(tokenStr string) (*Resolution, error) {
	claims := &Claims{}

	if len(p.cfg.VerifyKey) > 0 {
		options := []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		}
		if p.cfg.Leeway > 0 {
			options = append(options, jwt.WithLeeway(p.cfg.Leeway))
		}
		parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return p.cfg.VerifyKey, nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if !parsed.Valid {
			return nil, ErrMalformed
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	return resolve(claims.Authorities)
}

func resolve(authorities []string) (*Resolution, error) {
	var (
		first   string
		matches int
	)
	for _, authority := range authorities {
		if strings.Contains(authority, rolePrefix) {
			if matches == 0 {
				first = authority
			}
			matches++
		}
	}
	if matches == 0 {
		return nil, ErrNoAuthority
	}

	return &Resolution{
		Role:        RoleFromAuthority(first),
		Authority:   first,
		Authorities: append([]string(nil), authorities...),
		Ambiguous:   matches > 1,
	}, nil
}

// RoleFromAuthority maps a single ROLE_ tag to a Role. Tags naming neither
// guest nor employee resolve to RoleStudent.
func RoleFromAuthority(authority string) Role {
	switch {
	case strings.Contains(authority, "ROLE_GUEST"):
		return RoleGuest
	case strings.Contains(authority, "ROLE_EMPLOYEE"):
		return RoleEmployee
	default:
		return RoleStudent
	}
}
