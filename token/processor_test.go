package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, key []byte, authorities []string, expiry time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":         "u-1",
		"authorities": authorities,
	}
	if !expiry.IsZero() {
		claims["exp"] = expiry.Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestResolveRoleMapping(t *testing.T) {
	p, err := NewProcessor(Config{})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	cases := []struct {
		name        string
		authorities []string
		wantRole    Role
		wantTag     string
	}{
		{"guest", []string{"ROLE_GUEST"}, RoleGuest, "ROLE_GUEST"},
		{"employee", []string{"ROLE_EMPLOYEE"}, RoleEmployee, "ROLE_EMPLOYEE"},
		{"student", []string{"ROLE_STUDENT"}, RoleStudent, "ROLE_STUDENT"},
		{"unknown tag falls back to student", []string{"ROLE_AUDITOR"}, RoleStudent, "ROLE_AUDITOR"},
		{"non-role entries skipped", []string{"SCOPE_READ", "ROLE_EMPLOYEE"}, RoleEmployee, "ROLE_EMPLOYEE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok := signedToken(t, []byte("k"), tc.authorities, time.Time{})
			res, err := p.Resolve(tok)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if res.Role != tc.wantRole {
				t.Fatalf("expected role %v, got %v", tc.wantRole, res.Role)
			}
			if res.Authority != tc.wantTag {
				t.Fatalf("expected authority %q, got %q", tc.wantTag, res.Authority)
			}
			if res.Ambiguous {
				t.Fatalf("did not expect ambiguity for %v", tc.authorities)
			}
		})
	}
}

func TestResolveFirstMatchWinsAndFlagsAmbiguity(t *testing.T) {
	p, _ := NewProcessor(Config{})

	tok := signedToken(t, []byte("k"), []string{"ROLE_EMPLOYEE", "ROLE_ADMIN_SHADOW"}, time.Time{})
	res, err := p.Resolve(tok)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Role != RoleEmployee {
		t.Fatalf("expected employee from first tag, got %v", res.Role)
	}
	if res.Authority != "ROLE_EMPLOYEE" {
		t.Fatalf("expected ROLE_EMPLOYEE selected, got %q", res.Authority)
	}
	if !res.Ambiguous {
		t.Fatal("expected ambiguity flag for two ROLE_ tags")
	}
	if len(res.Authorities) != 2 {
		t.Fatalf("expected full authorities list, got %v", res.Authorities)
	}
}

func TestResolveNoAuthority(t *testing.T) {
	p, _ := NewProcessor(Config{})

	for _, authorities := range [][]string{nil, {}, {"SCOPE_READ", "ADMIN"}} {
		tok := signedToken(t, []byte("k"), authorities, time.Time{})
		if _, err := p.Resolve(tok); !errors.Is(err, ErrNoAuthority) {
			t.Fatalf("expected ErrNoAuthority for %v, got %v", authorities, err)
		}
	}
}

func TestResolveMalformed(t *testing.T) {
	p, _ := NewProcessor(Config{})

	for _, tok := range []string{"", "not-a-token", "a.b"} {
		if _, err := p.Resolve(tok); !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %q, got %v", tok, err)
		}
	}
}

func TestResolveVerifiedMode(t *testing.T) {
	key := []byte("verify-key")
	p, err := NewProcessor(Config{VerifyKey: key})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	good := signedToken(t, key, []string{"ROLE_STUDENT"}, time.Now().Add(time.Hour))
	res, err := p.Resolve(good)
	if err != nil {
		t.Fatalf("resolve verified: %v", err)
	}
	if res.Role != RoleStudent {
		t.Fatalf("expected student, got %v", res.Role)
	}

	wrongKey := signedToken(t, []byte("other-key"), []string{"ROLE_STUDENT"}, time.Now().Add(time.Hour))
	if _, err := p.Resolve(wrongKey); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for bad signature, got %v", err)
	}

	expired := signedToken(t, key, []string{"ROLE_STUDENT"}, time.Now().Add(-time.Hour))
	if _, err := p.Resolve(expired); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for expired token, got %v", err)
	}
}

func TestResolveVerifiedModeLeeway(t *testing.T) {
	key := []byte("verify-key")
	p, err := NewProcessor(Config{VerifyKey: key, Leeway: time.Minute})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	justExpired := signedToken(t, key, []string{"ROLE_GUEST"}, time.Now().Add(-10*time.Second))
	res, err := p.Resolve(justExpired)
	if err != nil {
		t.Fatalf("expected leeway to accept token, got %v", err)
	}
	if res.Role != RoleGuest {
		t.Fatalf("expected guest, got %v", res.Role)
	}
}

func TestNewProcessorRejectsBadLeeway(t *testing.T) {
	if _, err := NewProcessor(Config{Leeway: -time.Second}); err == nil {
		t.Fatal("expected error for negative leeway")
	}
	if _, err := NewProcessor(Config{Leeway: 3 * time.Minute}); err == nil {
		t.Fatal("expected error for excessive leeway")
	}
}

func TestRoleFromAuthority(t *testing.T) {
	cases := map[string]Role{
		"ROLE_GUEST":        RoleGuest,
		"ROLE_EMPLOYEE":     RoleEmployee,
		"ROLE_STUDENT":      RoleStudent,
		"ROLE_ADMIN_SHADOW": RoleStudent,
	}
	for authority, want := range cases {
		if got := RoleFromAuthority(authority); got != want {
			t.Fatalf("RoleFromAuthority(%q) = %v, want %v", authority, got, want)
		}
	}
}

func TestRoleString(t *testing.T) {
	cases := map[Role]string{
		RoleGuest:    "guest",
		RoleEmployee: "employee",
		RoleStudent:  "student",
		Role(99):     "unknown",
	}
	for role, want := range cases {
		if got := role.String(); got != want {
			t.Fatalf("Role(%d).String() = %q, want %q", role, got, want)
		}
	}
}
