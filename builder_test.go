package osdlogin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/RoCS2024/osdlogin/session"
)

type nopNavigator struct{}

func (nopNavigator) Navigate(Destination) {}

func TestBuildRequiresEndpoint(t *testing.T) {
	_, err := New().
		WithSessionStore(&failingStore{}).
		WithNavigator(nopNavigator{}).
		Build()
	if err == nil {
		t.Fatal("expected error without endpoint")
	}
}

func TestBuildRequiresNavigator(t *testing.T) {
	_, err := New().
		WithEndpoint("http://localhost/login").
		WithSessionStore(&failingStore{}).
		Build()
	if err == nil {
		t.Fatal("expected error without navigator")
	}
}

func TestBuildRequiresStore(t *testing.T) {
	_, err := New().
		WithEndpoint("http://localhost/login").
		WithNavigator(nopNavigator{}).
		Build()
	if err == nil {
		t.Fatal("expected error without any session store")
	}
}

func TestBuildWithFilePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Client.Endpoint = "http://localhost/login"
	cfg.Session.FilePath = filepath.Join(t.TempDir(), "session.json")

	flow, err := New().
		WithConfig(cfg).
		WithNavigator(nopNavigator{}).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer flow.Close()

	if _, err := flow.Session(context.Background()); err == nil {
		t.Fatal("expected no stored session in fresh file store")
	}
}

func TestBuildRejectsReuse(t *testing.T) {
	b := New().
		WithEndpoint("http://localhost/login").
		WithSessionStore(&failingStore{}).
		WithNavigator(nopNavigator{})

	flow, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer flow.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second build")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Client.Endpoint = "http://localhost/login"
	cfg.Client.Timeout = -1

	_, err := New().
		WithConfig(cfg).
		WithSessionStore(&failingStore{}).
		WithNavigator(nopNavigator{}).
		Build()
	if err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestWithConfigClonesVerifyKey(t *testing.T) {
	key := []byte("secret")
	cfg := DefaultConfig()
	cfg.Client.Endpoint = "http://localhost/login"
	cfg.Token.VerifyKey = key

	b := New().
		WithConfig(cfg).
		WithSessionStore(&failingStore{}).
		WithNavigator(nopNavigator{})

	key[0] = 'X'

	flow, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer flow.Close()

	if flow.config.Token.VerifyKey[0] != 's' {
		t.Fatal("expected verify key cloned at WithConfig time")
	}
}

func TestRouteTable(t *testing.T) {
	cases := []struct {
		role      Role
		id        string
		wantArea  Area
		wantParam string
	}{
		{RoleGuest, "G-1", AreaGuest, session.KeyGuestID},
		{RoleEmployee, "E-1", AreaEmployee, session.KeyEmployeeNumber},
		{RoleStudent, "S-1", AreaStudent, session.KeyStudentNumber},
		{Role(99), "X-1", AreaStudent, session.KeyStudentNumber},
	}
	for _, tc := range cases {
		dest := Route(tc.role, tc.id)
		if dest.Area != tc.wantArea {
			t.Fatalf("Route(%v): expected area %s, got %s", tc.role, tc.wantArea, dest.Area)
		}
		if dest.Params[tc.wantParam] != tc.id {
			t.Fatalf("Route(%v): expected %s=%s, got %v", tc.role, tc.wantParam, tc.id, dest.Params)
		}
	}
}
