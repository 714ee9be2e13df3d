package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newFileStoreTest(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return store, path
}

func TestFileSaveAndLoad(t *testing.T) {
	store, _ := newFileStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, studentSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Authority != "ROLE_STUDENT" || loaded.SubjectID != "2021001234" {
		t.Fatalf("unexpected session: %+v", loaded)
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	store, path := newFileStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, studentSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if loaded.Token != "token-abc" {
		t.Fatalf("unexpected token after reopen: %q", loaded.Token)
	}
}

func TestFileLoadMissing(t *testing.T) {
	store, _ := newFileStoreTest(t)
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Get(ctx, KeyRole); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on get, got %v", err)
	}
}

func TestFileSaveOverwritesPriorIdentifier(t *testing.T) {
	store, _ := newFileStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, studentSession()); err != nil {
		t.Fatalf("save student: %v", err)
	}

	guest := &Session{
		Authority:     "ROLE_GUEST",
		Token:         "token-xyz",
		SubjectID:     "G-0001",
		IdentifierKey: KeyGuestID,
	}
	if err := store.Save(ctx, guest); err != nil {
		t.Fatalf("save guest: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.IdentifierKey != KeyGuestID || loaded.SubjectID != "G-0001" {
		t.Fatalf("expected guest identifier, got %+v", loaded)
	}
	if _, err := store.Get(ctx, KeyStudentNumber); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected stale student slot gone, got %v", err)
	}
}

func TestFileClear(t *testing.T) {
	store, path := newFileStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, studentSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, stat err=%v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileCorruptContent(t *testing.T) {
	store, path := newFileStoreTest(t)
	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable for corrupt file, got %v", err)
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
