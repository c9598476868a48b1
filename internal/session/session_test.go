package session

import (
	"path/filepath"
	"testing"
)

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil session for missing file, got %+v", s)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	if err := Save(path, &Session{Token: "tok", UserName: "Ana"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.Valid() {
		t.Fatal("expected a valid session")
	}
	if s.UserName != "Ana" || s.Token != "tok" {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestLoad_IncompleteSessionIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	if err := Save(path, &Session{Token: "tok"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != nil {
		t.Errorf("incomplete session should load as nil, got %+v", s)
	}
}

func TestValid_NilReceiver(t *testing.T) {
	var s *Session
	if s.Valid() {
		t.Error("nil session must not be valid")
	}
}
