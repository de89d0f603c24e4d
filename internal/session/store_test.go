package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/example/mediride/internal/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	fs := NewFileStore(path)

	want := models.Session{
		AccessToken:  "acc",
		RefreshToken: "ref",
		Profile:      models.Profile{FullName: "Rahim Uddin", PhoneNumber: "01711111111"},
	}
	if err := fs.Save(models.RolePatient, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	// reopen to prove persistence
	fs2 := NewFileStore(path)
	got, err := fs2.Load(models.RolePatient)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, want)
	}
}

func TestRolesDoNotClobber(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))

	patient := models.Session{AccessToken: "p-acc"}
	driver := models.Session{AccessToken: "d-acc"}
	if err := fs.Save(models.RolePatient, patient); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(models.RoleDriver, driver); err != nil {
		t.Fatal(err)
	}
	if err := fs.Clear(models.RoleDriver); err != nil {
		t.Fatal(err)
	}

	if _, err := fs.Load(models.RoleDriver); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected driver session gone, got %v", err)
	}
	got, err := fs.Load(models.RolePatient)
	if err != nil || got.AccessToken != "p-acc" {
		t.Fatalf("patient session lost: %+v err=%v", got, err)
	}
}

func TestRoleTokensClear(t *testing.T) {
	ms := NewMemoryStore()
	_ = ms.Save(models.RoleAdmin, models.Session{AccessToken: "a", RefreshToken: "r"})

	rt := RoleTokens{Store: ms, Role: models.RoleAdmin}
	access, refresh, err := rt.Tokens()
	if err != nil || access != "a" || refresh != "r" {
		t.Fatalf("tokens: %s %s %v", access, refresh, err)
	}
	if err := rt.SetAccess("a2"); err != nil {
		t.Fatal(err)
	}
	if s, _ := ms.Load(models.RoleAdmin); s.AccessToken != "a2" || s.RefreshToken != "r" {
		t.Fatalf("refresh token lost on access update: %+v", s)
	}
	if err := rt.Clear(); err != nil {
		t.Fatal(err)
	}
	if access, refresh, err := rt.Tokens(); err != nil || access != "" || refresh != "" {
		t.Fatalf("expected empty tokens after clear, got %s %s %v", access, refresh, err)
	}
}
