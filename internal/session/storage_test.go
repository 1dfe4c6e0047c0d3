package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStorage(dir)

	// Fresh install reads as logged out, not as an error.
	tok, err := st.Token()
	if err != nil || tok != "" {
		t.Fatalf("fresh Token() = %q, %v; want empty, nil", tok, err)
	}

	if err := st.SetToken("tok1"); err != nil {
		t.Fatal(err)
	}
	if err := st.SetState([]byte(`{"state":{"token":"tok1","authenticated":true}}`)); err != nil {
		t.Fatal(err)
	}

	tok, err = st.Token()
	if err != nil || tok != "tok1" {
		t.Errorf("Token() = %q, %v; want tok1, nil", tok, err)
	}
	state, err := st.State()
	if err != nil || len(state) == 0 {
		t.Errorf("State() = %q, %v; want persisted record", state, err)
	}

	// The session file must not be world-readable.
	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}

	if err := st.Clear(); err != nil {
		t.Fatal(err)
	}
	if tok, _ := st.Token(); tok != "" {
		t.Errorf("Token() = %q after Clear, want empty", tok)
	}
	// Clearing twice is fine; the file is already gone.
	if err := st.Clear(); err != nil {
		t.Errorf("second Clear() = %v, want nil", err)
	}
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	st := NewMemoryStorage()

	if err := st.SetToken("tok1"); err != nil {
		t.Fatal(err)
	}
	tok, err := st.Token()
	if err != nil || tok != "tok1" {
		t.Errorf("Token() = %q, %v; want tok1, nil", tok, err)
	}

	if err := st.Clear(); err != nil {
		t.Fatal(err)
	}
	if tok, _ := st.Token(); tok != "" {
		t.Errorf("Token() = %q after Clear, want empty", tok)
	}
}
