package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"ezmaadmin/pkg/domain"
)

func TestStoreStateMachine(t *testing.T) {
	s := New()
	if s.IsAuthenticated() {
		t.Fatalf("fresh store should be anonymous")
	}

	s.SetToken("tok-1")
	if !s.IsAuthenticated() {
		t.Fatalf("store with token should be authenticated")
	}

	s.Logout()
	if s.IsAuthenticated() || s.Token() != "" {
		t.Fatalf("logout should return to anonymous")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("logout should clear user")
	}
}

func TestStoreEmptyTokenNeverAuthenticates(t *testing.T) {
	s := New()
	s.SetToken("")
	if s.IsAuthenticated() {
		t.Fatalf("empty token must not authenticate")
	}
	s.SetToken("   ")
	if s.IsAuthenticated() {
		t.Fatalf("blank token must not authenticate")
	}

	s.SetToken("tok-1")
	s.SetToken("")
	if s.IsAuthenticated() {
		t.Fatalf("clearing the token must drop authentication")
	}
}

func TestStoreLogoutIsIdempotent(t *testing.T) {
	s := New()
	var calls int
	s.Subscribe(func(State) { calls++ })

	s.SetToken("tok-1")
	s.Logout()
	s.Logout()
	if calls != 2 {
		t.Fatalf("second logout should not notify again, got %d notifications", calls)
	}
}

func TestStoreListenersRunSynchronously(t *testing.T) {
	s := New()
	var observed State
	s.Subscribe(func(state State) { observed = state })

	s.SetToken("tok-1")
	if !observed.IsAuthenticated || observed.Token != "tok-1" {
		t.Fatalf("listener should see the new state before SetToken returns, got %+v", observed)
	}

	s.SetUser(domain.Admin{ID: "a1", Name: "Admin"})
	if !observed.HasUser || observed.User.Name != "Admin" {
		t.Fatalf("listener should see the user synchronously, got %+v", observed)
	}
}

func TestExpiresAtReadsUnverifiedClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	s := New()
	s.SetToken(signed)
	if got := s.ExpiresAt(); !got.Equal(exp) {
		t.Fatalf("expires at = %v, want %v", got, exp)
	}
}

func TestExpiresAtZeroForOpaqueToken(t *testing.T) {
	s := New()
	s.SetToken("not-a-jwt")
	if got := s.ExpiresAt(); !got.IsZero() {
		t.Fatalf("opaque token should yield zero expiry, got %v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := New()
	s.SetToken("tok-1")
	s.SetUser(domain.Admin{ID: "a1", Name: "Admin", Phone: "998901234567"})
	if err := Save(path, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := New()
	Load(path, restored)
	if restored.Token() != "tok-1" {
		t.Fatalf("restored token = %q", restored.Token())
	}
	user, ok := restored.User()
	if !ok || user.Name != "Admin" {
		t.Fatalf("restored user = %+v ok=%v", user, ok)
	}
}

func TestSaveAnonymousRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := New()
	s.SetToken("tok-1")
	if err := Save(path, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Logout()
	if err := Save(path, s); err != nil {
		t.Fatalf("save anonymous: %v", err)
	}

	restored := New()
	Load(path, restored)
	if restored.IsAuthenticated() {
		t.Fatalf("anonymous save should leave nothing to restore")
	}
}

func TestLoadCorruptFileLeavesAnonymous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	writeFile(t, path, "{broken")

	s := New()
	Load(path, s)
	if s.IsAuthenticated() {
		t.Fatalf("corrupt session file must not authenticate")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
