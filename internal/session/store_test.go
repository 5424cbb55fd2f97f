package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"devauth/internal/domain"
)

func sampleSession() domain.Session {
	return domain.Session{
		UserID:     "u1",
		Email:      "Ada@X.com",
		FirstName:  "Ada",
		SignedInAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDecode_TreatsBadDataAsAbsent(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"whitespace": "   ",
		"null":       "null",
		"garbage":    "{not json",
		"array":      "[1,2]",
		"no user id": `{"email":"a@x.com","firstName":"A"}`,
		"bad time":   `{"userId":"u1","signedInAt":"yesterday"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, ok := decode([]byte(raw)); ok {
				t.Fatalf("expected %q to be treated as absent", raw)
			}
		})
	}
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	if _, ok := store.Read(); ok {
		t.Fatalf("expected empty store")
	}

	want := sampleSession()
	if err := store.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, ok := store.Read()
	if !ok || got.UserID != want.UserID || !got.SignedInAt.Equal(want.SignedInAt) {
		t.Fatalf("expected %+v, got %+v (ok=%v)", want, got, ok)
	}

	replacement := want
	replacement.UserID = "u2"
	if err := store.Save(replacement); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, _ = store.Read()
	if got.UserID != "u2" {
		t.Fatalf("expected last writer to win, got %s", got.UserID)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := store.Read(); ok {
		t.Fatalf("expected no session after clear")
	}

	store.SetRaw([]byte("{broken"))
	if _, ok := store.Read(); ok {
		t.Fatalf("expected malformed raw data to read as absent")
	}
}

func TestFileStore_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultSlot+".json")
	store := NewFileStore(path)

	if _, ok := store.Read(); ok {
		t.Fatalf("expected no session on a fresh client")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear on missing file should be a no-op, got %v", err)
	}

	want := sampleSession()
	if err := store.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected session file, got %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	got, ok := store.Read()
	if !ok {
		t.Fatalf("expected session to be readable")
	}
	if got.UserID != want.UserID || got.Email != want.Email || got.FirstName != want.FirstName || !got.SignedInAt.Equal(want.SignedInAt) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, got %v", err)
	}
}

func TestFileStore_MalformedFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := NewFileStore(path).Read(); ok {
		t.Fatalf("expected malformed file to read as absent")
	}
}

func TestFileStore_SerializedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	if err := NewFileStore(path).Save(sampleSession()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `{"userId":"u1","email":"Ada@X.com","firstName":"Ada","signedInAt":"2025-03-01T10:00:00Z"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestCookieStore_SaveReadClear(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	store := NewCookieStore(rec, req, CookieOptions{})

	if _, ok := store.Read(); ok {
		t.Fatalf("expected no session without cookie")
	}
	if err := store.Save(sampleSession()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got, ok := store.Read(); !ok || got.FirstName != "Ada" {
		t.Fatalf("expected read-your-write in the same request, got %+v", got)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != DefaultSlot {
		t.Fatalf("expected one %s cookie, got %+v", DefaultSlot, cookies)
	}
	if !cookies[0].HttpOnly || cookies[0].MaxAge <= 0 {
		t.Fatalf("unexpected cookie attributes: %+v", cookies[0])
	}

	// Siguiente request del mismo navegador.
	next := httptest.NewRequest(http.MethodGet, "/home", nil)
	next.AddCookie(cookies[0])
	got, ok := NewCookieStore(httptest.NewRecorder(), next, CookieOptions{}).Read()
	if !ok || got.UserID != "u1" || got.Email != "Ada@X.com" {
		t.Fatalf("expected session from cookie, got %+v (ok=%v)", got, ok)
	}

	clearRec := httptest.NewRecorder()
	clearStore := NewCookieStore(clearRec, next, CookieOptions{})
	if err := clearStore.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := clearStore.Read(); ok {
		t.Fatalf("expected no session after clear")
	}
	cleared := clearRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cleared)
	}
}

func TestCookieStore_MalformedCookieIsAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: "custom", Value: "%%%not-base64"})
	store := NewCookieStore(httptest.NewRecorder(), req, CookieOptions{Name: "custom"})
	if _, ok := store.Read(); ok {
		t.Fatalf("expected malformed cookie to read as absent")
	}
}

func TestGate(t *testing.T) {
	store := NewMemoryStore()
	if _, ok := Gate(store); ok {
		t.Fatalf("expected gate to deny without session")
	}
	if _, ok := Gate(nil); ok {
		t.Fatalf("expected gate to deny with nil store")
	}

	if err := store.Save(sampleSession()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	s, ok := Gate(store)
	if !ok || s.UserID != "u1" {
		t.Fatalf("expected gate to allow, got %+v", s)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := Gate(store); ok {
		t.Fatalf("expected gate to deny again after logout")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(domain.Session{FirstName: "Ada", Email: "a@x.com"}); got != "Ada" {
		t.Fatalf("expected first name, got %s", got)
	}
	if got := DisplayName(domain.Session{Email: "a@x.com"}); got != "a@x.com" {
		t.Fatalf("expected email fallback, got %s", got)
	}
}
