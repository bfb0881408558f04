// Task 8.5: tests for the register + login HTTP handlers.
// Tests run against a real SQLite DB — no mocking.
// Covers: success paths, error paths, response shape, status codes.
// Traces: FR-801
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	domainauth "github.com/srilakshmipotnuru/mindsdb/internal/domain/auth"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/sqlite"
)

// TestMain sets package-level environment variables needed by auth tests.
// JWT_SECRET must be set before GenerateJWT is called (it panics otherwise).
// Using TestMain (instead of t.Setenv) allows t.Parallel() across all auth tests.
func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret-key-32-chars-min!!!") //nolint:errcheck
	os.Exit(m.Run())
}

// ===== TEST HELPERS (auth-specific) =====

// mustOpenAuthDB opens a throwaway SQLite DB with all migrations applied.
// Separate helper so auth tests are self-contained.
func mustOpenAuthDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "auth_handler_test.db"))
	if err != nil {
		t.Fatalf("sqlite.NewDB error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp error = %v", err)
	}

	return db
}

// newAuthHandler creates an AuthHandler wired to a real AuthService.
func newAuthHandler(db *sql.DB) *AuthHandler {
	return NewAuthHandler(domainauth.NewAuthService(db))
}

// doAuthRequest posts a JSON body to the given handler func.
func doAuthRequest(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// ===== REGISTER =====

func TestAuthHandler_Register_Success(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	rr := doAuthRequest(t, h.Register, RegisterRequest{Email: "ana@example.com", Password: "s3cret-pass"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status = %d, want 201; body: %s", rr.Code, rr.Body.String())
	}
	var resp AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Token == "" {
		t.Error("Register response token is empty")
	}
	if resp.AccountID == "" {
		t.Error("Register response accountId is empty")
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	cases := []struct {
		name string
		body RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "s3cret-pass"}},
		{"missing password", RegisterRequest{Email: "ana@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doAuthRequest(t, h.Register, tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	body := RegisterRequest{Email: "dup@example.com", Password: "s3cret-pass"}
	if rr := doAuthRequest(t, h.Register, body); rr.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", rr.Code)
	}

	rr := doAuthRequest(t, h.Register, body)
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rr.Code)
	}
}

// ===== LOGIN =====

func TestAuthHandler_Login_Success(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	if rr := doAuthRequest(t, h.Register, RegisterRequest{Email: "ana@example.com", Password: "s3cret-pass"}); rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rr.Code)
	}

	rr := doAuthRequest(t, h.Login, LoginRequest{Email: "ana@example.com", Password: "s3cret-pass"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Login status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var resp AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Token == "" || resp.AccountID == "" {
		t.Errorf("Login response incomplete: %+v", resp)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	if rr := doAuthRequest(t, h.Register, RegisterRequest{Email: "ana@example.com", Password: "s3cret-pass"}); rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rr.Code)
	}

	rr := doAuthRequest(t, h.Login, LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rr.Code)
	}
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	rr := doAuthRequest(t, h.Login, LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", rr.Code)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(mustOpenAuthDB(t))

	rr := doAuthRequest(t, h.Login, LoginRequest{Email: "ana@example.com"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing password status = %d, want 400", rr.Code)
	}
}
