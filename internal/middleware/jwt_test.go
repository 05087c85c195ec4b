package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ovasquez/recipebook/internal/auth"
)

const testSecret = "test-secret"

func runGuard(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool, any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	var userID any
	next := func(c echo.Context) error {
		reached = true
		userID = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	}
	if err := JWTAuth(testSecret)(next)(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	return rec, reached, userID
}

func TestJWTAuth_MissingToken(t *testing.T) {
	t.Parallel()

	rec, reached, _ := runGuard(t, "")
	if reached {
		t.Fatalf("handler must not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no authentication token provided") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	rec, reached, _ := runGuard(t, "Bearer garbage")
	if reached {
		t.Fatalf("handler must not run with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "authentication failed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	tok, err := auth.IssueToken(testSecret, 5, "", -1)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	rec, reached, _ := runGuard(t, "Bearer "+tok.Token)
	if reached {
		t.Fatalf("handler must not run with an expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tok, err := auth.IssueToken(testSecret, 5, "ana@x.com", 1)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	rec, reached, userID := runGuard(t, "Bearer "+tok.Token)
	if !reached {
		t.Fatalf("handler did not run with a valid token: %s", rec.Body.String())
	}
	if id, ok := userID.(uint64); !ok || id != 5 {
		t.Fatalf("user_id in context: got %v want uint64(5)", userID)
	}
}

func TestJWTAuth_WrongSecretToken(t *testing.T) {
	t.Parallel()

	tok, err := auth.IssueToken("other-secret", 5, "", 1)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	rec, reached, _ := runGuard(t, "Bearer "+tok.Token)
	if reached {
		t.Fatalf("handler must not run with a token signed by another secret")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
}
