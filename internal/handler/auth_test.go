package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovasquez/recipebook/internal/auth"
	"github.com/ovasquez/recipebook/internal/config"
	"github.com/ovasquez/recipebook/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:     "test-secret",
		TokenTTLHours: 24,
		BcryptCost:    bcrypt.MinCost, // keep tests fast
	}
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAuthHandler(testConfig(), repository.NewUserRepo(db)), mock
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	h, mock := newAuthHandler(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ana", "ana@x.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
		`{"name":"Ana","email":"ANA@x.com","password":"pw123"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d want 201, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID    uint64 `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ID != 1 || resp.Name != "Ana" || resp.Email != "ana@x.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	claims, err := auth.ParseToken("test-secret", resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != 1 {
		t.Fatalf("token subject: got %d want 1", claims.UserID)
	}
	if strings.Contains(rec.Body.String(), "pw123") {
		t.Fatalf("response leaks the password: %s", rec.Body.String())
	}
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)
	for _, body := range []string{
		`{"email":"a@x.com","password":"pw"}`,
		`{"name":"Ana","password":"pw"}`,
		`{"name":"Ana","email":"a@x.com"}`,
	} {
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status got %d want 400", body, rec.Code)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	h, mock := newAuthHandler(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ana", "ana@x.com", sqlmock.AnyArg()).
		WillReturnError(errorWith1062{})

	rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
		`{"name":"Ana","email":"ana@x.com","password":"pw123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "user already exists") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

type errorWith1062 struct{}

func (errorWith1062) Error() string {
	return "Error 1062 (23000): Duplicate entry 'ana@x.com' for key 'users.email'"
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	h, mock := newAuthHandler(t)
	hash, err := auth.HashPassword("pw123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow(1, "Ana", "ana@x.com", hash, time.Now().UTC()))

	rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"ana@x.com","password":"pw123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User.ID != 1 || resp.User.Email != "ana@x.com" || resp.User.Name != "Ana" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	claims, err := auth.ParseToken("test-secret", resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != 1 || claims.Email != "ana@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)
	for _, body := range []string{`{"email":"ana@x.com"}`, `{"password":"pw"}`, `{}`} {
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status got %d want 400", body, rec.Code)
		}
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLogin_GenericInvalidCredentials(t *testing.T) {
	t.Parallel()

	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)
	recUnknown := doJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"ghost@x.com","password":"pw123"}`)

	hash, err := auth.HashPassword("pw123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow(1, "Ana", "ana@x.com", hash, time.Now().UTC()))
	recWrongPw := doJSON(t, h.Login, http.MethodPost, "/auth/login",
		`{"email":"ana@x.com","password":"wrong"}`)

	if recUnknown.Code != http.StatusUnauthorized || recWrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: got %d and %d, want 401 for both", recUnknown.Code, recWrongPw.Code)
	}
	if recUnknown.Body.String() != recWrongPw.Body.String() {
		t.Fatalf("bodies differ, allowing user enumeration:\n%s\n%s",
			recUnknown.Body.String(), recWrongPw.Body.String())
	}
}
