package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	tok, err := IssueToken(secret, 42, "ana@x.com", 24)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	if tok.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if remaining := time.Until(tok.Exp); remaining < 23*time.Hour {
		t.Fatalf("expected ~24h expiry, got %s remaining", remaining)
	}

	claims, err := ParseToken(secret, tok.Token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id mismatch: got %d want 42", claims.UserID)
	}
	if claims.Email != "ana@x.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
}

func TestIssueAndParse_NoEmail(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken("k", 7, "", 1)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	claims, err := ParseToken("k", tok.Token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken("secret", 1, "", -1)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	_, err = ParseToken("secret", tok.Token)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken("right-secret", 1, "", 1)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	_, err = ParseToken("wrong-secret", tok.Token)
	if err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("k", "not.a.jwt"); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
