// Package auth provides bearer-token issuing/verification and password
// hashing for the recipe service. Tokens are stateless HS256 JWTs; nothing
// is persisted server-side and there is no revocation.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by Parse when the token's exp claim is in the
// past. ErrTokenInvalid covers every other failure (bad signature, malformed
// token, wrong algorithm, missing subject). Callers surface both as the same
// authentication failure; the split exists for server-side logging.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken represents a signed JWT along with its expiry. The Token field
// contains the serialized JWT string sent to clients in the Authorization
// header on protected calls.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims are the identity assertions carried by a verified token. Email is
// optional: signup tokens carry only the subject, login tokens also carry
// the email.
type Claims struct {
	UserID uint64
	Email  string
}

// IssueToken builds and signs an HS256 JWT for a user. The JWT includes the
// subject (sub), an optional email claim, expiration (exp) and issued at
// (iat). The TTL is expressed in hours; the service default is 24.
func IssueToken(secret string, userID uint64, email string, ttlHours int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies the signature and expiry of a serialized token and
// returns its claims. The signing method is pinned to HMAC so a token signed
// with a different algorithm is rejected.
func ParseToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case float64:
		// JWT numeric values decode as float64.
		c.UserID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, ErrTokenInvalid
		}
		c.UserID = n
	default:
		return Claims{}, ErrTokenInvalid
	}
	if c.UserID == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if e, ok := mc["email"].(string); ok {
		c.Email = e
	}
	return c, nil
}
