// Package auth gates access: bearer-token API authorization for
// administrative operations, and per-paste password checks for reads.
// Both checks are pure; nothing here touches the store.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"slugbin/pkg/domain"
)

// Guard holds the configured API secret. Credentials are compared in
// constant time regardless of where they fail.
type Guard struct {
	apiSecret []byte
}

func NewGuard(apiSecret string) *Guard {
	return &Guard{apiSecret: []byte(apiSecret)}
}

// CheckAPIAuth verifies an Authorization header of the form
// "Bearer <secret>". An empty configured secret authorizes nothing.
// Broken JS clients send the literals "null" and "undefined"; exact
// comparison already rejects those.
func (g *Guard) CheckAPIAuth(header string) error {
	if len(g.apiSecret) == 0 {
		return domain.ErrUnauthorized
	}
	token, ok := bearerToken(header)
	if !ok {
		return domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), g.apiSecret) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// CheckPasteAuth enforces the per-paste password. Records without a
// password are always readable; protected ones require an exact match.
func (g *Guard) CheckPasteAuth(meta domain.Metadata, presented string) error {
	if !meta.Protected() {
		return nil
	}
	if presented == "" {
		return domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(*meta.Password)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// PasteCredential extracts the presented paste password from a request:
// the X-Paste-Password header, or a bearer Authorization header as the
// public view route accepts.
func PasteCredential(r *http.Request) string {
	if pw := r.Header.Get("X-Paste-Password"); pw != "" {
		return pw
	}
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
