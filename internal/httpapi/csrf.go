package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// csrfSigner derives the anti-forgery token for a session id. Tokens are
// stateless so they expire together with the session they are bound to.
type csrfSigner struct {
	key []byte
}

func newCSRFSigner(key []byte) *csrfSigner {
	return &csrfSigner{key: append([]byte(nil), key...)}
}

func randomCSRFSigner() (*csrfSigner, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("httpapi: generate csrf key: %w", err)
	}
	return newCSRFSigner(key), nil
}

func (c *csrfSigner) token(sessionID string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *csrfSigner) verify(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	want, err := hex.DecodeString(c.token(sessionID))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(token)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}
