// Package signer issues expiring signed URLs for item previews and
// thumbnails. Items carry storage paths, not public URLs; the signer
// turns a path into a time-limited link the media gateway can verify.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Signer signs storage paths with an HMAC so the media gateway can
// serve them without a database lookup.
type Signer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

// New creates a Signer. baseURL is the media gateway root, without a
// trailing slash.
func New(secret string, baseURL string, ttl time.Duration) *Signer {
	return &Signer{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SignURL returns a URL for the given storage path, valid until the
// configured TTL elapses. Empty paths sign to an empty URL.
func (s *Signer) SignURL(storagePath string) (string, error) {
	if storagePath == "" {
		return "", nil
	}

	path := "/" + strings.TrimLeft(storagePath, "/")
	expires := s.now().Add(s.ttl).Unix()
	sig := s.sign(path, expires)

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", sig)

	return s.baseURL + path + "?" + q.Encode(), nil
}

// Verify checks a path/expiry/signature triple. It returns false for
// expired or forged signatures.
func (s *Signer) Verify(path string, expires int64, signature string) bool {
	if s.now().Unix() > expires {
		return false
	}
	expected := s.sign(path, expires)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *Signer) sign(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", path, expires)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
