package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ChecksumField is the parameter name carrying the signature on both the
// outbound redirect and the inbound callback.
const ChecksumField = "checksum"

// Signer computes and verifies HMAC-SHA256 checksums over gateway parameter
// sets using the shared merchant secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) Signer {
	return Signer{secret: []byte(secret)}
}

// Canonicalize produces the signing string for a parameter set: empty values
// are dropped, the remaining keys are sorted lexicographically, and the pairs
// are rendered as key=value joined by ampersands.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

// Sign returns the lowercase hex HMAC-SHA256 of the canonical form of params.
// The checksum field itself must not be present in params.
func (s Signer) Sign(params map[string]string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(Canonicalize(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the checksum over params and compares it against the
// received value in constant time. Comparison is case-insensitive on the
// received hex.
func (s Signer) Verify(params map[string]string, received string) bool {
	expected := s.Sign(params)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(received)))
}
