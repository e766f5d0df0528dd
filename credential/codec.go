package credential

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

const (
	// SaltLength is the number of random bytes drawn for every encoded
	// credential. Encoded as standard base64 it is always 8 characters.
	SaltLength = 6

	// Delimiter separates the salt text from the hash text in a stored
	// credential.
	Delimiter = "*"

	// legacySalt is the salt text that an earlier implementation hashed in
	// place of the real salt. Credentials issued by it carry a random salt
	// segment that was never used. Verification only; never encode with it.
	legacySalt = "System.Byte[]"
)

// saltSource is the random source for new salts.
var saltSource io.Reader = rand.Reader

// MatchKind reports which verification path accepted a candidate.
type MatchKind int

const (
	// MatchNone means the candidate was rejected.
	MatchNone MatchKind = iota
	// MatchEmpty means both the stored value and the candidate were empty.
	MatchEmpty
	// MatchPlain means the stored value had no salt segment and equalled
	// the candidate as raw text.
	MatchPlain
	// MatchSalted means the candidate matched the salted SHA-512 hash.
	MatchSalted
	// MatchLegacySalt means the candidate only matched when hashed with the
	// historical "System.Byte[]" salt text.
	MatchLegacySalt
)

// String returns a short lowercase name for k.
func (k MatchKind) String() string {
	switch k {
	case MatchNone:
		return "none"
	case MatchEmpty:
		return "empty"
	case MatchPlain:
		return "plain"
	case MatchSalted:
		return "salted"
	case MatchLegacySalt:
		return "legacy-salt"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// Legacy reports whether k is a compatibility path whose credential should
// be re-encoded by the caller.
func (k MatchKind) Legacy() bool {
	return k == MatchPlain || k == MatchLegacySalt
}

// Encode returns the storable form of plaintext:
//
//	<base64 salt>*<base64 SHA-512(salt text || plaintext)>
//
// An empty plaintext is returned unchanged. The only possible error is a
// failing random source, wrapped in [ErrRandomSource].
func Encode(plaintext string) (string, error) {
	return encode(saltSource, plaintext)
}

func encode(r io.Reader, plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}
	raw := make([]byte, SaltLength)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	salt := base64.StdEncoding.EncodeToString(raw)
	return salt + Delimiter + saltedHash(salt, plaintext), nil
}

// Verify reports whether candidate matches the stored credential.
// It never fails: malformed stored values simply do not match.
func Verify(stored, candidate string) bool {
	return Match(stored, candidate) != MatchNone
}

// Match is [Verify] that also reports which path accepted the candidate.
func Match(stored, candidate string) MatchKind {
	if stored == "" {
		if candidate == "" {
			return MatchEmpty
		}
		return MatchNone
	}
	if candidate == "" {
		return MatchNone
	}

	// A delimiter at index 0 leaves no salt, so the value counts as plain.
	pos := strings.Index(stored, Delimiter)
	if pos <= 0 {
		if equal(stored, candidate) {
			return MatchPlain
		}
		return MatchNone
	}

	salt, want := stored[:pos], stored[pos+len(Delimiter):]
	if equal(want, saltedHash(salt, candidate)) {
		return MatchSalted
	}
	if equal(want, saltedHash(legacySalt, candidate)) {
		return MatchLegacySalt
	}
	return MatchNone
}

// saltedHash hashes the salt text itself, not its decoded bytes.
func saltedHash(salt, plaintext string) string {
	sum := sha512.Sum512([]byte(salt + plaintext))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
