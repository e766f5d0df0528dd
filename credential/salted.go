package credential

import (
	"encoding/base64"
	"strings"
)

// SaltedSHA512Options configures a [SaltedSHA512Hasher].
type SaltedSHA512Options struct {
	// AllowEmpty keeps the pass-through behaviour for empty credentials:
	// "" is stored as "" and an empty stored value accepts an empty
	// password. When false, Make refuses "" and Check rejects any empty side.
	AllowEmpty bool
}

// DefaultSaltedSHA512Options returns options compatible with credentials
// already stored by the management backend (AllowEmpty is true).
func DefaultSaltedSHA512Options() SaltedSHA512Options {
	return SaltedSHA512Options{AllowEmpty: true}
}

// SaltedSHA512Hasher is the [Hasher] driver around [Encode] and [Match].
//
// It is immutable after construction and safe for concurrent use.
type SaltedSHA512Hasher struct {
	allowEmpty bool
}

// NewSaltedSHA512Hasher constructs a SaltedSHA512Hasher.
func NewSaltedSHA512Hasher(opts SaltedSHA512Options) *SaltedSHA512Hasher {
	return &SaltedSHA512Hasher{allowEmpty: opts.AllowEmpty}
}

// Driver returns [DriverSaltedSHA512].
func (h *SaltedSHA512Hasher) Driver() DriverName { return DriverSaltedSHA512 }

// AllowEmpty reports whether empty credentials pass through.
func (h *SaltedSHA512Hasher) AllowEmpty() bool { return h.allowEmpty }

// Make encodes password with a fresh 6-byte salt.
func (h *SaltedSHA512Hasher) Make(password string) (string, error) {
	if password == "" && !h.allowEmpty {
		return "", ErrEmptyPassword
	}
	return Encode(password)
}

// Check verifies password against stored. It never returns an error.
func (h *SaltedSHA512Hasher) Check(password, stored string) (bool, error) {
	return h.match(password, stored) != MatchNone, nil
}

func (h *SaltedSHA512Hasher) match(password, stored string) MatchKind {
	if !h.allowEmpty && (password == "" || stored == "") {
		return MatchNone
	}
	return Match(stored, password)
}

// NeedsRehash returns true for non-empty values without a salt segment.
// Credentials issued with the "System.Byte[]" defect cannot be told apart
// without the password; use [Manager.CheckAndRehash] for those.
func (h *SaltedSHA512Hasher) NeedsRehash(stored string) (bool, error) {
	return saltedForm(stored) == "plain", nil
}

// Info reports the form of stored and, for salted values, the decoded salt
// length.
func (h *SaltedSHA512Hasher) Info(stored string) (HashInfo, error) {
	form := saltedForm(stored)
	params := map[string]any{"form": form}
	if form == "salted" {
		salt := stored[:strings.Index(stored, Delimiter)]
		raw, err := base64.StdEncoding.DecodeString(salt)
		if err != nil {
			params["salt_len"] = -1
		} else {
			params["salt_len"] = len(raw)
		}
	}
	return HashInfo{Driver: DriverSaltedSHA512, Params: params}, nil
}

func saltedForm(stored string) string {
	switch {
	case stored == "":
		return "empty"
	case strings.Index(stored, Delimiter) > 0:
		return "salted"
	default:
		return "plain"
	}
}
