package credential

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id defaults. They exceed OWASP ASVS level 2 (m≥19 MiB, t≥2, p≥1).
const (
	DefaultArgon2Memory  uint32 = 64 * 1024 // KiB
	DefaultArgon2Time    uint32 = 3
	DefaultArgon2Threads uint8  = 2
	DefaultArgon2KeyLen  uint32 = 32
	DefaultArgon2SaltLen uint32 = 16
)

// Argon2Options configures an [Argon2idHasher]. The parameters are written
// into every PHC string, so changing them only affects new credentials.
type Argon2Options struct {
	Memory  uint32 // KiB, at least 8*Threads
	Time    uint32 // passes, at least 1
	Threads uint8  // at least 1
	KeyLen  uint32 // bytes, at least 4
	SaltLen uint32 // bytes, at least 8
}

// DefaultArgon2Options returns the recommended Argon2id parameters.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Memory:  DefaultArgon2Memory,
		Time:    DefaultArgon2Time,
		Threads: DefaultArgon2Threads,
		KeyLen:  DefaultArgon2KeyLen,
		SaltLen: DefaultArgon2SaltLen,
	}
}

func (o Argon2Options) validate() error {
	switch {
	case o.Time < 1:
		return fmt.Errorf("%w: argon2 time must be ≥ 1, got %d", ErrInvalidOption, o.Time)
	case o.Threads < 1:
		return fmt.Errorf("%w: argon2 threads must be ≥ 1, got %d", ErrInvalidOption, o.Threads)
	case o.Memory < 8*uint32(o.Threads):
		return fmt.Errorf("%w: argon2 memory %d KiB must be ≥ 8×threads", ErrInvalidOption, o.Memory)
	case o.KeyLen < 4:
		return fmt.Errorf("%w: argon2 key_len must be ≥ 4, got %d", ErrInvalidOption, o.KeyLen)
	case o.SaltLen < 8:
		return fmt.Errorf("%w: argon2 salt_len must be ≥ 8, got %d", ErrInvalidOption, o.SaltLen)
	}
	return nil
}

// phc is a decoded "$argon2id$v=19$m=…,t=…,p=…$<salt>$<hash>" string.
type phc struct {
	version uint32
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (p *phc) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		DriverArgon2id, p.version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.key))
}

func parsePHC(stored string) (*phc, error) {
	if DetectDriver(stored) != DriverArgon2id {
		return nil, fmt.Errorf("%w: not an argon2id value", ErrAlgorithmMismatch)
	}
	// The leading "$" yields an empty first segment.
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 5 PHC segments, got %d", ErrInvalidHash, len(parts)-1)
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, fmt.Errorf("%w: missing version in %q", ErrInvalidHash, parts[2])
	}
	v, err := strconv.ParseUint(version, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrInvalidHash, err)
	}

	p := &phc{version: uint32(v)}
	seen := map[string]bool{}
	for _, kv := range strings.Split(parts[3], ",") {
		k, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("%w: malformed param %q", ErrInvalidHash, kv)
		}
		if seen[k] {
			return nil, fmt.Errorf("%w: duplicate param %q", ErrInvalidHash, k)
		}
		seen[k] = true
		var bits int
		switch k {
		case "m", "t":
			bits = 32
		case "p":
			bits = 8
		default:
			return nil, fmt.Errorf("%w: unknown param %q", ErrInvalidHash, k)
		}
		n, err := strconv.ParseUint(val, 10, bits)
		if err != nil {
			return nil, fmt.Errorf("%w: param %q: %v", ErrInvalidHash, k, err)
		}
		switch k {
		case "m":
			p.memory = uint32(n)
		case "t":
			p.time = uint32(n)
		case "p":
			p.threads = uint8(n)
		}
	}
	if len(seen) != 3 {
		return nil, fmt.Errorf("%w: need m, t and p in %q", ErrInvalidHash, parts[3])
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}
	if len(p.key) < 4 {
		return nil, fmt.Errorf("%w: key shorter than 4 bytes", ErrInvalidHash)
	}
	return p, nil
}

// Argon2idHasher stores credentials as Argon2id PHC strings.
//
// Like [BcryptHasher] it serves deployments that move users off the
// sha512-salted format. It is immutable after construction.
type Argon2idHasher struct {
	opts Argon2Options
}

// NewArgon2idHasher returns [ErrInvalidOption] for out-of-range options.
func NewArgon2idHasher(opts Argon2Options) (*Argon2idHasher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Argon2idHasher{opts: opts}, nil
}

// Driver returns [DriverArgon2id].
func (h *Argon2idHasher) Driver() DriverName { return DriverArgon2id }

// Options returns the configured parameters.
func (h *Argon2idHasher) Options() Argon2Options { return h.opts }

// Make derives a key from password with a fresh salt read from the same
// random source as [Encode].
func (h *Argon2idHasher) Make(password string) (string, error) {
	salt := make([]byte, h.opts.SaltLen)
	if _, err := io.ReadFull(saltSource, salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	p := &phc{
		version: argon2.Version,
		memory:  h.opts.Memory,
		time:    h.opts.Time,
		threads: h.opts.Threads,
		salt:    salt,
	}
	p.key = argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, h.opts.KeyLen)
	return p.String(), nil
}

// Check reads the cost parameters from stored, not from the hasher.
func (h *Argon2idHasher) Check(password, stored string) (bool, error) {
	p, err := parsePHC(stored)
	if err != nil {
		return false, err
	}
	if p.threads == 0 || p.time == 0 {
		return false, fmt.Errorf("%w: zero time or threads", ErrInvalidHash)
	}
	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

// NeedsRehash reports whether any stored parameter differs from the options.
func (h *Argon2idHasher) NeedsRehash(stored string) (bool, error) {
	p, err := parsePHC(stored)
	if err != nil {
		return false, err
	}
	return p.memory != h.opts.Memory ||
		p.time != h.opts.Time ||
		p.threads != h.opts.Threads ||
		uint32(len(p.key)) != h.opts.KeyLen, nil
}

// Info returns version, memory, time, threads and key_len.
func (h *Argon2idHasher) Info(stored string) (HashInfo, error) {
	p, err := parsePHC(stored)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: DriverArgon2id,
		Params: map[string]any{
			"version": int(p.version),
			"memory":  p.memory,
			"time":    p.time,
			"threads": p.threads,
			"key_len": uint32(len(p.key)),
		},
	}, nil
}
