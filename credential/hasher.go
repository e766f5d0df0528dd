package credential

import "strings"

// DriverName identifies the algorithm that produced a stored credential.
type DriverName string

const (
	// DriverSaltedSHA512 is the "<salt>*<sha512>" format read by the
	// management backend. It also owns empty, plain and malformed values.
	DriverSaltedSHA512 DriverName = "sha512-salted"
	// DriverBcrypt selects the bcrypt driver.
	DriverBcrypt DriverName = "bcrypt"
	// DriverArgon2id selects the Argon2id driver.
	DriverArgon2id DriverName = "argon2id"
)

// Hasher is satisfied by every credential driver.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Hasher interface {
	// Make returns the storable form of password. Two calls with the same
	// password return different values.
	Make(password string) (string, error)

	// Check reports whether password matches stored. A mismatch is
	// (false, nil); an error means stored belongs to another driver or is
	// structurally invalid for this one.
	Check(password, stored string) (bool, error)

	// NeedsRehash reports whether stored should be replaced by a fresh
	// [Hasher.Make] result on the next successful login.
	NeedsRehash(stored string) (bool, error)

	// Info extracts metadata from stored without verifying anything.
	Info(stored string) (HashInfo, error)

	// Driver returns the DriverName implemented by this hasher.
	Driver() DriverName
}

// HashInfo carries metadata parsed from a stored credential.
type HashInfo struct {
	// Driver is the algorithm that produced the value.
	Driver DriverName

	// Params holds driver-specific fields.
	//
	// For sha512-salted:
	//   "form"     → string ("empty", "plain" or "salted")
	//   "salt_len" → int    (decoded salt bytes, -1 if not base64; salted only)
	//
	// For bcrypt:
	//   "cost" → int
	//
	// For argon2id:
	//   "version" → int
	//   "memory"  → uint32 (KiB)
	//   "time"    → uint32
	//   "threads" → uint8
	//   "key_len" → uint32
	Params map[string]any
}

// DetectDriver returns the driver that owns stored, judged by its prefix.
// Values with no recognised KDF prefix belong to [DriverSaltedSHA512]:
// its salt text is base64 and can never start with "$".
func DetectDriver(stored string) DriverName {
	switch {
	case strings.HasPrefix(stored, "$argon2id$"):
		return DriverArgon2id
	// bcrypt hashes start with $2a$, $2b$, or $2y$
	case strings.HasPrefix(stored, "$2a$"),
		strings.HasPrefix(stored, "$2b$"),
		strings.HasPrefix(stored, "$2y$"):
		return DriverBcrypt
	default:
		return DriverSaltedSHA512
	}
}
