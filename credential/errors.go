package credential

import "errors"

// Sentinel errors returned by credential drivers and the [Manager].
//
// Use [errors.Is] for comparisons:
//
//	_, err := m.Make(password)
//	if errors.Is(err, credential.ErrEmptyPassword) {
//	    // reject the enrollment form
//	}
//
// [Verify] and [Match] never return errors; a corrupt stored value is
// reported the same way as a wrong password.
var (
	// ErrInvalidHash is returned when a bcrypt or Argon2id string cannot be
	// parsed because of missing fields or invalid encoding.
	ErrInvalidHash = errors.New("credential: invalid or unrecognised hash string")

	// ErrInvalidOption is returned when a driver constructor receives a
	// parameter outside its allowed range.
	ErrInvalidOption = errors.New("credential: invalid option value")

	// ErrDriverNotFound is returned when the requested or detected driver has
	// not been registered with the [Manager].
	ErrDriverNotFound = errors.New("credential: driver not found")

	// ErrEmptyDriverName is returned by [Manager.RegisterDriver] for "".
	ErrEmptyDriverName = errors.New("credential: driver name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterDriver] for a nil [Hasher].
	ErrNilHasher = errors.New("credential: hasher must not be nil")

	// ErrAlgorithmMismatch is returned by a driver handed a stored value that
	// another driver produced.
	ErrAlgorithmMismatch = errors.New("credential: hash was produced by a different algorithm")

	// ErrEmptyPassword is returned by drivers configured to refuse empty
	// credentials.
	ErrEmptyPassword = errors.New("credential: empty password not allowed")

	// ErrRandomSource is returned when no salt could be read from the random
	// source. No credential is produced in that case.
	ErrRandomSource = errors.New("credential: random source failed")
)
