package credential

import "io"

// SetSaltSource swaps the random source used for new salts and returns a
// func restoring the previous one. Tests using it must not run in parallel.
func SetSaltSource(r io.Reader) (restore func()) {
	prev := saltSource
	saltSource = r
	return func() { saltSource = prev }
}
