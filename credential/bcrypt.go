package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used by [DefaultBcryptOptions].
const DefaultBcryptCost = 12

// BcryptOptions configures a [BcryptHasher].
type BcryptOptions struct {
	// Cost is the bcrypt work factor, in [bcrypt.MinCost, bcrypt.MaxCost].
	Cost int
}

// DefaultBcryptOptions returns BcryptOptions with [DefaultBcryptCost].
func DefaultBcryptOptions() BcryptOptions {
	return BcryptOptions{Cost: DefaultBcryptCost}
}

// BcryptHasher stores credentials in bcrypt's Modular Crypt Format.
//
// The management backend only reads sha512-salted values, so this driver is
// meant for deployments that re-enrol users onto a slower KDF.
// bcrypt ignores password bytes past the 72nd.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns [ErrInvalidOption] if Cost is out of range.
func NewBcryptHasher(opts BcryptOptions) (*BcryptHasher, error) {
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d must be in [%d, %d]",
			ErrInvalidOption, opts.Cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: opts.Cost}, nil
}

// Driver returns [DriverBcrypt].
func (h *BcryptHasher) Driver() DriverName { return DriverBcrypt }

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Make hashes password with a fresh salt generated by bcrypt itself.
func (h *BcryptHasher) Make(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("credential: bcrypt: %w", err)
	}
	return string(out), nil
}

// Check returns (false, nil) on mismatch.
func (h *BcryptHasher) Check(password, stored string) (bool, error) {
	if DetectDriver(stored) != DriverBcrypt {
		return false, fmt.Errorf("%w: not a bcrypt value", ErrAlgorithmMismatch)
	}
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

// NeedsRehash reports whether the stored cost differs from the configured one.
func (h *BcryptHasher) NeedsRehash(stored string) (bool, error) {
	cost, err := h.storedCost(stored)
	if err != nil {
		return false, err
	}
	return cost != h.cost, nil
}

// Info returns the stored work factor as Params["cost"].
func (h *BcryptHasher) Info(stored string) (HashInfo, error) {
	cost, err := h.storedCost(stored)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{Driver: DriverBcrypt, Params: map[string]any{"cost": cost}}, nil
}

func (h *BcryptHasher) storedCost(stored string) (int, error) {
	if DetectDriver(stored) != DriverBcrypt {
		return 0, fmt.Errorf("%w: not a bcrypt value", ErrAlgorithmMismatch)
	}
	cost, err := bcrypt.Cost([]byte(stored))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	return cost, nil
}
