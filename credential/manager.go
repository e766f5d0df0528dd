package credential

import (
	"fmt"
	"sync"
)

// Manager is a registry of named [Hasher] drivers. New credentials are made
// with the default driver; stored ones are checked with whichever driver
// [DetectDriver] assigns them to, so several formats can coexist in one
// user table.
//
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	drivers map[DriverName]Hasher
	def     DriverName
}

// NewManager creates an empty Manager. Register drivers before use.
func NewManager(defaultDriver DriverName) *Manager {
	return &Manager{
		drivers: make(map[DriverName]Hasher),
		def:     defaultDriver,
	}
}

// NewDefaultManager returns a Manager that makes sha512-salted credentials
// (empty pass-through kept) and can also check bcrypt and Argon2id ones.
func NewDefaultManager() (*Manager, error) {
	bc, err := NewBcryptHasher(DefaultBcryptOptions())
	if err != nil {
		return nil, fmt.Errorf("credential: default bcrypt driver: %w", err)
	}
	a2, err := NewArgon2idHasher(DefaultArgon2Options())
	if err != nil {
		return nil, fmt.Errorf("credential: default argon2id driver: %w", err)
	}

	m := NewManager(DriverSaltedSHA512)
	_ = m.RegisterDriver(DriverSaltedSHA512, NewSaltedSHA512Hasher(DefaultSaltedSHA512Options()))
	_ = m.RegisterDriver(DriverBcrypt, bc)
	_ = m.RegisterDriver(DriverArgon2id, a2)
	return m, nil
}

// RegisterDriver adds or replaces the hasher registered under name.
func (m *Manager) RegisterDriver(name DriverName, h Hasher) error {
	if name == "" {
		return ErrEmptyDriverName
	}
	if h == nil {
		return ErrNilHasher
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[name] = h
	return nil
}

// Driver returns the hasher registered under name.
func (m *Manager) Driver(name DriverName) (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return h, nil
}

// SetDefaultDriver changes the driver used by [Manager.Make]. The driver
// must already be registered.
func (m *Manager) SetDefaultDriver(name DriverName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[name]; !ok {
		return fmt.Errorf("%w: %q is not registered", ErrDriverNotFound, name)
	}
	m.def = name
	return nil
}

// DefaultDriver returns the name of the current default driver.
func (m *Manager) DefaultDriver() DriverName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// HasDriver reports whether name is registered.
func (m *Manager) HasDriver(name DriverName) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.drivers[name]
	return ok
}

// Make creates a new stored credential with the default driver.
func (m *Manager) Make(password string) (string, error) {
	h, err := m.defaultHasher()
	if err != nil {
		return "", err
	}
	return h.Make(password)
}

// Check verifies password against stored using the detected driver.
func (m *Manager) Check(password, stored string) (bool, error) {
	h, err := m.Driver(DetectDriver(stored))
	if err != nil {
		return false, err
	}
	return h.Check(password, stored)
}

// NeedsRehash reports whether stored was made by a driver other than the
// default, or the owning driver wants it refreshed.
func (m *Manager) NeedsRehash(stored string) (bool, error) {
	detected := DetectDriver(stored)
	if detected != m.DefaultDriver() {
		return true, nil
	}
	h, err := m.Driver(detected)
	if err != nil {
		return false, err
	}
	return h.NeedsRehash(stored)
}

// Info returns the metadata reported by the detected driver.
func (m *Manager) Info(stored string) (HashInfo, error) {
	h, err := m.Driver(DetectDriver(stored))
	if err != nil {
		return HashInfo{}, err
	}
	return h.Info(stored)
}

// CheckAndRehash verifies password against stored. On success it also
// returns a fresh credential when stored should be replaced: it was accepted
// through a legacy path (plain text or the "System.Byte[]" salt), or
// [Manager.NeedsRehash] says so. fresh is "" when nothing needs persisting.
//
// Legacy values keep verifying either way; whether to persist fresh is
// the caller's decision.
func (m *Manager) CheckAndRehash(password, stored string) (ok bool, fresh string, err error) {
	detected := DetectDriver(stored)
	h, err := m.Driver(detected)
	if err != nil {
		return false, "", err
	}

	legacy := false
	if s, isSalted := h.(*SaltedSHA512Hasher); isSalted {
		kind := s.match(password, stored)
		ok, legacy = kind != MatchNone, kind.Legacy()
	} else if ok, err = h.Check(password, stored); err != nil {
		return false, "", err
	}
	if !ok {
		return false, "", nil
	}

	if !legacy {
		needs, err := m.NeedsRehash(stored)
		if err != nil || !needs {
			return true, "", err
		}
	}
	fresh, err = m.Make(password)
	if err != nil {
		return true, "", err
	}
	return true, fresh, nil
}

func (m *Manager) defaultHasher() (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[m.def]
	if !ok {
		return nil, fmt.Errorf("%w: default driver %q has not been registered",
			ErrDriverNotFound, m.def)
	}
	return h, nil
}
