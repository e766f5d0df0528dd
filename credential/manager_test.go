package credential_test

import (
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hasbyte1/ocpp-credentials/credential"
)

// newTestManager registers all drivers with fast options; the default stays
// sha512-salted.
func newTestManager(tb testing.TB) *credential.Manager {
	tb.Helper()
	m := credential.NewManager(credential.DriverSaltedSHA512)
	bc, _ := credential.NewBcryptHasher(credential.BcryptOptions{Cost: bcrypt.MinCost})
	a2, _ := credential.NewArgon2idHasher(fastArgon2Opts())
	_ = m.RegisterDriver(credential.DriverSaltedSHA512, credential.NewSaltedSHA512Hasher(credential.DefaultSaltedSHA512Options()))
	_ = m.RegisterDriver(credential.DriverBcrypt, bc)
	_ = m.RegisterDriver(credential.DriverArgon2id, a2)
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Registry
// ──────────────────────────────────────────────────────────────────────────────

func TestNewDefaultManager(t *testing.T) {
	m, err := credential.NewDefaultManager()
	if err != nil {
		t.Fatalf("NewDefaultManager: %v", err)
	}
	if m.DefaultDriver() != credential.DriverSaltedSHA512 {
		t.Errorf("default driver = %q, want sha512-salted", m.DefaultDriver())
	}
	for _, d := range []credential.DriverName{credential.DriverSaltedSHA512, credential.DriverBcrypt, credential.DriverArgon2id} {
		if !m.HasDriver(d) {
			t.Errorf("driver %q not registered", d)
		}
	}
}

func TestManager_RegisterDriver_Errors(t *testing.T) {
	m := credential.NewManager(credential.DriverSaltedSHA512)
	if err := m.RegisterDriver("", strictSaltedHasher()); !errors.Is(err, credential.ErrEmptyDriverName) {
		t.Errorf("expected ErrEmptyDriverName, got %v", err)
	}
	if err := m.RegisterDriver("custom", nil); !errors.Is(err, credential.ErrNilHasher) {
		t.Errorf("expected ErrNilHasher, got %v", err)
	}
}

func TestManager_RegisterDriver_Replaces(t *testing.T) {
	m := newTestManager(t)
	_ = m.RegisterDriver(credential.DriverSaltedSHA512, strictSaltedHasher())
	if _, err := m.Make(""); !errors.Is(err, credential.ErrEmptyPassword) {
		t.Errorf("replaced driver should refuse empty passwords, got %v", err)
	}
}

func TestManager_SetDefaultDriver(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetDefaultDriver("not-registered"); !errors.Is(err, credential.ErrDriverNotFound) {
		t.Errorf("expected ErrDriverNotFound, got %v", err)
	}
	if err := m.SetDefaultDriver(credential.DriverBcrypt); err != nil {
		t.Fatalf("SetDefaultDriver: %v", err)
	}
	stored, _ := m.Make("pw")
	if credential.DetectDriver(stored) != credential.DriverBcrypt {
		t.Errorf("Make after switching default produced %q", stored)
	}
}

func TestManager_NoDrivers(t *testing.T) {
	m := credential.NewManager(credential.DriverSaltedSHA512)
	if _, err := m.Make("pw"); !errors.Is(err, credential.ErrDriverNotFound) {
		t.Errorf("Make: expected ErrDriverNotFound, got %v", err)
	}
	if _, err := m.Check("pw", "stored"); !errors.Is(err, credential.ErrDriverNotFound) {
		t.Errorf("Check: expected ErrDriverNotFound, got %v", err)
	}
	if _, err := m.Info("stored"); !errors.Is(err, credential.ErrDriverNotFound) {
		t.Errorf("Info: expected ErrDriverNotFound, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Make / Check / NeedsRehash / Info
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_Check_DetectsDriver(t *testing.T) {
	m := newTestManager(t)
	salted, _ := m.Make("pw")
	bc, _ := m.Driver(credential.DriverBcrypt)
	bcStored, _ := bc.Make("pw")
	a2, _ := m.Driver(credential.DriverArgon2id)
	a2Stored, _ := a2.Make("pw")

	for _, stored := range []string{salted, bcStored, a2Stored, "pw"} {
		ok, err := m.Check("pw", stored)
		if err != nil || !ok {
			t.Errorf("Check(pw, %q): ok=%v err=%v", stored, ok, err)
		}
		ok, err = m.Check("wrong", stored)
		if err != nil || ok {
			t.Errorf("Check(wrong, %q): ok=%v err=%v", stored, ok, err)
		}
	}
}

func TestManager_NeedsRehash(t *testing.T) {
	m := newTestManager(t)
	salted, _ := m.Make("pw")
	bc, _ := m.Driver(credential.DriverBcrypt)
	bcStored, _ := bc.Make("pw")

	tests := []struct {
		name   string
		stored string
		want   bool
	}{
		{"current default", salted, false},
		{"empty", "", false},
		{"plain legacy", "plainvalue", true},
		{"other driver", bcStored, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.NeedsRehash(tt.stored)
			if err != nil || got != tt.want {
				t.Errorf("NeedsRehash = %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestManager_Info(t *testing.T) {
	m := newTestManager(t)
	bc, _ := m.Driver(credential.DriverBcrypt)
	stored, _ := bc.Make("pw")
	info, err := m.Info(stored)
	if err != nil || info.Driver != credential.DriverBcrypt {
		t.Fatalf("Info = %+v, %v", info, err)
	}
	info, err = m.Info("plainvalue")
	if err != nil || info.Params["form"] != "plain" {
		t.Fatalf("Info(plain) = %+v, %v", info, err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckAndRehash
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_CheckAndRehash(t *testing.T) {
	m := newTestManager(t)
	salted, _ := m.Make("pw")
	bc, _ := m.Driver(credential.DriverBcrypt)
	bcStored, _ := bc.Make("pw")

	tests := []struct {
		name      string
		stored    string
		password  string
		wantOK    bool
		wantFresh bool
	}{
		{"current", salted, "pw", true, false},
		{"wrong password", salted, "nope", false, false},
		{"empty", "", "", true, false},
		{"plain legacy", "pw", "pw", true, true},
		{"system byte salt", "AAECAwQF*" + sha512Text("System.Byte[]", "pw"), "pw", true, true},
		{"other driver", bcStored, "pw", true, true},
		{"other driver wrong", bcStored, "nope", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, fresh, err := m.CheckAndRehash(tt.password, tt.stored)
			if err != nil {
				t.Fatalf("CheckAndRehash: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if (fresh != "") != tt.wantFresh {
				t.Fatalf("fresh = %q, want fresh value: %v", fresh, tt.wantFresh)
			}
			if fresh == "" {
				return
			}
			if kind := credential.Match(fresh, tt.password); kind != credential.MatchSalted {
				t.Errorf("fresh value matched as %v, want salted", kind)
			}
		})
	}
}

func TestManager_CheckAndRehash_InvalidHash(t *testing.T) {
	m := newTestManager(t)
	if _, _, err := m.CheckAndRehash("pw", "$2a$04$short"); !errors.Is(err, credential.ErrInvalidHash) {
		t.Errorf("expected ErrInvalidHash, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrency
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_ConcurrentMakeCheck(t *testing.T) {
	m := newTestManager(t)
	const goroutines = 20
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, err := m.Make("concurrent-pw")
			if err != nil {
				errs <- err
				return
			}
			ok, err := m.Check("concurrent-pw", stored)
			if err != nil {
				errs <- err
				return
			}
			if !ok {
				errs <- errors.New("Check returned false for correct password")
			}
		}()
	}
	// Re-registration must not race with readers.
	for i := 0; i < 10; i++ {
		_ = m.RegisterDriver(credential.DriverSaltedSHA512, credential.NewSaltedSHA512Hasher(credential.DefaultSaltedSHA512Options()))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
