// Package cli implements the ocppcred sub-commands: encode, verify and
// inspect. Results go to stdout, prompts and logs to stderr.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hasbyte1/ocpp-credentials/credential"
	"github.com/hasbyte1/ocpp-credentials/internal/config"
	"github.com/hasbyte1/ocpp-credentials/internal/logging"
)

var (
	// ErrNoMatch is returned by verify when the candidate is rejected.
	ErrNoMatch = errors.New("password does not match")
	// ErrUsage is returned for a missing or unknown sub-command or flag.
	ErrUsage = errors.New("usage error")
	// ErrPasswordMismatch is returned when the confirmation prompt differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

const usage = `usage: ocppcred [-log-level L] [-driver D] [-allow-empty] <command> [flags]

commands:
  encode   [-stdin]             print the stored form of a password
  verify   -stored S [-stdin]   check a password against a stored value
  inspect  -stored S            describe a stored value
`

// App holds the wiring shared by all sub-commands.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	manager *credential.Manager

	stdin   *bufio.Reader
	stdinFD int
	stdout  io.Writer
	stderr  io.Writer

	fromStdin bool
}

// NewApp builds the credential manager described by cfg. stdinFD is the
// descriptor behind stdin, used for no-echo prompts.
func NewApp(cfg *config.Config, log logging.Logger, stdin io.Reader, stdinFD int, stdout, stderr io.Writer) (*App, error) {
	m, err := credential.NewDefaultManager()
	if err != nil {
		return nil, err
	}
	salted := credential.NewSaltedSHA512Hasher(credential.SaltedSHA512Options{AllowEmpty: cfg.AllowEmpty})
	if err := m.RegisterDriver(credential.DriverSaltedSHA512, salted); err != nil {
		return nil, err
	}
	if err := m.SetDefaultDriver(cfg.Driver); err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		log:     log,
		manager: m,
		stdin:   bufio.NewReader(stdin),
		stdinFD: stdinFD,
		stdout:  stdout,
		stderr:  stderr,
	}, nil
}

// Run executes the sub-command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return ErrUsage
	}

	name, rest := args[0], args[1:]
	log := a.log.With("cmd", name)
	log.Debug(ctx, "command started", "driver", a.cfg.Driver, "allow_empty", a.cfg.AllowEmpty)

	var err error
	switch name {
	case "encode":
		err = a.encode(ctx, log, rest)
	case "verify":
		err = a.verify(ctx, log, rest)
	case "inspect":
		err = a.inspect(ctx, log, rest)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		fmt.Fprint(a.stderr, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}
	if err != nil && !errors.Is(err, ErrNoMatch) {
		log.Error(ctx, "command failed", "error", err)
	}
	return err
}
