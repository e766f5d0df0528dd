package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/hasbyte1/ocpp-credentials/credential"
	"github.com/hasbyte1/ocpp-credentials/internal/logging"
)

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

// encode prints the stored form of one password, asking twice on a terminal.
func (a *App) encode(ctx context.Context, log logging.Logger, args []string) error {
	fs := a.flagSet("encode")
	fs.BoolVar(&a.fromStdin, "stdin", false, "read the password from the first line of stdin")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	pw, err := a.readSecret("Password: ")
	if err != nil {
		return err
	}
	if a.interactive() {
		again, err := a.readSecret("Repeat password: ")
		if err != nil {
			return err
		}
		if again != pw {
			return ErrPasswordMismatch
		}
	}

	stored, err := a.manager.Make(pw)
	if err != nil {
		return err
	}
	log.Info(ctx, "credential encoded", "driver", a.manager.DefaultDriver())
	fmt.Fprintln(a.stdout, stored)
	return nil
}

// verify checks one password against -stored. A legacy match also prints a
// re-encoded value to put in place of the old one.
func (a *App) verify(ctx context.Context, log logging.Logger, args []string) error {
	fs := a.flagSet("verify")
	stored := fs.String("stored", "", "stored credential to check against")
	fs.BoolVar(&a.fromStdin, "stdin", false, "read the password from the first line of stdin")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if !isSet(fs, "stored") {
		return fmt.Errorf("%w: verify needs -stored", ErrUsage)
	}

	pw, err := a.readSecret("Password: ")
	if err != nil {
		return err
	}
	ok, fresh, err := a.manager.CheckAndRehash(pw, *stored)
	if err != nil {
		return err
	}
	driver := credential.DetectDriver(*stored)
	if !ok {
		log.Info(ctx, "verification failed", "driver", driver)
		fmt.Fprintln(a.stdout, "no match")
		return ErrNoMatch
	}

	how := string(driver)
	if driver == credential.DriverSaltedSHA512 {
		how = credential.Match(*stored, pw).String()
	}
	fmt.Fprintf(a.stdout, "match (%s)\n", how)
	if fresh != "" {
		log.Warn(ctx, "stored credential should be replaced", "driver", driver, "match", how)
		fmt.Fprintf(a.stdout, "re-encoded: %s\n", fresh)
	}
	return nil
}

// inspect prints what can be learned from a stored value without a password.
func (a *App) inspect(ctx context.Context, log logging.Logger, args []string) error {
	fs := a.flagSet("inspect")
	stored := fs.String("stored", "", "stored credential to describe")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if !isSet(fs, "stored") {
		return fmt.Errorf("%w: inspect needs -stored", ErrUsage)
	}

	info, err := a.manager.Info(*stored)
	if err != nil {
		return err
	}
	needs, err := a.manager.NeedsRehash(*stored)
	if err != nil {
		return err
	}
	log.Debug(ctx, "credential inspected", "driver", info.Driver)

	fmt.Fprintf(a.stdout, "driver: %s\n", info.Driver)
	keys := make([]string, 0, len(info.Params))
	for k := range info.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "%s: %v\n", k, info.Params[k])
	}
	fmt.Fprintf(a.stdout, "needs rehash: %t\n", needs)
	return nil
}

// isSet reports whether the flag was given, so "-stored ''" is accepted.
func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
