// Command ocppcred encodes, verifies and inspects the stored user passwords
// of the OCPP management backend.
//
//	$ ocppcred encode
//	Password:
//	Repeat password:
//	q3Zr1H0x*hK7b…==
//
//	$ echo 'Sup3rSecret!' | ocppcred verify -stored 'q3Zr1H0x*hK7b…=='
//	match (salted)
//
// Exit status is 0 on success, 1 when verify rejects the password and 2 on
// any other error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hasbyte1/ocpp-credentials/internal/cli"
	"github.com/hasbyte1/ocpp-credentials/internal/config"
	"github.com/hasbyte1/ocpp-credentials/internal/logging"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cfg, rest, err := config.Load(args, os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocppcred: %v\n", err)
		return 2
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocppcred: %v\n", err)
		return 2
	}

	app, err := cli.NewApp(cfg, log, os.Stdin, int(os.Stdin.Fd()), os.Stdout, os.Stderr)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		return 2
	}

	switch err := app.Run(ctx, rest); {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrNoMatch):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "ocppcred: %v\n", err)
		return 2
	}
}
