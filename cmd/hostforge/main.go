// Package main is the entry point for the hostforge CLI.
//
// hostforge provisions a cloud VM on Hetzner Cloud and turns it into a
// ready-to-use development host: hardened SSH, firewall, swap, and an
// optional toolchain (mise, Node.js, Python, agent CLIs, Docker). The same
// binary runs in two modes: on the workstation it creates the server, then
// ships itself to the new host and runs the setup pipeline there.
//
// Commands: up, setup, init, doctor, version, completion.
//
// For detailed usage information, run:
//
//	hostforge --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/imamik/hostforge/cmd/hostforge/commands"
	sshplatform "github.com/imamik/hostforge/internal/platform/ssh"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// The remote setup run's exit status passes through unchanged so
		// scripts can distinguish a fatal pipeline step from a local error.
		var exitErr *sshplatform.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Status)
		}
		os.Exit(1)
	}
}
