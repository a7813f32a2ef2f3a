package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/hauntedos/internal/daemon"
	"github.com/1broseidon/hauntedos/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/hauntedos/config.yaml)")
	logFile := fs.String("log", "", "Write logs to this file (default: discard)")

	if isHelpArg(args) {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos tui [--path PATH] [--log FILE]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the desktop in this terminal. Window state is shared with the")
		fmt.Fprintln(os.Stderr, "configured storage, so the desktop survives restarts.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  1-5       Launch an application")
		fmt.Fprintln(os.Stderr, "  tab       Cycle focus")
		fmt.Fprintln(os.Stderr, "  m/x/c     Minimize, maximize, close the active window")
		fmt.Fprintln(os.Stderr, "  arrows    Drag the active window by one cell")
		fmt.Fprintln(os.Stderr, "  ?         Toggle full help")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		logOut = f
	}

	rt, err := daemon.Build(cfg, daemon.Options{Logger: cfg.Logger(logOut), Bell: os.Stdout})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	if err := tui.Run(rt.Shell); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
