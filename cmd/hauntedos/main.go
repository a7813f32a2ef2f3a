package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/hauntedos/internal/config"
	"github.com/1broseidon/hauntedos/internal/daemon"
	"github.com/1broseidon/hauntedos/internal/ipc"
	"github.com/1broseidon/hauntedos/internal/platform"
	"github.com/1broseidon/hauntedos/internal/runtimepath"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "apps":
		os.Exit(runApps(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "launch":
		os.Exit(runLaunch(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close", "focus", "minimize", "maximize":
		os.Exit(runWindowOp(os.Args[1], os.Args[2:]))
	case "drag":
		os.Exit(runDrag(os.Args[2:]))
	case "viewport":
		os.Exit(runViewport(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: hauntedos <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the desktop daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  apps                List taskbar applications")
	fmt.Fprintln(w, "  windows             List open windows")
	fmt.Fprintln(w, "  launch <app>        Click an application's taskbar button")
	fmt.Fprintln(w, "  open <app> <title>  Open or focus an application window")
	fmt.Fprintln(w, "  close <id>          Close a window")
	fmt.Fprintln(w, "  focus <id>          Focus and raise a window")
	fmt.Fprintln(w, "  minimize <id>       Toggle a window's minimized state")
	fmt.Fprintln(w, "  maximize <id>       Toggle a window's maximized state")
	fmt.Fprintln(w, "  drag <id> <dx> <dy> Drag a window by its header")
	fmt.Fprintln(w, "  viewport <w> <h>    Report a new viewport size")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the terminal desktop")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'hauntedos <command> --help' for command-specific options.")
}

func isHelpArg(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// loadConfig reads the config at path, or at the default location when
// path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return config.LoadFromPath(path)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/hauntedos/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the desktop in the foreground and serve IPC requests.")
		fmt.Fprintln(os.Stderr, "SIGHUP reloads the configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	// Load configuration
	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	logger := cfg.Logger(os.Stderr)
	log.Printf("Configuration loaded (viewport: %s, storage: %s)", cfg.InitialViewport(), cfg.Storage.Backend)

	// Assemble the desktop
	rt, err := daemon.Build(cfg, daemon.Options{Logger: logger})
	if err != nil {
		log.Fatalf("Failed to start desktop: %v", err)
	}
	defer rt.Close()

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket path: %v", err)
	}
	reload := func() (*config.Config, error) {
		r, err := loadConfig(*path)
		if err != nil {
			return nil, err
		}
		return r.Config, nil
	}
	ipcServer := ipc.NewServer(socketPath, cfg, reload, rt.Shell, reloadChan)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Follow the platform viewport
	source, release, err := daemon.ViewportSource(cfg)
	if err != nil {
		log.Printf("Warning: viewport source %q unavailable, using static viewport: %v", cfg.ViewportSource.Type, err)
		source, release = platform.Static(cfg.InitialViewport()), func() {}
	}
	defer release()

	watcher := daemon.NewViewportWatcher(daemon.WatcherConfig{
		Interval: cfg.ViewportSource.PollInterval,
		Logger:   logger.With("component", "watcher"),
	}, source, rt.Shell)
	watcher.CheckNow()

	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	defer watcherCancel()
	go watcher.Run(watcherCtx)

	log.Println("hauntedos daemon started successfully")

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := reload()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				ipcServer.UpdateConfig(newCfg)
				rt.Reconfigure(newCfg, nil)
				log.Println("Config reloaded successfully")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down hauntedos daemon...")
				return 0
			}

		case <-reloadChan:
			// Config was reloaded via IPC
			rt.Reconfigure(ipcServer.GetConfig(), nil)
		}
	}
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	active := status.ActiveWindowID
	if active == "" {
		active = "-"
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("viewport:       %s (%s)\n", status.Viewport, status.Breakpoint)
	fmt.Printf("windows:        %d (%d visible)\n", status.Windows, status.Visible)
	fmt.Printf("active_window:  %s\n", active)
	fmt.Printf("next_z_index:   %d\n", status.NextZIndex)
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running daemon to re-read its configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}
