package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/1broseidon/hauntedos/internal/ipc"
	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/window"
)

func runApps(args []string) int {
	fs := flag.NewFlagSet("apps", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos apps")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List taskbar applications (and their window state when the daemon is running).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "apps takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().Taskbar()
	if err != nil {
		// Offline: the catalog alone.
		for _, app := range window.Apps() {
			fmt.Printf("%-16s %s\n", app.ID, app.Title)
		}
		return 0
	}
	printTaskbar(os.Stdout, data.Entries)
	return 0
}

func printTaskbar(w io.Writer, entries []shell.TaskbarEntry) {
	for _, e := range entries {
		state := "-"
		switch {
		case e.Open && e.Minimized:
			state = "minimized"
		case e.Active:
			state = "active"
		case e.Open:
			state = "open"
		}
		fmt.Fprintf(w, "%-16s %-16s %-9s %s\n", e.App.ID, e.App.Title, state, e.WindowID)
	}
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List open windows in paint order.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output windows and drawn frames as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printWindows(os.Stdout, data)
	return 0
}

func printWindows(w io.Writer, data *ipc.WindowsData) {
	if len(data.Windows) == 0 {
		fmt.Fprintln(w, "no open windows")
		return
	}
	for _, win := range data.Windows {
		mark := " "
		if win.ID == data.ActiveWindowID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-44s %-16s %-9s %5d,%-5d %4dx%-4d z=%d\n",
			mark, win.ID, win.AppID, win.Mode(), win.X, win.Y, win.Width, win.Height, win.ZIndex)
	}
}

func printWindow(data *ipc.WindowData) {
	if data == nil || data.Window == nil {
		return
	}
	printWindows(os.Stdout, &ipc.WindowsData{Windows: []window.Window{*data.Window}})
}

func runLaunch(args []string) int {
	fs := flag.NewFlagSet("launch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos launch <app>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open an application window, or restore and focus the existing one.")
		fmt.Fprintln(os.Stderr, "Run 'hauntedos apps' for application ids.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "launch requires <app>")
		fs.Usage()
		return 2
	}
	if _, err := window.ParseAppID(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().Launch(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(data)
	return 0
}

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hauntedos open <app> <title>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open an application window with a custom title. An already open")
		fmt.Fprintln(os.Stderr, "application is focused and keeps its title.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "open requires <app> <title>")
		fs.Usage()
		return 2
	}
	if _, err := window.ParseAppID(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().OpenWindow(fs.Arg(0), fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(data)
	return 0
}

var windowOpDescriptions = map[string]string{
	"close":    "Close a window. Focus is not handed to another window.",
	"focus":    "Focus a window and raise it above every other window.",
	"minimize": "Toggle a window's minimized state.",
	"maximize": "Toggle a window's maximized state.",
}

func runWindowOp(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hauntedos %s <id>\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, windowOpDescriptions[name])
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires <id>\n", name)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	id := fs.Arg(0)

	var data *ipc.WindowData
	var err error
	switch name {
	case "close":
		err = client.CloseWindow(id)
	case "focus":
		data, err = client.FocusWindow(id)
	case "minimize":
		data, err = client.MinimizeWindow(id)
	case "maximize":
		data, err = client.MaximizeWindow(id)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(data)
	return 0
}

// parseInts converts positional arguments. Flag parsing is skipped for
// these commands so negative values are not mistaken for flags.
func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = n
	}
	return out, nil
}

func runDrag(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage: hauntedos drag <id> <dx> <dy>")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Drag a window by its header. dx and dy may be negative. The result is")
		fmt.Fprintln(w, "clamped so the window stays reachable; maximized windows do not move.")
	}
	if isHelpArg(args) {
		usage(os.Stdout)
		return 0
	}
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "drag requires <id> <dx> <dy>")
		usage(os.Stderr)
		return 2
	}
	delta, err := parseInts(args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().DragWindow(args[0], delta[0], delta[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(data)
	return 0
}

func runViewport(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage: hauntedos viewport <width> <height>")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Report a new viewport size in pixels. Visible windows are re-laid out.")
	}
	if isHelpArg(args) {
		usage(os.Stdout)
		return 0
	}
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "viewport requires <width> <height>")
		usage(os.Stderr)
		return 2
	}
	size, err := parseInts(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if size[0] <= 0 || size[1] <= 0 {
		fmt.Fprintln(os.Stderr, "width and height must be positive")
		return 2
	}

	data, err := ipc.NewClient().ResizeViewport(size[0], size[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("viewport:   %s\n", data.Viewport)
	fmt.Printf("breakpoint: %s\n", data.Breakpoint)
	fmt.Printf("changed:    %v\n", data.Changed)
	return 0
}
