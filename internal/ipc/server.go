package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/hauntedos/internal/config"
	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

// Desktop is the shell surface the server drives.
type Desktop interface {
	Launch(appID window.AppID) (window.Window, error)
	Open(appID window.AppID, title string) (window.Window, error)
	Close(id string) error
	Minimize(id string) error
	ToggleMaximize(id string) error
	Focus(id string) error
	Pointer(id string, ev shell.Event) error
	Drag(id string, dx, dy int) (window.Window, error)
	ResizeViewport(size viewport.Size) (bool, error)
	Windows() []window.Window
	Desktop() []shell.Frame
	Taskbar() []shell.TaskbarEntry
	Status() shell.Status
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	loadConfig   func() (*config.Config, error)
	desktop      Desktop
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server that will listen on socketPath. RELOAD re-reads
// the configuration with loadConfig and signals reloadChan.
func NewServer(socketPath string, cfg *config.Config, loadConfig func() (*config.Config, error), desktop Desktop, reloadChan chan struct{}) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	if loadConfig == nil {
		loadConfig = config.Load
	}
	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		loadConfig: loadConfig,
		desktop:    desktop,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandTaskbar:
		return ok(TaskbarData{Entries: s.desktop.Taskbar()})
	case CommandLaunch:
		return s.handleLaunch(req.Payload)
	case CommandOpenWindow:
		return s.handleOpenWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleWindowOp(req.Payload, "close", s.desktop.Close)
	case CommandMinimizeWindow:
		return s.handleWindowOp(req.Payload, "minimize", s.desktop.Minimize)
	case CommandMaximizeWindow:
		return s.handleWindowOp(req.Payload, "maximize", s.desktop.ToggleMaximize)
	case CommandFocusWindow:
		return s.handleWindowOp(req.Payload, "focus", s.desktop.Focus)
	case CommandPointer:
		return s.handlePointer(req.Payload)
	case CommandDragWindow:
		return s.handleDrag(req.Payload)
	case CommandResizeViewport:
		return s.handleResizeViewport(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")
	return ok(nil)
}

func (s *Server) handleGetStatus() *Response {
	return ok(StatusData{
		Status:        s.desktop.Status(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	})
}

func (s *Server) handleListWindows() *Response {
	return ok(WindowsData{
		Windows:        s.desktop.Windows(),
		Frames:         s.desktop.Desktop(),
		ActiveWindowID: s.desktop.Status().ActiveWindowID,
	})
}

func (s *Server) handleLaunch(payload json.RawMessage) *Response {
	var req LaunchPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid launch payload: %v", err))
	}
	appID, err := window.ParseAppID(req.AppID)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	w, err := s.desktop.Launch(appID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to launch %s: %v", appID, err))
	}
	log.Printf("IPC: Launched %s as %s", appID, w.ID)
	return ok(WindowData{Window: &w})
}

func (s *Server) handleOpenWindow(payload json.RawMessage) *Response {
	var req OpenWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	appID, err := window.ParseAppID(req.AppID)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Title == "" {
		return NewErrorResponse("title is required")
	}
	w, err := s.desktop.Open(appID, req.Title)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open %s: %v", appID, err))
	}
	return ok(WindowData{Window: &w})
}

func (s *Server) handleWindowOp(payload json.RawMessage, name string, op func(string) error) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", name, err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	if err := op(req.ID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s window: %v", name, err))
	}
	return ok(WindowData{Window: s.lookup(req.ID)})
}

func (s *Server) lookup(id string) *window.Window {
	for _, w := range s.desktop.Windows() {
		if w.ID == id {
			return &w
		}
	}
	return nil
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var req PointerPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid pointer payload: %v", err))
	}
	if err := s.desktop.Pointer(req.ID, req.Event); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to deliver pointer event: %v", err))
	}
	return ok(WindowData{Window: s.lookup(req.ID)})
}

func (s *Server) handleDrag(payload json.RawMessage) *Response {
	var req DragPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid drag payload: %v", err))
	}
	w, err := s.desktop.Drag(req.ID, req.DX, req.DY)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to drag window: %v", err))
	}
	return ok(WindowData{Window: &w})
}

func (s *Server) handleResizeViewport(payload json.RawMessage) *Response {
	var req ViewportPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid viewport payload: %v", err))
	}
	size := viewport.Size{Width: req.Width, Height: req.Height}
	changed, err := s.desktop.ResizeViewport(size)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to resize viewport: %v", err))
	}
	return ok(ViewportData{
		Viewport:   size,
		Changed:    changed,
		Breakpoint: s.desktop.Status().Breakpoint,
	})
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
