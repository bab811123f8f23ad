package kleinanzeigen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/chromedp/chromedp"

	"kleinanzeigen-mcp/config"
	"kleinanzeigen-mcp/utils"
)

// Session owns the lifecycle of the single headless browser process. Each
// operation borrows a fresh tab via Acquire so cookies and navigation state
// never leak between independent requests; the process itself is the only
// long-lived shared resource.
type Session struct {
	logger    *utils.Logger
	headless  bool
	chromeBin string

	mu            sync.Mutex
	started       bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession creates a Session; the browser is not launched until Start.
func NewSession(cfg *config.Config, logger *utils.Logger) *Session {
	return &Session{
		logger:    logger,
		headless:  cfg.Headless,
		chromeBin: cfg.ChromeBin,
	}
}

// Start launches the browser process. A launch failure is surfaced
// immediately as a SessionError and is not retried. Calling Start on a
// running session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	bin := s.chromeBin
	if bin == "" {
		bin = findChromeBinary()
	}

	opts := utils.AllocatorOptions(s.headless, bin)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	// Run an empty task so a broken environment fails here, not mid-operation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return &SessionError{Err: fmt.Errorf("browser launch: %w", err)}
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	s.started = true

	s.logger.Info("[session] Browser started (binary: %s)", displayBinary(bin))
	return nil
}

// Stop tears down the browser process. It is idempotent and safe to call on
// a session that was never started.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.browserCancel()
	s.allocCancel()
	s.browserCtx = nil
	s.browserCancel = nil
	s.allocCancel = nil
	s.started = false

	s.logger.Info("[session] Browser stopped")
}

// Started reports whether the browser process is up.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Acquire lends an isolated tab for exactly one operation. The returned
// cancel func must be invoked on every exit path; it closes the tab without
// touching the shared browser process.
func (s *Session) Acquire() (context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, nil, &SessionError{Err: ErrNotStarted}
	}

	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	return tabCtx, cancel, nil
}

// findChromeBinary locates a Chrome/Chromium binary on the host.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func displayBinary(bin string) string {
	if bin == "" {
		return "chromedp default"
	}
	return bin
}
