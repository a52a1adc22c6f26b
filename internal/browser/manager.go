package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"douyin/internal/driver"
)

// Config controls how publish runs reach Chrome.
type Config struct {
	// ControlURL is the DevTools endpoint: a bare port, host:port, or an
	// http(s)/ws URL. Defaults to the conventional local debugging port.
	ControlURL string
	// ChromePath overrides browser binary discovery.
	ChromePath string
	// ProfileDir is the persistent user data dir. Cookies and login tokens
	// live here, so a session survives across tool invocations.
	ProfileDir string
	// AttachTimeout bounds how long a freshly launched browser may take to
	// answer on the endpoint.
	AttachTimeout time.Duration
}

const (
	// DefaultControlURL is Chrome's conventional local debugging endpoint.
	DefaultControlURL = "http://127.0.0.1:9222"

	defaultAttachTimeout = 30 * time.Second
	probeTimeout         = 3 * time.Second
	launchPollInterval   = 500 * time.Millisecond
)

// ConnectError reports that no browser could be reached or started.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect browser at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Manager owns the control channel to one visible Chrome instance. Each run
// gets a fresh tab; the browser process itself is never terminated here, so
// the logged-in session stays available for later runs. If nothing answers on
// the endpoint, a detached Chrome is started on the configured profile.
type Manager struct {
	cfg    Config
	Logger *logrus.Entry

	group singleflight.Group

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCancels  []context.CancelFunc
}

func NewManager(cfg Config) *Manager {
	if strings.TrimSpace(cfg.ControlURL) == "" {
		cfg.ControlURL = DefaultControlURL
	}
	if cfg.AttachTimeout <= 0 {
		cfg.AttachTimeout = defaultAttachTimeout
	}
	if strings.TrimSpace(cfg.ProfileDir) == "" {
		cfg.ProfileDir = defaultProfileDir()
	}
	return &Manager{cfg: cfg}
}

func (m *Manager) Config() Config { return m.cfg }

// Page attaches to the browser, starting one if needed, and opens a fresh
// tab for the run. Concurrent callers share a single attach attempt.
func (m *Manager) Page(ctx context.Context) (*driver.ChromePage, error) {
	if err := m.attach(ctx); err != nil {
		return nil, &ConnectError{Endpoint: m.cfg.ControlURL, Err: err}
	}
	page, err := m.newTab()
	if err != nil {
		// The endpoint may have died since the last run. Reattach once.
		m.resetAllocator()
		if aerr := m.attach(ctx); aerr != nil {
			return nil, &ConnectError{Endpoint: m.cfg.ControlURL, Err: aerr}
		}
		if page, err = m.newTab(); err != nil {
			return nil, &ConnectError{Endpoint: m.cfg.ControlURL, Err: err}
		}
	}
	return page, nil
}

func (m *Manager) attach(ctx context.Context) error {
	_, err, _ := m.group.Do("attach", func() (interface{}, error) {
		return nil, m.ensureAttached(ctx)
	})
	return err
}

// ensureAttached connects the remote allocator, launching Chrome first when
// nothing answers on the endpoint.
func (m *Manager) ensureAttached(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.allocCtx != nil && m.allocCtx.Err() == nil {
		return nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
		m.allocCtx = nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := probeEndpoint(probeCtx, m.cfg.ControlURL)
	cancel()
	if err != nil {
		m.logf("no browser on %s, starting one", m.cfg.ControlURL)
		if err := m.launch(ctx); err != nil {
			return err
		}
	}

	wsURL, err := resolveWebSocketURL(ctx, m.cfg.ControlURL)
	if err != nil {
		return err
	}
	// Background, not the caller's ctx: the attachment outlives one run.
	m.allocCtx, m.allocCancel = chromedp.NewRemoteAllocator(context.Background(), wsURL)
	return nil
}

// launch starts a detached visible Chrome and waits for the endpoint to
// answer.
func (m *Manager) launch(ctx context.Context) error {
	u, err := normalizeEndpoint(m.cfg.ControlURL)
	if err != nil {
		return errors.Wrap(err, "cannot launch a browser for this endpoint")
	}
	port := 9222
	if p := u.Port(); p != "" {
		if parsed, perr := strconv.Atoi(p); perr == nil {
			port = parsed
		}
	}
	bin, err := findChrome(m.cfg.ChromePath)
	if err != nil {
		return err
	}
	m.logf("starting %s on port %d with profile %s", bin, port, m.cfg.ProfileDir)
	if err := launchDetached(bin, port, m.cfg.ProfileDir); err != nil {
		return errors.Wrap(err, "start chrome")
	}

	deadline := time.Now().Add(m.cfg.AttachTimeout)
	for time.Now().Before(deadline) {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err = probeEndpoint(probeCtx, m.cfg.ControlURL)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		time.Sleep(launchPollInterval)
	}
	return errors.Wrapf(err, "chrome did not answer on %s within %s", m.cfg.ControlURL, m.cfg.AttachTimeout)
}

// newTab opens a fresh tab for one run.
func (m *Manager) newTab() (*driver.ChromePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.allocCtx == nil || m.allocCtx.Err() != nil {
		return nil, errors.New("browser not attached")
	}
	tabCtx, cancel := chromedp.NewContext(m.allocCtx)
	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		return nil, errors.Wrap(err, "open tab")
	}
	m.tabCancels = append(m.tabCancels, cancel)
	page := driver.NewChromePage(tabCtx)
	page.Logger = m.Logger
	return page, nil
}

// resetAllocator drops the dead attachment so the next call reattaches.
func (m *Manager) resetAllocator() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cancel := range m.tabCancels {
		cancel()
	}
	m.tabCancels = nil
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
		m.allocCtx = nil
	}
}

// Close releases the control channel. It never terminates the browser; the
// operator's logged-in window stays open for the next run.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.resetAllocator()
}

func (m *Manager) logf(format string, args ...interface{}) {
	if m.Logger != nil {
		m.Logger.Infof(format, args...)
	}
}

func defaultProfileDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".douyin", "chrome-profile")
	}
	return filepath.Join(os.TempDir(), "douyin-chrome-profile")
}
