package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewManagerAppliesDefaults(t *testing.T) {
	m := NewManager(Config{})
	cfg := m.Config()
	require.Equal(t, DefaultControlURL, cfg.ControlURL)
	require.Equal(t, defaultAttachTimeout, cfg.AttachTimeout)
	require.NotEmpty(t, cfg.ProfileDir)
}

func TestPageFailsFastWithoutBrowserOrBinary(t *testing.T) {
	// A port that refuses connections plus an unfindable binary: the manager
	// must surface a ConnectError instead of hanging.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	m := NewManager(Config{
		ControlURL:    endpoint,
		ChromePath:    filepath.Join(t.TempDir(), "no-such-chrome"),
		ProfileDir:    t.TempDir(),
		AttachTimeout: time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.Page(ctx)
	require.Error(t, err)
	var connErr *ConnectError
	require.True(t, errors.As(err, &connErr))
	require.Equal(t, endpoint, connErr.Endpoint)
	require.Contains(t, connErr.Error(), "not found")
}

func TestLaunchRefusesWebSocketEndpoint(t *testing.T) {
	// ws:// cannot be probed over HTTP, and there is no port to launch on.
	m := NewManager(Config{
		ControlURL:    "ws://127.0.0.1:1/devtools/browser/dead",
		ChromePath:    filepath.Join(t.TempDir(), "no-such-chrome"),
		AttachTimeout: time.Second,
	})
	err := m.launch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "endpoint")
}

func TestLaunchArgs(t *testing.T) {
	args := launchArgs(9333, "/tmp/profile")
	joined := strings.Join(args, " ")
	require.Contains(t, joined, "--remote-debugging-port=9333")
	require.Contains(t, joined, "--user-data-dir=/tmp/profile")
	require.NotContains(t, joined, "--headless")
}

func TestFindChromeOverrideMissing(t *testing.T) {
	_, err := findChrome(filepath.Join(t.TempDir(), "missing-binary"))
	require.Error(t, err)
}
