package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// devtoolsVersion is the /json/version payload subset we need.
type devtoolsVersion struct {
	Browser              string `json:"Browser"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// normalizeEndpoint turns a bare port, host:port or URL into the DevTools
// HTTP base URL.
func normalizeEndpoint(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("browser endpoint is empty")
	}
	if port, err := strconv.Atoi(raw); err == nil && port > 0 && port <= 65535 {
		raw = fmt.Sprintf("http://127.0.0.1:%d", port)
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		return u, nil
	default:
		return nil, errors.Errorf("unsupported browser endpoint scheme %q", u.Scheme)
	}
}

func fetchVersion(ctx context.Context, raw string) (devtoolsVersion, error) {
	u, err := normalizeEndpoint(raw)
	if err != nil {
		return devtoolsVersion{}, err
	}
	versionURL := *u
	versionURL.Path = "/json/version"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, versionURL.String(), nil)
	if err != nil {
		return devtoolsVersion{}, err
	}
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return devtoolsVersion{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return devtoolsVersion{}, errors.Errorf("devtools version endpoint returned %s", resp.Status)
	}

	var info devtoolsVersion
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return devtoolsVersion{}, err
	}
	return info, nil
}

// resolveWebSocketURL resolves the endpoint to the browser-level websocket
// target via /json/version. Explicit ws:// endpoints pass through untouched.
func resolveWebSocketURL(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "ws://") || strings.HasPrefix(raw, "wss://") {
		return raw, nil
	}
	info, err := fetchVersion(ctx, raw)
	if err != nil {
		return "", err
	}
	ws := strings.TrimSpace(info.WebSocketDebuggerURL)
	if ws == "" {
		return "", errors.New("devtools version endpoint returned no webSocketDebuggerUrl")
	}
	return ws, nil
}

// probeEndpoint reports whether a debuggable browser answers on the endpoint.
func probeEndpoint(ctx context.Context, raw string) error {
	_, err := fetchVersion(ctx, raw)
	return err
}
