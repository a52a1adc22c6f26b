package browser

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResolveWebSocketURLReturnsWebSocketURLAsIs(t *testing.T) {
	got, err := resolveWebSocketURL(context.Background(), "ws://example/devtools/browser/abc")
	if err != nil {
		t.Fatalf("resolveWebSocketURL returned error: %v", err)
	}
	if got != "ws://example/devtools/browser/abc" {
		t.Fatalf("expected websocket url unchanged, got %q", got)
	}
}

func TestResolveWebSocketURLResolvesHTTPEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/version" {
			t.Fatalf("unexpected request path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"Browser":"Chrome/139.0","webSocketDebuggerUrl":"ws://resolved/devtools/browser/xyz"}`))
	}))
	t.Cleanup(server.Close)

	got, err := resolveWebSocketURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("resolveWebSocketURL returned error: %v", err)
	}
	if got != "ws://resolved/devtools/browser/xyz" {
		t.Fatalf("expected resolved websocket url, got %q", got)
	}

	hostPort := strings.TrimPrefix(server.URL, "http://")
	got, err = resolveWebSocketURL(context.Background(), hostPort)
	if err != nil {
		t.Fatalf("resolveWebSocketURL(hostPort) returned error: %v", err)
	}
	if got != "ws://resolved/devtools/browser/xyz" {
		t.Fatalf("expected resolved websocket url from hostPort, got %q", got)
	}

	_, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		t.Fatalf("split hostPort: %v", err)
	}
	got, err = resolveWebSocketURL(context.Background(), port)
	if err != nil {
		t.Fatalf("resolveWebSocketURL(port) returned error: %v", err)
	}
	if got != "ws://resolved/devtools/browser/xyz" {
		t.Fatalf("expected resolved websocket url from bare port, got %q", got)
	}
}

func TestResolveWebSocketURLErrorsOnEmptyDebuggerURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"webSocketDebuggerUrl":""}`))
	}))
	t.Cleanup(server.Close)

	if _, err := resolveWebSocketURL(context.Background(), server.URL); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNormalizeEndpointRejectsOtherSchemes(t *testing.T) {
	if _, err := normalizeEndpoint("ftp://localhost:9222"); err == nil {
		t.Fatal("expected scheme error, got nil")
	}
	if _, err := normalizeEndpoint("   "); err == nil {
		t.Fatal("expected empty endpoint error, got nil")
	}
}

func TestProbeEndpointAgainstClosedPort(t *testing.T) {
	// Grab a port that answered once and is now closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	if err := probeEndpoint(context.Background(), endpoint); err == nil {
		t.Fatal("expected probe failure on closed port")
	}
}
