package statsd

import (
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"storefront", "api.request", "storefront.api.request"},
		{"", " api/login ", "api_login"},
		{"storefront", "api..duration", "storefront.api.duration"},
		{"storefront", "..", ""},
	}

	for _, tt := range tests {
		if got := metricName(tt.prefix, tt.name); got != tt.want {
			t.Fatalf("metricName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestRenderTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " storefront "}
	local := map[string]string{"result": " success ", "": "ignored", "env": "stage"}

	got := renderTags(global, local)
	want := "|#env:stage,result:success,service:storefront"
	if got != want {
		t.Fatalf("renderTags mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := renderTags(nil, nil); got != "" {
		t.Fatalf("renderTags(nil, nil) = %q, want empty", got)
	}
}

func TestClientWritesLines(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{prefix: "storefront", conn: clientConn, logger: slog.Default()}

	lines := make(chan string, 2)
	go func() {
		buf := make([]byte, 256)
		for range 2 {
			n, err := peerConn.Read(buf)
			if err != nil {
				return
			}
			lines <- string(buf[:n])
		}
	}()

	client.Count("api.request", 1, map[string]string{"endpoint": "login"})
	client.Timing("api.duration", 1500*time.Microsecond, nil)

	if got := <-lines; got != "storefront.api.request:1|c|#endpoint:login" {
		t.Fatalf("count line = %q", got)
	}
	if got := <-lines; got != "storefront.api.duration:1.5|ms" {
		t.Fatalf("timing line = %q", got)
	}
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{conn: clientConn}
	if !client.Enabled() {
		t.Fatal("expected Enabled with an open connection")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected disabled after Close")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}

	var nilClient *Client
	nilClient.Count("x", 1, nil)
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestNewClientDisabled(t *testing.T) {
	t.Parallel()

	for _, cfg := range []Config{
		{Enabled: false, Address: "127.0.0.1:8125"},
		{Enabled: true, Address: "   "},
	} {
		client, err := NewClient(cfg)
		if err != nil {
			t.Fatalf("NewClient error: %v", err)
		}
		if client.Enabled() {
			t.Fatalf("expected disabled client for %+v", cfg)
		}
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
