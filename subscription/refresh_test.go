package subscription_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joshyorko/sstui/subscription"
)

func TestRefreshCachesFormat(t *testing.T) {
	calls := 0
	fetch := func(location string) ([]byte, error) {
		calls++
		return []byte(`[{"server":"s","server_port":1,"method":"m","password":"p"}]`), nil
	}
	group := subscription.NewGroup("main", "https://example.com/sub")
	if group.ID == "" {
		t.Fatal("group needs identity")
	}
	if err := group.Refresh(fetch); err != nil {
		t.Fatal(err)
	}
	if group.Format != subscription.FormatJSON || len(group.Servers) != 1 {
		t.Fatalf("unexpected group %+v", group)
	}

	group.Format = subscription.FormatURL
	err := group.Refresh(fetch)
	if !errors.Is(err, subscription.ErrUnknownContent) {
		t.Fatalf("cached format should be reused, got %v", err)
	}
	if len(group.Servers) != 1 || calls != 2 {
		t.Errorf("failed refresh must keep old servers: %+v", group.Servers)
	}
}

func TestRefreshRejectsEmptyAndUnknown(t *testing.T) {
	group := subscription.NewGroup("empty", "x")
	err := group.Refresh(func(string) ([]byte, error) { return []byte("[]"), nil })
	if !errors.Is(err, subscription.ErrNoServers) {
		t.Errorf("expected ErrNoServers, got %v", err)
	}
	err = group.Refresh(func(string) ([]byte, error) { return []byte("nonsense"), nil })
	if !errors.Is(err, subscription.ErrUnknownContent) {
		t.Errorf("expected ErrUnknownContent, got %v", err)
	}
	if group.Format != subscription.FormatUnknown {
		t.Errorf("failed classification must not be cached, got %q", group.Format)
	}
}

func TestProxyFetcherUsesHttp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"server":"h","server_port":2,"method":"m","password":"p"}]`))
	}))
	defer server.Close()

	group := subscription.NewGroup("http", server.URL)
	if err := group.Refresh(subscription.ProxyFetcher("")); err != nil {
		t.Fatal(err)
	}
	if group.IndexOf(group.Servers[0].Fingerprint()) != 0 {
		t.Error("IndexOf should find the server")
	}
	if group.IndexOf(0) != -1 {
		t.Error("IndexOf should miss unknown fingerprint")
	}
}
