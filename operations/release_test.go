package operations_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/operations"
)

const releaseJson = `{
  "tag_name": "v1.18.2",
  "assets": [
    {"name": "shadowsocks-v1.18.2.x86_64-unknown-linux-gnu.tar.xz", "size": 3000, "browser_download_url": "https://x/a"},
    {"name": "shadowsocks-v1.18.2.x86_64-unknown-linux-gnu.tar.xz.sha256", "size": 100, "browser_download_url": "https://x/b"},
    {"name": "shadowsocks-v1.18.2.x86_64-pc-windows-msvc.zip", "size": 2000, "browser_download_url": "https://x/c"}
  ]
}`

func TestFetchLatestFiltersChecksums(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != operations.LatestRelease {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(releaseJson))
	}))
	defer server.Close()

	client, err := cloud.NewClient(server.URL, "")
	if err != nil {
		t.Fatal(err)
	}
	release, err := operations.FetchLatest(client)
	if err != nil {
		t.Fatal(err)
	}
	if release.Tag != "v1.18.2" || len(release.Assets) != 2 {
		t.Fatalf("unexpected release %+v", release)
	}
	if found := release.Matching("windows"); len(found) != 1 || found[0].Size != 2000 {
		t.Errorf("unexpected match %+v", found)
	}
}

func TestFetchLatestReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client, _ := cloud.NewClient(server.URL, "")
	if _, err := operations.FetchLatest(client); err == nil {
		t.Error("expected parse failure")
	}
}

func TestAsVersionAndVersionCheck(t *testing.T) {
	low, _ := operations.AsVersion("shadowsocks 1.15.3")
	high, text := operations.AsVersion("v1.18.2")
	if low == 0 || high <= low || text != "1.18.2" {
		t.Fatalf("unexpected versions %d %d %q", low, high, text)
	}
	if broken, _ := operations.AsVersion("nonsense"); broken != 0 {
		t.Errorf("nonsense should be zero, got %d", broken)
	}

	release := &operations.Release{Tag: "v1.18.2"}
	if operations.VersionCheck("shadowsocks 1.15.3", release) == nil {
		t.Error("older install should get notifier")
	}
	if operations.VersionCheck("shadowsocks 1.18.2", release) != nil {
		t.Error("same version needs no notifier")
	}
	if operations.VersionCheck("", release) != nil {
		t.Error("unknown install needs no notifier")
	}
}
