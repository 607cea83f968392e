package operations

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/fail"
)

const (
	ReleaseFeed    = `https://api.github.com`
	LatestRelease  = `/repos/shadowsocks/shadowsocks-rust/releases/latest`
	checksumSuffix = `.sha256`
)

type (
	Release struct {
		Tag    string   `json:"tag_name"`
		Assets []*Asset `json:"assets"`
	}
	Asset struct {
		Name        string `json:"name"`
		Size        int64  `json:"size"`
		DownloadURL string `json:"browser_download_url"`
	}
)

// FetchLatest loads latest release metadata, without checksum assets.
func FetchLatest(client cloud.Client) (release *Release, err error) {
	defer fail.Around(&err)

	request := client.NewRequest(LatestRelease)
	request.Headers["Accept"] = "application/vnd.github+json"
	response := client.WithTimeout(30 * time.Second).Get(request)
	fail.On(response.Err != nil, "Failure loading %q, reason: %w", LatestRelease, response.Err)
	release = &Release{}
	err = json.Unmarshal(response.Body, release)
	fail.On(err != nil, "Failure parsing release info, reason: %w", err)
	release.Assets = filterChecksums(release.Assets)
	common.Debug("Latest release %s has %d assets.", release.Tag, len(release.Assets))
	return release, nil
}

func filterChecksums(assets []*Asset) []*Asset {
	result := make([]*Asset, 0, len(assets))
	for _, asset := range assets {
		if asset != nil && !strings.HasSuffix(asset.Name, checksumSuffix) {
			result = append(result, asset)
		}
	}
	return result
}

// Matching returns assets whose name contains the pattern.
func (it *Release) Matching(pattern string) []*Asset {
	result := make([]*Asset, 0, len(it.Assets))
	for _, asset := range it.Assets {
		if strings.Contains(asset.Name, pattern) {
			result = append(result, asset)
		}
	}
	return result
}

// AsVersion parses "v1.2.3" or "shadowsocks 1.2.3" into one comparable number.
func AsVersion(text string) (uint64, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, ""
	}
	textual := strings.TrimPrefix(fields[len(fields)-1], "v")
	parts := strings.SplitN(textual, ".", 3)
	steps := len(parts)
	if steps < 3 {
		return 0, textual
	}
	version := uint64(0)
	for _, part := range parts {
		digits := part
		if index := strings.IndexAny(part, "-+"); index >= 0 {
			digits = part[:index]
		}
		value, err := strconv.ParseUint(digits, 10, 16)
		if err != nil {
			return 0, textual
		}
		version = version<<16 + value
	}
	return version, textual
}

// VersionCheck returns a notifier when latest release is newer than installed
// one, otherwise nil.
func VersionCheck(installed string, release *Release) func() {
	if release == nil {
		return nil
	}
	current, _ := AsVersion(installed)
	latest, textual := AsVersion(release.Tag)
	if latest == 0 || current == 0 || current >= latest {
		return nil
	}
	return func() {
		common.Log("Now running sslocal %s. There is newer version %s available.", installed, textual)
	}
}
