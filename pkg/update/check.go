// Package update checks GitHub for a newer release of the application.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// OSsuffixMap is the OS to download file suffix map.
var OSsuffixMap = map[string]string{ //nolint:gochecknoglobals
	"darwin":  ".dmg",
	"windows": ".exe.zip",
	"freebsd": ".txz",
	"linux":   ".tar.gz",
}

// Latest is where we find the latest release.
const Latest = "https://api.github.com/repos/%s/releases/latest"

// GitHub API timeout.
const timeout = 10 * time.Second

// ErrInvalidStatus is returned when GitHub does not answer 200.
var ErrInvalidStatus = errors.New("invalid HTTP status reply")

// Update contains the running Version, the Current release and its download URL.
// Outdate is true if the running version is older than the current release.
type Update struct {
	Outdate bool
	RelDate time.Time
	Version string
	Current string
	CurrURL string
}

// Release is the part of GitHub's releases/latest reply this package reads.
type Release struct {
	HTMLURL     string    `json:"html_url"`
	TagName     string    `json:"tag_name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is one downloadable file in a Release.
type Asset struct {
	Name               string    `json:"name"`
	UpdatedAt          time.Time `json:"updated_at"`
	BrowserDownloadURL string    `json:"browser_download_url"`
}

// Check looks up the latest release of userRepo (owner/name) and compares it to version.
func Check(ctx context.Context, userRepo, version string) (*Update, error) {
	release, err := GetRelease(ctx, http.DefaultClient, fmt.Sprintf(Latest, userRepo))
	if err != nil {
		return nil, err
	}

	return FillUpdate(release, version), nil
}

// GetRelease returns a GitHub release from uri.
func GetRelease(ctx context.Context, client *http.Client, uri string) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("requesting github: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying github: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, resp.Status)
	}

	var release Release
	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding github response: %w", err)
	}

	return &release, nil
}

// FillUpdate compares a running version with a release.
// The download URL points at the asset for this OS when one exists.
func FillUpdate(release *Release, version string) *Update {
	update := &Update{
		RelDate: release.PublishedAt,
		CurrURL: release.HTMLURL,
		Current: release.TagName,
		Version: "v" + strings.TrimPrefix(version, "v"),
		Outdate: semver.Compare("v"+strings.TrimPrefix(release.TagName, "v"),
			"v"+strings.TrimPrefix(version, "v")) > 0,
	}

	suffix := OSsuffixMap[runtime.GOOS]
	if runtime.GOOS == "freebsd" || runtime.GOOS == "linux" {
		suffix = runtime.GOARCH + suffix
	}

	for _, file := range release.Assets {
		if suffix != "" && strings.HasSuffix(file.BrowserDownloadURL, suffix) {
			update.CurrURL = file.BrowserDownloadURL
			update.RelDate = file.UpdatedAt
		}
	}

	return update
}
