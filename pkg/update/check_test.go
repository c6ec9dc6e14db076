package update_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/scribemenu/scribemenu/pkg/update"
)

func TestFillUpdate(t *testing.T) {
	t.Parallel()

	published := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	release := &update.Release{
		HTMLURL:     "https://github.com/scribemenu/scribemenu/releases/v1.2.0",
		TagName:     "v1.2.0",
		PublishedAt: published,
	}

	upd := update.FillUpdate(release, "1.1.9")
	if !upd.Outdate || upd.Version != "v1.1.9" || upd.Current != "v1.2.0" {
		t.Fatalf("expected 1.1.9 to be outdated by v1.2.0: %+v", upd)
	}

	if upd.CurrURL != release.HTMLURL || !upd.RelDate.Equal(published) {
		t.Fatalf("without assets the release page is the download: %+v", upd)
	}

	if update.FillUpdate(release, "v1.2.0").Outdate {
		t.Fatal("the same version is not outdated")
	}
}

func TestFillUpdateAsset(t *testing.T) {
	t.Parallel()

	suffix := update.OSsuffixMap[runtime.GOOS]
	if suffix == "" {
		t.Skip("no download suffix for " + runtime.GOOS)
	}

	if runtime.GOOS == "linux" || runtime.GOOS == "freebsd" {
		suffix = runtime.GOARCH + suffix
	}

	assetURL := "https://example.com/scribemenu." + suffix
	release := &update.Release{
		TagName: "v2.0.0",
		Assets: []update.Asset{
			{BrowserDownloadURL: "https://example.com/other.bin"},
			{BrowserDownloadURL: assetURL, UpdatedAt: time.Now()},
		},
	}

	if upd := update.FillUpdate(release, "1.0.0"); upd.CurrURL != assetURL {
		t.Fatalf("expected asset URL %s, got %s", assetURL, upd.CurrURL)
	}
}

func TestGetRelease(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}

		fmt.Fprint(w, `{"tag_name":"v0.3.0","html_url":"https://example.com/r"}`)
	}))
	defer server.Close()

	release, err := update.GetRelease(context.Background(), server.Client(), server.URL+"/latest")
	if err != nil {
		t.Fatalf("GetRelease: %v", err)
	}

	if release.TagName != "v0.3.0" {
		t.Fatalf("unexpected tag: %s", release.TagName)
	}

	_, err = update.GetRelease(context.Background(), server.Client(), server.URL+"/missing")
	if !errors.Is(err, update.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
