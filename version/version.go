// Package version compares the running build against the latest published release.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/network"
	"github.com/surfplay/surfplay/util"
	"github.com/surfplay/surfplay/where"
)

const checkTimeout = 3 * time.Second

// ErrNoFeed is returned by Latest when no release endpoint is configured.
var ErrNoFeed = errors.New("no release endpoint configured")

// Release is the newest published version and where to read about it.
type Release struct {
	Version string `json:"version"`
	URL     string `json:"url"`
	Feed    string `json:"feed"`
}

var releaseCacher = filesystem.Cache[Release](filepath.Join(where.Cache(), "release.json"), time.Hour*24*2)

// Latest returns the newest release published at the configured endpoint.
// Lookups are cached for two days per endpoint.
func Latest() (Release, error) {
	feed := viper.GetString(key.CliReleasesURL)
	if feed == "" {
		return Release{}, ErrNoFeed
	}

	cached, expired, err := releaseCacher.Get()
	if err != nil {
		return Release{}, err
	}
	if !expired && cached.Feed == feed && cached.Version != "" {
		return cached, nil
	}

	release, err := fetch(feed)
	if err != nil {
		return Release{}, err
	}

	_ = releaseCacher.Set(release)
	return release, nil
}

func fetch(feed string) (Release, error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return Release{}, err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("release lookup: %s", resp.Status)
	}

	var body struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Release{}, fmt.Errorf("release lookup: %w", err)
	}

	version := strings.TrimPrefix(body.TagName, "v")
	if version == "" {
		return Release{}, errors.New("release lookup: empty tag name")
	}

	return Release{Version: version, URL: body.HTMLURL, Feed: feed}, nil
}
