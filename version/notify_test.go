package version

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestAnnounce(t *testing.T) {
	Convey("Given a running build", t, func() {
		var out bytes.Buffer

		Convey("A newer release should print a banner with its link", func() {
			ok := announce(&out, Release{Version: "0.2.0", URL: "https://example.com/releases/v0.2.0"}, "0.1.0")
			So(ok, ShouldBeTrue)
			So(out.String(), ShouldContainSubstring, "0.2.0")
			So(out.String(), ShouldContainSubstring, "https://example.com/releases/v0.2.0")
		})

		Convey("The same or an older release should print nothing", func() {
			So(announce(&out, Release{Version: "0.1.0"}, "0.1.0"), ShouldBeFalse)
			So(announce(&out, Release{Version: "0.0.9"}, "0.1.0"), ShouldBeFalse)
			So(out.String(), ShouldBeEmpty)
		})

		Convey("An empty release should print nothing", func() {
			So(announce(&out, Release{}, "0.1.0"), ShouldBeFalse)
			So(out.String(), ShouldBeEmpty)
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given no release endpoint", t, func() {
		viper.Set(key.CliReleasesURL, "")

		Convey("Latest should fail without a lookup", func() {
			_, err := Latest()
			So(err, ShouldEqual, ErrNoFeed)
		})
	})

	Convey("Given a release endpoint", t, func() {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			fmt.Fprint(w, `{"tag_name":"v0.3.1","html_url":"https://example.com/v0.3.1"}`)
		}))
		defer server.Close()
		viper.Set(key.CliReleasesURL, server.URL)
		defer viper.Set(key.CliReleasesURL, "")

		Convey("The tag should be read and cached", func() {
			release, err := Latest()
			So(err, ShouldBeNil)
			So(release.Version, ShouldEqual, "0.3.1")
			So(release.URL, ShouldEqual, "https://example.com/v0.3.1")

			_, err = Latest()
			So(err, ShouldBeNil)
			So(hits, ShouldEqual, 1)
		})
	})

	Convey("Given an endpoint that fails", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()
		viper.Set(key.CliReleasesURL, server.URL)
		defer viper.Set(key.CliReleasesURL, "")

		Convey("Latest should return the status", func() {
			_, err := Latest()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "404")
		})
	})
}
