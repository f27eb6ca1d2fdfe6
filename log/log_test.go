package log

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Entries should be discarded", func() {
			entry := WithFields(logrus.Fields{"gen": 1})
			So(entry.Logger, ShouldEqual, discard)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		viper.Set(key.LogsJson, false)
		So(Setup(), ShouldBeNil)

		Reset(func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
		})

		Convey("Entries should reach the dated log file", func() {
			Debugf("state -> %s", "preparing")
			WithFields(logrus.Fields{"gen": 7}).Warnf("teardown failed")

			path := filepath.Join(where.Logs(), fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
			data, err := filesystem.API().ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "state -> preparing")
			So(string(data), ShouldContainSubstring, "gen=7")
			So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)
		})
	})
}
