package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/key"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		defer viper.Set(key.IconsVariant, plain)

		Convey("It should render in every variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				So(Get(Play), ShouldEqual, icons[Play][variant])
				So(Get(Play), ShouldNotBeEmpty)
			}
		})

		Convey("An unknown variant should fall back to plain", func() {
			viper.Set(key.IconsVariant, "hieroglyphs")
			So(Get(Play), ShouldEqual, ">")
		})
	})

	Convey("An unregistered icon should render as nothing", t, func() {
		So(Get(Icon(-1)), ShouldBeEmpty)
	})
}

func TestRegistry(t *testing.T) {
	Convey("Every icon should define every variant", t, func() {
		for _, g := range icons {
			for _, variant := range AvailableVariants() {
				So(g[variant], ShouldNotBeEmpty)
			}
		}
	})
}
