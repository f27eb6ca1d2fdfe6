// Package icon renders status symbols in the variant selected by icons.variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/key"
	"golang.org/x/exp/slices"
)

const (
	plain   = "plain"
	emoji   = "emoji"
	nerd    = "nerd"
	kaomoji = "kaomoji"
	squares = "squares"
)

var variants = []string{plain, emoji, nerd, kaomoji, squares}

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return slices.Clone(variants)
}

// glyphs maps a variant to the symbol drawn for it.
type glyphs map[string]string

// Get renders i in the configured variant. Unknown variants fall back to plain.
func Get(i Icon) string {
	g, ok := icons[i]
	if !ok {
		return ""
	}

	if s, ok := g[viper.GetString(key.IconsVariant)]; ok {
		return s
	}
	return g[plain]
}
