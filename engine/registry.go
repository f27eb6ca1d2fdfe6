package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/network"
)

// Backend names accepted by the player.engine setting.
const (
	BackendMPV      = "mpv"
	BackendHeadless = "headless"
)

var backends = map[string]func() Factory{
	BackendMPV: func() Factory {
		return NewMPV(viper.GetString(key.PlayerMpvPath))
	},
	BackendHeadless: func() Factory {
		return NewHeadless(HeadlessOptions{
			Client:    network.Client,
			ProbeSize: viper.GetInt64(key.HeadlessProbeSize),
			Tick:      time.Duration(viper.GetInt(key.HeadlessTick)) * time.Millisecond,
		})
	},
}

// Backends lists the available backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the Factory for the named backend, configured from the active settings.
func New(name string) (Factory, error) {
	build, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q, available: %v", name, Backends())
	}
	return build(), nil
}

// FromConfig returns the Factory selected by the player.engine setting.
func FromConfig() (Factory, error) {
	return New(viper.GetString(key.PlayerEngine))
}
