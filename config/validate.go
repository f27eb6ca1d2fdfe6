package config

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/surfplay/surfplay/engine"
	"github.com/surfplay/surfplay/icon"
	"github.com/surfplay/surfplay/key"
)

var validators = map[string]func(any) error{
	key.PlayerEngine:          oneOf(engine.Backends),
	key.IconsVariant:          oneOf(icon.AvailableVariants),
	key.PlayerReleaseTimeout:  between(1, math.MaxInt),
	key.PlayerSeekStep:        between(1, math.MaxInt),
	key.PlayerResumeThreshold: between(1, 100),
	key.HeadlessProbeSize:     between(16, math.MaxInt),
	key.HeadlessTick:          between(1, math.MaxInt),
	key.LogsLevel: func(v any) error {
		_, err := logrus.ParseLevel(fmt.Sprint(v))
		return err
	},
}

// Validate reports whether value is acceptable for the setting k.
// Settings without constraints accept any value of their type.
func Validate(k string, value any) error {
	check, ok := validators[k]
	if !ok {
		return nil
	}

	if err := check(value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", k, err)
	}
	return nil
}

func oneOf(options func() []string) func(any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok || !lo.Contains(options(), s) {
			return fmt.Errorf("%v is not one of %v", v, options())
		}
		return nil
	}
}

func between(low, high int) func(any) error {
	return func(v any) error {
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("%v is not an integer", v)
		}
		if n < low || n > high {
			if high == math.MaxInt {
				return fmt.Errorf("%d must be at least %d", n, low)
			}
			return fmt.Errorf("%d is not in [%d, %d]", n, low, high)
		}
		return nil
	}
}
