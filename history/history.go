// Package history keeps the last playback position of every stream so playback can resume.
package history

import (
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/where"
)

// cacher is the disk-backed registry of entries keyed by locator.
var cacher = filesystem.Cache[map[string]*Entry](where.History(), 0)

// Get returns every saved entry keyed by locator.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Sorted returns every entry, most recently watched first.
func Sorted() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Watched.After(entries[j].Watched)
	})
	return entries, nil
}

// Save records the position reached in a stream. A position of 0 for a stream that
// was already saved keeps the old position.
func Save(locator string, position, duration int) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if existing, ok := saved[locator]; ok && position <= 0 {
		position = existing.Position
	}

	saved[locator] = &Entry{
		Locator:  locator,
		Position: max(position, 0),
		Duration: duration,
		Watched:  time.Now(),
	}

	return cacher.Set(saved)
}

// Resume returns where to continue a stream from. Streams watched past the
// player.resume_threshold percentage start over.
func Resume(locator string) (mo.Option[int], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[int](), err
	}

	entry, ok := saved[locator]
	if !ok || entry.Position <= 0 || entry.Finished(viper.GetInt(key.PlayerResumeThreshold)) {
		return mo.None[int](), nil
	}

	return mo.Some(entry.Position), nil
}

// Find returns the entries whose locator fuzzily matches query, best matches first.
func Find(query string) ([]*Entry, error) {
	entries, err := Sorted()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return entries, nil
	}

	byLocator := lo.KeyBy(entries, func(e *Entry) string { return e.Locator })

	ranks := fuzzy.RankFindNormalizedFold(query, lo.Keys(byLocator))
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) *Entry {
		return byLocator[r.Target]
	}), nil
}

// Remove deletes the entry of a stream.
func Remove(locator string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, locator)
	return cacher.Set(saved)
}

// Clear deletes every entry.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
