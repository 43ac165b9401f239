package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"confdesk-cli/model"
)

const (
	roomCacheTTL   = 72 * time.Hour
	slotCacheTTL   = 10 * time.Minute
	maxRecentConfs = 8
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// RecentConference is a pointer to a conference the organizer edited
// recently, so the wizard can reopen it without a lookup.
type RecentConference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type conferenceHistory struct {
	Conferences []RecentConference `json:"conferences"`
}

// LoadRoomCache returns the cached room list for a city and whether it is
// still fresh.
func LoadRoomCache(city string) ([]model.Room, bool, error) {
	path, err := cachePath(fmt.Sprintf("rooms_%s.json", cacheKey(city)))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Room](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= roomCacheTTL, nil
}

func SaveRoomCache(city string, rooms []model.Room) error {
	path, err := cachePath(fmt.Sprintf("rooms_%s.json", cacheKey(city)))
	if err != nil {
		return err
	}
	return saveCache(path, rooms)
}

// LoadSlotCache returns cached free spans for a room/day. The TTL is short:
// other organizers book rooms concurrently.
func LoadSlotCache(roomID string, date string) ([]model.DaySlot, bool, error) {
	path, err := cachePath(fmt.Sprintf("slots_%s_%s.json", cacheKey(roomID), date))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.DaySlot](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= slotCacheTTL, nil
}

func SaveSlotCache(roomID string, date string, slots []model.DaySlot) error {
	path, err := cachePath(fmt.Sprintf("slots_%s_%s.json", cacheKey(roomID), date))
	if err != nil {
		return err
	}
	return saveCache(path, slots)
}

func LoadRecentConferences() ([]RecentConference, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history conferenceHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid conference history format")
	}
	return history.Conferences, nil
}

// RememberConference moves the conference to the front of the recent list,
// deduplicating by id and capping the list length.
func RememberConference(conf model.Conference) error {
	if strings.TrimSpace(conf.Id) == "" {
		return errors.New("conference id is required")
	}
	history, _ := LoadRecentConferences()
	next := []RecentConference{{ID: conf.Id, Name: conf.Name, City: conf.City}}

	for _, existing := range history {
		if existing.ID == conf.Id {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentConfs {
			break
		}
	}

	return saveRecentConferences(next)
}

// ForgetConference drops a conference from the recent list, used when the
// backend reports it gone.
func ForgetConference(id string) error {
	history, err := LoadRecentConferences()
	if err != nil {
		return err
	}
	next := make([]RecentConference, 0, len(history))
	for _, existing := range history {
		if existing.ID == id {
			continue
		}
		next = append(next, existing)
	}
	return saveRecentConferences(next)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveRecentConferences(conferences []RecentConference) error {
	path, err := configPath("history.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	history := conferenceHistory{Conferences: conferences}
	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "confdesk-cli", name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "confdesk-cli", name), nil
}

// cacheKey flattens arbitrary identifiers into a safe file name fragment.
func cacheKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
