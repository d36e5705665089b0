package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/riverwatch/riverwatch/internal/model"
)

// DefaultReadingLimit caps ListReadings when the caller does not supply a
// positive limit.
const DefaultReadingLimit = 50

// Store is the thread-safe in-memory home of all sites, readings and alerts.
// It is the single owner of the three collections; every accessor returns
// copies so callers can never alias internal state.
//
// All operations are total: unknown ids yield a "not found" result or a
// no-op, never an error.
type Store struct {
	mu sync.RWMutex

	sites     map[string]*model.Site
	siteOrder []string // insertion order, for stable listings

	readings map[string][]*model.Reading // keyed by site id, insertion order

	alerts     map[string]*model.Alert
	alertOrder []string

	now   func() time.Time // injectable for deterministic tests
	newID func() string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		sites:    make(map[string]*model.Site),
		readings: make(map[string][]*model.Reading),
		alerts:   make(map[string]*model.Alert),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// --- sites ------------------------------------------------------------------

// ListSites returns all sites in insertion order.
func (s *Store) ListSites() []model.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Site, 0, len(s.siteOrder))
	for _, id := range s.siteOrder {
		out = append(out, *s.sites[id])
	}
	return out
}

// GetSite returns the site with the given id, if present.
func (s *Store) GetSite(id string) (model.Site, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	site, ok := s.sites[id]
	if !ok {
		return model.Site{}, false
	}
	return *site, true
}

// CreateSite assigns a fresh id and stores the site. An empty status
// defaults to "online"; LastUpdate is stamped with the current time.
// The assigned record is returned.
func (s *Store) CreateSite(site model.Site) model.Site {
	s.mu.Lock()
	defer s.mu.Unlock()

	site.ID = s.newID()
	if site.Status == "" {
		site.Status = model.StatusOnline
	}
	site.LastUpdate = s.now()

	stored := site
	s.sites[stored.ID] = &stored
	s.siteOrder = append(s.siteOrder, stored.ID)
	return site
}

// UpdateSiteStatus replaces a site's status and health score and refreshes
// its LastUpdate stamp. Returns the updated site, or false if id is unknown.
func (s *Store) UpdateSiteStatus(id string, status model.SiteStatus, healthScore int) (model.Site, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	site, ok := s.sites[id]
	if !ok {
		return model.Site{}, false
	}
	site.Status = status
	site.HealthScore = healthScore
	site.LastUpdate = s.now()
	return *site, true
}

// --- readings ---------------------------------------------------------------

// CreateReading assigns an id and capture timestamp and stores the reading.
// Nil measurements are kept as nil; sensor dropout is not defaulted away.
func (s *Store) CreateReading(reading model.Reading) model.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	reading.ID = s.newID()
	reading.Timestamp = s.now()

	stored := reading
	s.readings[stored.SiteID] = append(s.readings[stored.SiteID], &stored)
	return reading
}

// ListReadings returns up to limit readings for siteID, newest first.
// A non-positive limit falls back to DefaultReadingLimit.
func (s *Store) ListReadings(siteID string, limit int) []model.Reading {
	if limit <= 0 {
		limit = DefaultReadingLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.readings[siteID]
	out := make([]model.Reading, 0, len(stored))
	// Walk backwards so that, among equal timestamps, the most recently
	// inserted reading comes first.
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, *stored[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LatestReading returns the newest reading for siteID, if any.
func (s *Store) LatestReading(siteID string) (model.Reading, bool) {
	readings := s.ListReadings(siteID, 1)
	if len(readings) == 0 {
		return model.Reading{}, false
	}
	return readings[0], true
}

// --- alerts -----------------------------------------------------------------

// CreateAlert assigns an id and creation timestamp and stores the alert as
// active. Confidence and ETA stay nil unless the caller set them.
func (s *Store) CreateAlert(alert model.Alert) model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = s.newID()
	alert.IsActive = true
	alert.CreatedAt = s.now()

	stored := alert
	s.alerts[stored.ID] = &stored
	s.alertOrder = append(s.alertOrder, stored.ID)
	return alert
}

// ListActiveAlerts returns all active alerts grouped by priority, highest
// first. Within a priority band, insertion order is preserved.
func (s *Store) ListActiveAlerts() []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Alert, 0, len(s.alertOrder))
	for _, id := range s.alertOrder {
		if a := s.alerts[id]; a.IsActive {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})
	return out
}

// AlertsForSite returns every alert for siteID, active or not.
func (s *Store) AlertsForSite(siteID string) []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Alert
	for _, id := range s.alertOrder {
		if a := s.alerts[id]; a.SiteID == siteID {
			out = append(out, *a)
		}
	}
	return out
}

// DismissAlert marks the alert inactive. Unknown ids and repeat dismissals
// are silent no-ops.
func (s *Store) DismissAlert(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alert, ok := s.alerts[id]; ok {
		alert.IsActive = false
	}
}
