package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverwatch/riverwatch/internal/metrics"
	"github.com/riverwatch/riverwatch/internal/model"
	"github.com/riverwatch/riverwatch/internal/score"
	"github.com/riverwatch/riverwatch/internal/store"
)

// Broadcaster delivers one event to all connected observers.
type Broadcaster interface {
	Broadcast(model.Event)
}

// Simulator drives the periodic telemetry cycle: every tick it synthesizes a
// reading for each online site, scores it, persists the results and pushes
// the updates out through the broadcaster.
type Simulator struct {
	store  *store.Store
	engine *score.Engine
	hub    Broadcaster
	gen    *Generator

	tickInterval time.Duration
	initialDelay time.Duration

	// tickMu guarantees a tick runs to completion before the next begins,
	// even if ticks were ever dispatched concurrently.
	tickMu chan struct{}
}

// New creates a Simulator. tickInterval is the period between ticks;
// initialDelay schedules the first tick shortly after startup so observers
// see data before a full period elapses.
func New(st *store.Store, engine *score.Engine, hub Broadcaster, gen *Generator, tickInterval, initialDelay time.Duration) *Simulator {
	s := &Simulator{
		store:        st,
		engine:       engine,
		hub:          hub,
		gen:          gen,
		tickInterval: tickInterval,
		initialDelay: initialDelay,
		tickMu:       make(chan struct{}, 1),
	}
	s.tickMu <- struct{}{}
	return s
}

// Run executes the tick loop until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	slog.Info("sim: starting scheduler",
		"tick_interval", s.tickInterval, "initial_delay", s.initialDelay)

	select {
	case <-ctx.Done():
		return
	case <-time.After(s.initialDelay):
		s.Tick()
	}

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-ctx.Done():
			slog.Info("sim: scheduler stopped")
			return
		}
	}
}

// Tick runs one full pass over all sites. Sites that are not online are
// skipped entirely: no reading, no broadcast. Ticks never overlap; if one
// is still running when another is requested, the second waits.
func (s *Simulator) Tick() {
	<-s.tickMu
	defer func() { s.tickMu <- struct{}{} }()

	start := time.Now()
	sites := s.store.ListSites()

	updated := 0
	for _, site := range sites {
		if site.Status != model.StatusOnline {
			continue
		}
		s.updateSite(site)
		updated++
	}

	metrics.TicksTotal.Inc()
	slog.Debug("sim: tick complete",
		"sites", len(sites), "updated", updated, "elapsed", time.Since(start))
}

// updateSite runs the per-site portion of a tick: generate, persist, score,
// persist again, then broadcast in the fixed order sensor_update,
// site_status_update, and alert_created last when the engine raised one.
func (s *Simulator) updateSite(site model.Site) {
	m := s.gen.Generate()

	reading := s.store.CreateReading(model.Reading{
		SiteID:          site.ID,
		PHLevel:         &m.PHLevel,
		Temperature:     &m.Temperature,
		DissolvedOxygen: &m.DissolvedOxygen,
		Nitrates:        &m.Nitrates,
		Turbidity:       &m.Turbidity,
	})
	metrics.ReadingsGenerated.Inc()

	health, candidate := s.engine.Evaluate(site, reading)
	s.store.UpdateSiteStatus(site.ID, model.StatusOnline, health)

	s.hub.Broadcast(model.Event{
		Type: model.EventSensorUpdate,
		Data: model.SensorUpdate{SiteID: site.ID, Readings: m},
	})
	s.hub.Broadcast(model.Event{
		Type: model.EventSiteStatusUpdate,
		Data: model.SiteStatusUpdate{SiteID: site.ID, Status: model.StatusOnline, HealthScore: health},
	})

	if candidate != nil {
		alert := s.store.CreateAlert(*candidate)
		metrics.AlertsCreated.Inc()
		slog.Warn("sim: alert raised",
			"site", site.Name, "title", alert.Title, "priority", alert.Priority)
		s.hub.Broadcast(model.Event{Type: model.EventAlertCreated, Data: alert})
	}
}
