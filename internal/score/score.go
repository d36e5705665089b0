package score

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/riverwatch/riverwatch/internal/config"
	"github.com/riverwatch/riverwatch/internal/model"
)

// Health score bounds.
const (
	MaxScore = 100
	MinScore = 0
)

// AlertConfidence is the fixed confidence attached to tick-raised nitrate
// alerts.
const AlertConfidence = 92

// Engine derives a health score from a sensor reading and occasionally
// produces an alert candidate. Scoring itself is a pure function of the
// reading and the configured rules; the only randomness is the alert
// probability draw, which sits behind an injectable source so tests can
// force either branch.
//
// Engine is safe for concurrent use; SetRules may be called while ticks
// are evaluating.
type Engine struct {
	mu    sync.RWMutex
	rules config.ScoringConfig

	randFloat func() float64 // uniform in [0,1); injectable for tests
}

// New creates an Engine with the given rules and the default random source.
func New(rules config.ScoringConfig) *Engine {
	return &Engine{
		rules:     rules,
		randFloat: rand.Float64,
	}
}

// WithRandom replaces the probability draw source and returns the engine.
// Deterministic tests use this to force either alert branch.
func (e *Engine) WithRandom(fn func() float64) *Engine {
	e.randFloat = fn
	return e
}

// SetRules replaces the scoring rules. Called from the config hot-reload path.
func (e *Engine) SetRules(rules config.ScoringConfig) {
	e.mu.Lock()
	e.rules = rules
	e.mu.Unlock()
}

// Evaluate scores a reading for the given site and returns the health score
// together with at most one alert candidate. The candidate is nil unless the
// nitrate gate and the probability draw both pass.
func (e *Engine) Evaluate(site model.Site, reading model.Reading) (int, *model.Alert) {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	health := HealthScore(rules, reading)

	if reading.Nitrates != nil && *reading.Nitrates > rules.AlertNitrateThreshold &&
		e.randFloat() < rules.AlertProbability {
		confidence := AlertConfidence
		return health, &model.Alert{
			SiteID:      site.ID,
			Title:       "High Nitrate Alert",
			Description: fmt.Sprintf("Nitrate levels at %s have exceeded safe thresholds.", site.Name),
			Priority:    model.PriorityHigh,
			AlertType:   model.AlertAnomaly,
			Confidence:  &confidence,
		}
	}

	return health, nil
}

// HealthScore computes the 0-100 health score for a reading under the given
// rules. It starts from 100 and applies each threshold penalty
// independently, then clamps. A nil measurement triggers no penalty: sensor
// dropout is not evidence of a bad value.
func HealthScore(rules config.ScoringConfig, r model.Reading) int {
	health := MaxScore

	if r.PHLevel != nil && (*r.PHLevel < rules.PHMin || *r.PHLevel > rules.PHMax) {
		health -= rules.PHPenalty
	}
	if r.Temperature != nil && (*r.Temperature > rules.TempMax || *r.Temperature < rules.TempMin) {
		health -= rules.TempPenalty
	}
	if r.DissolvedOxygen != nil && *r.DissolvedOxygen < rules.OxygenMin {
		health -= rules.OxygenPenalty
	}
	if r.Nitrates != nil && *r.Nitrates > rules.NitrateMax {
		health -= rules.NitratePenalty
	}
	if r.Turbidity != nil && *r.Turbidity > rules.TurbidityMax {
		health -= rules.TurbidityPenalty
	}

	if health < MinScore {
		health = MinScore
	}
	if health > MaxScore {
		health = MaxScore
	}
	return health
}
