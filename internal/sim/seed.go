package sim

import (
	"log/slog"

	"github.com/riverwatch/riverwatch/internal/config"
	"github.com/riverwatch/riverwatch/internal/model"
	"github.com/riverwatch/riverwatch/internal/store"
)

// seededAlert is one of the standing alerts installed at startup. These are
// never regenerated by the tick loop; the only tick-raised alert is the
// nitrate anomaly.
type seededAlert struct {
	siteIndex   int
	title       string
	description string
	priority    model.AlertPriority
	alertType   model.AlertType
	confidence  *int
	eta         *string
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

var seedAlerts = []seededAlert{
	{
		siteIndex:   0,
		title:       "High Nitrate Prediction",
		description: "ML model predicts nitrate levels will exceed safe thresholds in Murray River Site A within 6-8 hours based on current trends.",
		priority:    model.PriorityHigh,
		alertType:   model.AlertPrediction,
		confidence:  intPtr(94),
		eta:         strPtr("6-8 hours"),
	},
	{
		siteIndex:   1,
		title:       "Temperature Anomaly",
		description: "Unusual temperature spike detected at Wagga Lagoon. May indicate thermal pollution source.",
		priority:    model.PriorityMedium,
		alertType:   model.AlertAnomaly,
		confidence:  intPtr(87),
	},
	{
		siteIndex:   2,
		title:       "Maintenance Reminder",
		description: "Sensor calibration due for Site C-07. Schedule maintenance to ensure data accuracy.",
		priority:    model.PriorityLow,
		alertType:   model.AlertMaintenance,
	},
}

// Seed populates the store with the configured sites, one initial reading
// per online site, and the standing sample alerts. Called once at process
// start before the scheduler runs.
func Seed(st *store.Store, sites []config.SeedSite, gen *Generator) {
	created := make([]model.Site, 0, len(sites))
	for _, s := range sites {
		site := st.CreateSite(model.Site{
			Name:        s.Name,
			Location:    s.Location,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
			Status:      model.SiteStatus(s.Status),
			HealthScore: s.HealthScore,
		})
		created = append(created, site)

		if site.Status == model.StatusOnline {
			m := gen.Generate()
			st.CreateReading(model.Reading{
				SiteID:          site.ID,
				PHLevel:         &m.PHLevel,
				Temperature:     &m.Temperature,
				DissolvedOxygen: &m.DissolvedOxygen,
				Nitrates:        &m.Nitrates,
				Turbidity:       &m.Turbidity,
			})
		}
	}

	for _, a := range seedAlerts {
		if a.siteIndex >= len(created) {
			continue
		}
		st.CreateAlert(model.Alert{
			SiteID:      created[a.siteIndex].ID,
			Title:       a.title,
			Description: a.description,
			Priority:    a.priority,
			AlertType:   a.alertType,
			Confidence:  a.confidence,
			ETA:         a.eta,
		})
	}

	slog.Info("sim: seeded store", "sites", len(created), "alerts", len(seedAlerts))
}
