package model

import "encoding/json"

// Event types pushed over the real-time channel.
const (
	EventSensorUpdate     = "sensor_update"
	EventSiteStatusUpdate = "site_status_update"
	EventAlertCreated     = "alert_created"
)

// Event is the envelope for every message sent over the real-time channel.
// On the server side Data holds the typed payload to be serialized; on the
// client side it holds the raw JSON for the consumer to decode by Type.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Envelope is the inbound wire form of an Event, with the payload left
// undecoded so consumers can dispatch on Type first.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Measurements is the payload block inside a sensor_update event. All five
// values are populated at emission time; the nullable form lives on Reading.
type Measurements struct {
	PHLevel         float64 `json:"phLevel"`
	Temperature     float64 `json:"temperature"`
	DissolvedOxygen float64 `json:"dissolvedOxygen"`
	Nitrates        float64 `json:"nitrates"`
	Turbidity       float64 `json:"turbidity"`
}

// SensorUpdate is the data payload of a sensor_update event.
type SensorUpdate struct {
	SiteID   string       `json:"siteId"`
	Readings Measurements `json:"readings"`
}

// SiteStatusUpdate is the data payload of a site_status_update event.
type SiteStatusUpdate struct {
	SiteID      string     `json:"siteId"`
	Status      SiteStatus `json:"status"`
	HealthScore int        `json:"healthScore"`
}
