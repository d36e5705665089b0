package model

import "time"

// SiteStatus is the operational state of a monitoring site.
type SiteStatus string

const (
	StatusOnline      SiteStatus = "online"
	StatusOffline     SiteStatus = "offline"
	StatusMaintenance SiteStatus = "maintenance"
)

// AlertPriority orders alerts for display: high > medium > low.
type AlertPriority string

const (
	PriorityHigh   AlertPriority = "high"
	PriorityMedium AlertPriority = "medium"
	PriorityLow    AlertPriority = "low"
)

// Rank returns the numeric ordering of a priority, highest first.
// Unknown priorities rank below "low".
func (p AlertPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// AlertType classifies how an alert was produced.
type AlertType string

const (
	AlertPrediction  AlertType = "prediction"
	AlertAnomaly     AlertType = "anomaly"
	AlertMaintenance AlertType = "maintenance"
)

// Site is a monitored physical location. Status, HealthScore and LastUpdate
// are rewritten by the scheduler after each tick; everything else is fixed
// at creation.
type Site struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Status      SiteStatus `json:"status"`
	HealthScore int        `json:"healthScore"`
	LastUpdate  time.Time  `json:"lastUpdate"`
}

// Reading is one timestamped set of sensor measurements for a site.
// A nil measurement means the sensor dropped out for that capture, not an
// extreme value. Readings are immutable once created.
type Reading struct {
	ID              string    `json:"id"`
	SiteID          string    `json:"siteId"`
	PHLevel         *float64  `json:"phLevel"`
	Temperature     *float64  `json:"temperature"`
	DissolvedOxygen *float64  `json:"dissolvedOxygen"`
	Nitrates        *float64  `json:"nitrates"`
	Turbidity       *float64  `json:"turbidity"`
	Timestamp       time.Time `json:"timestamp"`
}

// Alert is a persisted notification of a concerning condition. All fields
// except IsActive are immutable after creation; dismissing an alert clears
// IsActive but keeps the record.
type Alert struct {
	ID          string        `json:"id"`
	SiteID      string        `json:"siteId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    AlertPriority `json:"priority"`
	AlertType   AlertType     `json:"alertType"`
	Confidence  *int          `json:"confidence"`
	ETA         *string       `json:"eta"`
	IsActive    bool          `json:"isActive"`
	CreatedAt   time.Time     `json:"createdAt"`
}
