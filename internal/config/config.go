package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort      = 8080
	DefaultTickInterval  = 30 * time.Second
	DefaultInitialDelay  = 2 * time.Second
	DefaultReadingLimit  = 50
	DefaultReconnectBase = 3 * time.Second
	DefaultMaxReconnects = 5
)

// Config is the full riverwatch configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sim     SimConfig     `yaml:"simulation"`
	Client  ClientConfig  `yaml:"client"`
	Scoring ScoringConfig `yaml:"scoring"`
	Sites   []SeedSite    `yaml:"sites"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket endpoint and metrics
	// listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// ReadingLimit is the default page size for reading queries (default 50).
	ReadingLimit int `yaml:"reading_limit"`
}

// SimConfig controls the simulation scheduler.
type SimConfig struct {
	// TickInterval is the period between simulation ticks (default 30s).
	TickInterval time.Duration `yaml:"tick_interval"`

	// InitialDelay is how long after startup the first tick runs, so
	// observers see data before a full period elapses (default 2s).
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// ClientConfig holds reconnect policy for the real-time client manager.
type ClientConfig struct {
	// ReconnectBase is multiplied by the attempt count to produce each
	// reconnect delay, so backoff grows linearly (default 3s).
	ReconnectBase time.Duration `yaml:"reconnect_base"`

	// MaxReconnects is the number of reconnect attempts before the client
	// gives up and stays disconnected (default 5).
	MaxReconnects int `yaml:"max_reconnects"`
}

// ScoringConfig holds the health-score penalty rules and the alert gate.
// Zero values are replaced with the documented defaults by Load; Watch
// swaps these live on config reload.
type ScoringConfig struct {
	PHMin     float64 `yaml:"ph_min"`     // default 6.5
	PHMax     float64 `yaml:"ph_max"`     // default 8.5
	PHPenalty int     `yaml:"ph_penalty"` // default 20

	TempMin     float64 `yaml:"temp_min"`     // default 10
	TempMax     float64 `yaml:"temp_max"`     // default 25
	TempPenalty int     `yaml:"temp_penalty"` // default 15

	OxygenMin     float64 `yaml:"oxygen_min"`     // default 6
	OxygenPenalty int     `yaml:"oxygen_penalty"` // default 25

	NitrateMax     float64 `yaml:"nitrate_max"`     // default 3
	NitratePenalty int     `yaml:"nitrate_penalty"` // default 20

	TurbidityMax     float64 `yaml:"turbidity_max"`     // default 10
	TurbidityPenalty int     `yaml:"turbidity_penalty"` // default 10

	// AlertNitrateThreshold gates candidate alert generation (default 3.5).
	AlertNitrateThreshold float64 `yaml:"alert_nitrate_threshold"`

	// AlertProbability is the chance a qualifying tick raises an alert
	// (default 0.1).
	AlertProbability float64 `yaml:"alert_probability"`
}

// SeedSite describes one monitoring site created at process start.
type SeedSite struct {
	Name        string  `yaml:"name"`
	Location    string  `yaml:"location"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	Status      string  `yaml:"status"`
	HealthScore int     `yaml:"health_score"`
}

// DefaultSites is the seed list used when the config names no sites.
func DefaultSites() []SeedSite {
	return []SeedSite{
		{Name: "Murray River Site A", Location: "-35.1185, 147.3598", Latitude: -35.1185, Longitude: 147.3598, Status: "online", HealthScore: 92},
		{Name: "Wagga Lagoon", Location: "-35.1056, 147.3494", Latitude: -35.1056, Longitude: 147.3494, Status: "online", HealthScore: 76},
		{Name: "Murrumbidgee River Site C-07", Location: "-35.1344, 147.3247", Latitude: -35.1344, Longitude: 147.3247, Status: "online", HealthScore: 89},
		{Name: "Lake Albert", Location: "-35.1598, 147.3112", Latitude: -35.1598, Longitude: 147.3112, Status: "offline", HealthScore: 0},
	}
}

// DefaultScoring returns the scoring rules from the water-quality penalty
// table.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		PHMin: 6.5, PHMax: 8.5, PHPenalty: 20,
		TempMin: 10, TempMax: 25, TempPenalty: 15,
		OxygenMin: 6, OxygenPenalty: 25,
		NitrateMax: 3, NitratePenalty: 20,
		TurbidityMax: 10, TurbidityPenalty: 10,
		AlertNitrateThreshold: 3.5,
		AlertProbability:      0.1,
	}
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = DefaultHTTPPort
	}
	if c.Server.ReadingLimit == 0 {
		c.Server.ReadingLimit = DefaultReadingLimit
	}
	if c.Sim.TickInterval == 0 {
		c.Sim.TickInterval = DefaultTickInterval
	}
	if c.Sim.InitialDelay == 0 {
		c.Sim.InitialDelay = DefaultInitialDelay
	}
	if c.Client.ReconnectBase == 0 {
		c.Client.ReconnectBase = DefaultReconnectBase
	}
	if c.Client.MaxReconnects == 0 {
		c.Client.MaxReconnects = DefaultMaxReconnects
	}
	if c.Scoring == (ScoringConfig{}) {
		c.Scoring = DefaultScoring()
	} else {
		c.Scoring.applyDefaults()
	}
	if len(c.Sites) == 0 {
		c.Sites = DefaultSites()
	}
}

func (s *ScoringConfig) applyDefaults() {
	def := DefaultScoring()
	if s.PHMin == 0 {
		s.PHMin = def.PHMin
	}
	if s.PHMax == 0 {
		s.PHMax = def.PHMax
	}
	if s.PHPenalty == 0 {
		s.PHPenalty = def.PHPenalty
	}
	if s.TempMin == 0 {
		s.TempMin = def.TempMin
	}
	if s.TempMax == 0 {
		s.TempMax = def.TempMax
	}
	if s.TempPenalty == 0 {
		s.TempPenalty = def.TempPenalty
	}
	if s.OxygenMin == 0 {
		s.OxygenMin = def.OxygenMin
	}
	if s.OxygenPenalty == 0 {
		s.OxygenPenalty = def.OxygenPenalty
	}
	if s.NitrateMax == 0 {
		s.NitrateMax = def.NitrateMax
	}
	if s.NitratePenalty == 0 {
		s.NitratePenalty = def.NitratePenalty
	}
	if s.TurbidityMax == 0 {
		s.TurbidityMax = def.TurbidityMax
	}
	if s.TurbidityPenalty == 0 {
		s.TurbidityPenalty = def.TurbidityPenalty
	}
	if s.AlertNitrateThreshold == 0 {
		s.AlertNitrateThreshold = def.AlertNitrateThreshold
	}
	if s.AlertProbability == 0 {
		s.AlertProbability = def.AlertProbability
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort)
	}
	if c.Sim.TickInterval < 0 {
		return fmt.Errorf("simulation.tick_interval must be positive, got %v", c.Sim.TickInterval)
	}
	if c.Client.MaxReconnects < 0 {
		return fmt.Errorf("client.max_reconnects must not be negative, got %d", c.Client.MaxReconnects)
	}
	if c.Scoring.AlertProbability < 0 || c.Scoring.AlertProbability > 1 {
		return fmt.Errorf("scoring.alert_probability %v out of range [0,1]", c.Scoring.AlertProbability)
	}
	for i, s := range c.Sites {
		if s.Name == "" {
			return fmt.Errorf("sites[%d]: name is required", i)
		}
		switch s.Status {
		case "", "online", "offline", "maintenance":
		default:
			return fmt.Errorf("sites[%d]: unknown status %q", i, s.Status)
		}
	}
	return nil
}
