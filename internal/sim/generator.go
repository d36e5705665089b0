package sim

import (
	"math/rand"

	"github.com/riverwatch/riverwatch/internal/model"
)

// Baseline sensor values for a healthy river site, and the half-width of the
// uniform noise band applied around each one per tick.
const (
	basePH         = 7.2
	noisePH        = 0.2
	baseTemp       = 18.5
	noiseTemp      = 1.0
	baseOxygen     = 8.3
	noiseOxygen    = 0.5
	baseNitrates   = 2.1
	noiseNitrates  = 0.4
	baseTurbidity  = 5.2
	noiseTurbidity = 1.0
)

// Generator synthesizes sensor measurements by perturbing fixed baselines
// with independent uniform noise. The random source is injectable so tests
// can pin the output.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a Generator drawing from rnd.
func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Generate produces one full set of measurements. Nitrates and turbidity
// are clamped at zero; concentrations cannot go negative.
func (g *Generator) Generate() model.Measurements {
	return model.Measurements{
		PHLevel:         basePH + g.noise(noisePH),
		Temperature:     baseTemp + g.noise(noiseTemp),
		DissolvedOxygen: baseOxygen + g.noise(noiseOxygen),
		Nitrates:        clampZero(baseNitrates + g.noise(noiseNitrates)),
		Turbidity:       clampZero(baseTurbidity + g.noise(noiseTurbidity)),
	}
}

// noise returns a uniform draw in [-half, half).
func (g *Generator) noise(half float64) float64 {
	return (g.rnd.Float64() - 0.5) * 2 * half
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
