package force

import "math"

// Simulation defaults.
const (
	DefaultRepulsion      = -150
	DefaultLinkDistance   = 50
	DefaultCenterStrength = 0.1
	DefaultReheatTarget   = 0.3
	DefaultAlphaMin       = 0.001
	DefaultVelocityDecay  = 0.4
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

type config struct {
	repulsion      float64
	linkDistance   float64
	centerStrength float64
	reheatTarget   float64
	alphaMin       float64
	alphaDecay     float64
	velocityDecay  float64
	seed           uint64
	randomSpread   float64
}

func defaultConfig() config {
	return config{
		repulsion:      DefaultRepulsion,
		linkDistance:   DefaultLinkDistance,
		centerStrength: DefaultCenterStrength,
		reheatTarget:   DefaultReheatTarget,
		alphaMin:       DefaultAlphaMin,
		alphaDecay:     DefaultAlphaDecay,
		velocityDecay:  DefaultVelocityDecay,
	}
}

// Option configures a Simulation.
type Option func(*config)

// WithRepulsion sets the many-body strength. Negative values repel.
func WithRepulsion(strength float64) Option {
	return func(c *config) { c.repulsion = strength }
}

// WithLinkDistance sets the spring rest length.
func WithLinkDistance(d float64) Option {
	return func(c *config) { c.linkDistance = d }
}

// WithCenterStrength sets the pull toward the origin on each axis.
func WithCenterStrength(s float64) Option {
	return func(c *config) { c.centerStrength = s }
}

// WithReheatTarget sets the alpha target used while a drag is active.
func WithReheatTarget(a float64) Option {
	return func(c *config) { c.reheatTarget = a }
}

// WithAlphaMin sets the threshold below which Converged reports true.
func WithAlphaMin(a float64) Option {
	return func(c *config) { c.alphaMin = a }
}

// WithAlphaDecay sets the per-tick cooling rate.
func WithAlphaDecay(d float64) Option {
	return func(c *config) { c.alphaDecay = d }
}

// WithVelocityDecay sets the fraction of velocity lost per tick.
func WithVelocityDecay(d float64) Option {
	return func(c *config) { c.velocityDecay = d }
}

// WithSeed seeds the generator used for random starts and for separating
// coincident nodes.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// WithRandomStart scatters nodes uniformly in [-spread, spread] on both axes
// instead of the default phyllotaxis spiral.
func WithRandomStart(spread float64) Option {
	return func(c *config) { c.randomSpread = spread }
}
