package web

const ParticleCount = 20

// Particle is one floating dot of the page background. Left and Top are
// percentages, Delay and Duration are seconds.
type Particle struct {
	Left     float64
	Top      float64
	Delay    float64
	Duration float64
}

// newParticles draws a fresh set on every render; rnd returns values in [0, 1).
func newParticles(rnd func() float64) []Particle {
	particles := make([]Particle, ParticleCount)
	for i := range particles {
		particles[i] = Particle{
			Left:     rnd() * 100,
			Top:      rnd() * 100,
			Delay:    rnd() * 3,
			Duration: 2 + rnd()*3,
		}
	}
	return particles
}
