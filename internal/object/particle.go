package object

import (
	"math"
	"math/rand"
	"sync"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived pixel flying out of a clicked circle.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.92
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst emits count particles from the rim of a circle, flying outwards.
func SpawnBurst(rng *rand.Rand, x, y, radius float64, count int, speed, lifetime float64, spawner Spawner) {
	if spawner == nil || count <= 0 {
		return
	}

	step := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		// Evenly spread with a little jitter so bursts don't look stamped.
		angle := float64(i)*step + (rng.Float64()-0.5)*step*0.5
		spd := speed * (0.7 + rng.Float64()*0.6)
		life := lifetime * (0.6 + rng.Float64()*0.4)

		cos, sin := math.Cos(angle), math.Sin(angle)
		spawner.Spawn(NewParticle(x+cos*radius, y+sin*radius, cos*spd, sin*spd, life))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt

	// Particles leaving the play area are dropped.
	if p.X < 0 || p.Y < 0 || p.X > ctx.Bounds.Width || p.Y > ctx.Bounds.Height {
		return true, nil
	}
	return false, nil
}

// Draw renders the particle as a pixel on the canvas.
func (p *Particle) Draw(ctx DrawContext) error {
	// Skip faded particles (< 25% lifetime)
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return nil
	}
	ctx.Canvas.SetFloat(p.X, p.Y)
	return nil
}
