package game

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbles/components"
	"github.com/pthm-cable/bubbles/config"
	"github.com/pthm-cable/bubbles/renderer"
	"github.com/pthm-cable/bubbles/shading"
)

// spawnBubbles creates the configured number of bubble entities. Radii are
// biased toward the small end by raising the uniform sample to a power;
// positions are inset by the radius so no disk starts outside the domain.
func (g *Game) spawnBubbles() {
	cfg := config.Cfg()
	b := cfg.Bubbles
	size := cfg.Derived.Size32

	for i := 0; i < b.Count; i++ {
		biased := float32(math.Pow(float64(g.rng.Float32()), b.RadiusBias))
		r := shading.Lerp(float32(b.RadiusMin), float32(b.RadiusMax), biased) * size

		pos := components.Position{
			X: frand(g.rng, r, 2*size-r),
			Y: frand(g.rng, r, 2*size-r),
		}
		vel := components.Velocity{
			X: (g.rng.Float32() - 0.5) * float32(b.Speed) * size,
			Y: (g.rng.Float32() - 0.5) * float32(b.Speed) * size,
		}
		body := components.Body{Radius: r}
		tint := components.Tint{
			R: frand(g.rng, float32(b.ColorMin), float32(b.ColorMax)),
			G: frand(g.rng, float32(b.ColorMin), float32(b.ColorMax)),
			B: frand(g.rng, float32(b.ColorMin), float32(b.ColorMax)),
			A: frand(g.rng, float32(b.AlphaMin), float32(b.AlphaMax)),
		}

		g.bubbleMapper.NewEntity(&pos, &vel, &body, &tint)
	}
	g.count = b.Count
}

// Instances packs the bubble set in entity order for upload to the backend.
func (g *Game) Instances() []renderer.Instance {
	out := make([]renderer.Instance, 0, g.count)
	query := g.bubbleFilter.Query()
	for query.Next() {
		pos, vel, body, tint := query.Get()
		out = append(out, renderer.Instance{
			X: pos.X, Y: pos.Y, Radius: body.Radius,
			DX: vel.X, DY: vel.Y,
			R: tint.R, G: tint.G, B: tint.B, A: tint.A,
		})
	}
	return out
}

// Regenerate discards the current bubble set, spawns a fresh one from the
// same random stream and re-uploads the instance buffer.
func (g *Game) Regenerate() {
	// Collect first; the query must finish before the world is modified.
	var toRemove []ecs.Entity
	query := g.bubbleFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, entity := range toRemove {
		g.bubbleMapper.Remove(entity)
	}

	g.spawnBubbles()
	g.backend.Upload(g.Instances())
	slog.Info("bubbles regenerated", "count", g.count)
}

func frand(rng *rand.Rand, lo, hi float32) float32 {
	return shading.Lerp(lo, hi, rng.Float32())
}
