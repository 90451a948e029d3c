package sim

import "github.com/go-gl/mathgl/mgl64"

// World 固定步长物理世界
type World struct {
	Gravity mgl64.Vec3
	bodies  []*Body
}

// NewWorld 零重力：实体悬浮而不下落
func NewWorld() *World {
	return &World{}
}

func (w *World) AddBody(b *Body) {
	w.bodies = append(w.bodies, b)
}

// Step 以固定 dt（秒）推进所有刚体
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		if b.Mass <= 0 {
			continue
		}
		b.integrate(dt, w.Gravity)
	}
}
