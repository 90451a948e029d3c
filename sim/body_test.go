package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

func newTestBody() (*World, *Body) {
	w := NewWorld()
	b := NewBoxBody(BodyMass, mgl64.Vec3{1, 1, 1})
	b.Position = StartPosition
	w.AddBody(b)
	return w, b
}

func TestBodyNoDriftWithoutForces(t *testing.T) {
	w, b := newTestBody()
	for i := 0; i < 10_000; i++ {
		w.Step(dt)
	}
	assert.True(t, b.Position.ApproxEqual(StartPosition), "drifted to %v", b.Position)
	assert.True(t, b.Orientation.ApproxEqual(mgl64.QuatIdent()), "rotated to %v", b.Orientation)
}

func TestBodyForwardForceMovesAlongAxis(t *testing.T) {
	w, b := newTestBody()
	b.ApplyForce(mgl64.Vec3{0, ThrustForce, 0}, b.Position)
	w.Step(dt)

	assert.Greater(t, b.Position.Y(), StartPosition.Y())
	assert.InDelta(t, StartPosition.X(), b.Position.X(), 1e-12)
	assert.InDelta(t, StartPosition.Z(), b.Position.Z(), 1e-12)

	// 力与力矩在积分后清零
	assert.Equal(t, mgl64.Vec3{}, b.Force)
	assert.Equal(t, mgl64.Vec3{}, b.Torque)
}

func TestBodyOppositeForcesNoDoubleApplication(t *testing.T) {
	// 单次推力后自由滑行一步
	w1, single := newTestBody()
	single.ApplyForce(mgl64.Vec3{0, ThrustForce, 0}, single.Position)
	w1.Step(dt)
	w1.Step(dt)
	singleDelta := math.Abs(single.Position.Y() - StartPosition.Y())

	// 相邻两步先正后反
	w2, pair := newTestBody()
	pair.ApplyForce(mgl64.Vec3{0, ThrustForce, 0}, pair.Position)
	w2.Step(dt)
	pair.ApplyForce(mgl64.Vec3{0, -ThrustForce, 0}, pair.Position)
	w2.Step(dt)
	pairDelta := math.Abs(pair.Position.Y() - StartPosition.Y())

	assert.LessOrEqual(t, pairDelta, singleDelta)
	assert.InDelta(t, 0, pair.Velocity.Y(), 1e-3)
}

func TestBodyOffCentreForceProducesTorque(t *testing.T) {
	_, b := newTestBody()
	b.ApplyForce(mgl64.Vec3{0, 10, 0}, b.Position.Add(mgl64.Vec3{1, 0, 0}))
	assert.Equal(t, mgl64.Vec3{0, 0, 10}, b.Torque)
}

func TestBodyTorqueRotatesAboutZ(t *testing.T) {
	w, b := newTestBody()
	for i := 0; i < 30; i++ {
		b.Torque = mgl64.Vec3{0, 0, TurnTorque}
		w.Step(dt)
	}
	require.Greater(t, b.AngularVelocity.Z(), 0.0)
	assert.InDelta(t, 0, b.AngularVelocity.X(), 1e-12)
	assert.InDelta(t, 0, b.AngularVelocity.Y(), 1e-12)
	assert.InDelta(t, 1, b.Orientation.Len(), 1e-9)

	// 左转后前进方向偏向 -X
	fwd := b.Forward()
	assert.Less(t, fwd.X(), 0.0)
	assert.True(t, b.Position.ApproxEqual(StartPosition))
}

func TestBoxInertia(t *testing.T) {
	b := NewBoxBody(5, mgl64.Vec3{1, 1, 1})
	// I = m/12 * (2² + 2²) = 10/3
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 3.0/10, b.invInertia[i], 1e-12)
	}
}
