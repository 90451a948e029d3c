package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body 本地唯一的刚体（长方体），仅由物理步与输入处理修改
type Body struct {
	Mass        float64
	HalfExtents mgl64.Vec3

	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Orientation     mgl64.Quat
	AngularVelocity mgl64.Vec3

	// 累积力与力矩，每次积分后清零
	Force  mgl64.Vec3
	Torque mgl64.Vec3

	LinearDamping  float64
	AngularDamping float64

	invInertia mgl64.Vec3 // 局部坐标系下的对角惯量倒数
}

// NewBoxBody 创建长方体刚体，mass 必须 > 0
func NewBoxBody(mass float64, halfExtents mgl64.Vec3) *Body {
	b := &Body{
		Mass:           mass,
		HalfExtents:    halfExtents,
		Orientation:    mgl64.QuatIdent(),
		LinearDamping:  LinearDamping,
		AngularDamping: AngularDamping,
	}
	sx, sy, sz := 2*halfExtents.X(), 2*halfExtents.Y(), 2*halfExtents.Z()
	inertia := mgl64.Vec3{
		mass / 12 * (sy*sy + sz*sz),
		mass / 12 * (sx*sx + sz*sz),
		mass / 12 * (sx*sx + sy*sy),
	}
	for i := 0; i < 3; i++ {
		if inertia[i] > 0 {
			b.invInertia[i] = 1 / inertia[i]
		}
	}
	return b
}

// ApplyForce 在世界坐标点施加力；偏离质心的部分同时产生力矩
func (b *Body) ApplyForce(force, worldPoint mgl64.Vec3) {
	b.Force = b.Force.Add(force)
	r := worldPoint.Sub(b.Position)
	b.Torque = b.Torque.Add(r.Cross(force))
}

// integrate 半隐式欧拉积分一步，结束后清空累积力与力矩
func (b *Body) integrate(dt float64, gravity mgl64.Vec3) {
	invMass := 1 / b.Mass
	b.Velocity = b.Velocity.Add(b.Force.Mul(invMass * dt)).Add(gravity.Mul(dt))

	// 世界坐标力矩 → 局部 → 乘惯量倒数 → 回到世界
	local := b.Orientation.Conjugate().Rotate(b.Torque)
	angAcc := b.Orientation.Rotate(mgl64.Vec3{
		local.X() * b.invInertia.X(),
		local.Y() * b.invInertia.Y(),
		local.Z() * b.invInertia.Z(),
	})
	b.AngularVelocity = b.AngularVelocity.Add(angAcc.Mul(dt))

	b.Velocity = b.Velocity.Mul(math.Pow(1-b.LinearDamping, dt))
	b.AngularVelocity = b.AngularVelocity.Mul(math.Pow(1-b.AngularDamping, dt))

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	if b.AngularVelocity.Len() > 0 {
		spin := mgl64.Quat{V: b.AngularVelocity}.Mul(b.Orientation).Scale(0.5 * dt)
		b.Orientation = b.Orientation.Add(spin).Normalize()
	}

	b.Force = mgl64.Vec3{}
	b.Torque = mgl64.Vec3{}
}

// Forward 机体当前朝向下的前进方向（世界坐标）
func (b *Body) Forward() mgl64.Vec3 {
	return b.Orientation.Rotate(ForwardAxis)
}
