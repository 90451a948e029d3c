package sim

import "github.com/go-gl/mathgl/mgl64"

const (
	BodyMass       = 5.0
	BodyHalfExtent = 1.0
	ThrustForce    = 100.0 // 每次前进/后退按键施加的力
	TurnTorque     = 50.0  // 左/右转向按住时的力矩
	LinearDamping  = 0.01
	AngularDamping = 0.01
)

var (
	StartPosition = mgl64.Vec3{0, 0, 5}
	CameraOffset  = mgl64.Vec3{0, 0, 10} // 相对机体位置的世界坐标偏移
	CameraUp      = mgl64.Vec3{0, 1, 0}
	ForwardAxis   = mgl64.Vec3{0, 1, 0} // 机体局部前进方向
	TurnAxis      = mgl64.Vec3{0, 0, 1}
)
