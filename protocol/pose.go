package protocol

// Pose 本客户端随 move 事件附带的载荷
// 其他发送者可以附带任意结构，中继不做校验。
type Pose struct {
	Seq uint64  `json:"seq,omitempty"` // 发送端单调递增序号，可选
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	QX  float64 `json:"qx"`
	QY  float64 `json:"qy"`
	QZ  float64 `json:"qz"`
	QW  float64 `json:"qw"`
}

// IdentityPose 原点、单位四元数
func IdentityPose() Pose {
	return Pose{QW: 1}
}
