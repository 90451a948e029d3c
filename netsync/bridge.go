package netsync

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"airship/config"
	"airship/protocol"
	"airship/sim"
)

// Sender 发送端口，由 Conn 实现
type Sender interface {
	Send(b []byte) error
}

// BridgeStats 同步桥计数
type BridgeStats struct {
	Sent       uint64
	SendFailed uint64
	Applied    uint64
	Stale      uint64
	Undecoded  uint64
}

// Bridge 网络同步桥：本地位姿发往中继，远端消息直接覆盖渲染位姿
//
// 远端实体按发送者句柄区分，首次收到时创建；不插值、不外推。
// 默认以到达顺序为准（后到覆盖先到）；dropStale 打开时按 seq 丢弃旧消息。
type Bridge struct {
	out   Sender
	scene *sim.Scene
	cfg   config.ClientConfig
	log   *zap.SugaredLogger

	seq     uint64
	lastSeq map[string]uint64
	stats   BridgeStats
}

func NewBridge(out Sender, scene *sim.Scene, cfg config.ClientConfig, log *zap.SugaredLogger) *Bridge {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bridge{
		out:     out,
		scene:   scene,
		cfg:     cfg,
		log:     log,
		lastSeq: make(map[string]uint64),
	}
}

func (b *Bridge) Stats() BridgeStats { return b.stats }

// SendLocalMovement 发送本地位姿（fire-and-forget），序号单调递增
func (b *Bridge) SendLocalMovement(p protocol.Pose) error {
	b.seq++
	p.Seq = b.seq
	msg, err := protocol.Encode(protocol.EventMove, p)
	if err != nil {
		return err
	}
	if err := b.out.Send(msg); err != nil {
		b.stats.SendFailed++
		return fmt.Errorf("send move #%d: %w", p.Seq, err)
	}
	b.stats.Sent++
	return nil
}

// AfterStep 按发送策略决定本步是否发送
func (b *Bridge) AfterStep(step uint64, body *sim.Body, inputChanged bool) {
	send := inputChanged
	if b.cfg.SendPolicy == config.SendPolicyStep && step%uint64(b.cfg.SendEvery) == 0 {
		send = true
	}
	if !send {
		return
	}
	if err := b.SendLocalMovement(PoseFromBody(body)); err != nil {
		b.log.Debugf("%v", err)
	}
}

// remotePose 接收端解析结构：缺省位置为 0，缺省朝向为单位四元数
// seq 由发送方决定格式，原样保留，仅在 dropStale 时解析。
type remotePose struct {
	Seq json.RawMessage `json:"seq"`
	X   float64         `json:"x"`
	Y   float64         `json:"y"`
	Z   float64         `json:"z"`
	QX  *float64        `json:"qx"`
	QY  *float64        `json:"qy"`
	QZ  *float64        `json:"qz"`
	QW  *float64        `json:"qw"`
}

// OnRemoteMovement 用收到的载荷覆盖发送者对应实体的渲染位姿
func (b *Bridge) OnRemoteMovement(from string, payload json.RawMessage) {
	if from == "" {
		from = "remote"
	}
	var rp remotePose
	if err := json.Unmarshal(payload, &rp); err != nil {
		// 不校验也不恢复：该实体保持上一帧位姿
		b.stats.Undecoded++
		b.log.Debugf("undecodable move from %s: %v", from, err)
		return
	}
	if seq, ok := parseSeq(rp.Seq); ok && b.cfg.DropStale {
		if last, seen := b.lastSeq[from]; seen && seq <= last {
			b.stats.Stale++
			return
		}
		b.lastSeq[from] = seq
	}

	t := sim.Transform{
		Position:    mgl64.Vec3{rp.X, rp.Y, rp.Z},
		Orientation: mgl64.QuatIdent(),
	}
	if rp.QX != nil || rp.QY != nil || rp.QZ != nil || rp.QW != nil {
		t.Orientation = mgl64.Quat{
			W: deref(rp.QW),
			V: mgl64.Vec3{deref(rp.QX), deref(rp.QY), deref(rp.QZ)},
		}.Normalize()
	}
	if b.scene.SetRemote(from, t) {
		b.log.Infof("remote player %s appeared", from)
	}
	b.stats.Applied++
}

// PoseFromBody 本客户端附带的位姿载荷
func PoseFromBody(body *sim.Body) protocol.Pose {
	return protocol.Pose{
		X:  body.Position.X(),
		Y:  body.Position.Y(),
		Z:  body.Position.Z(),
		QX: body.Orientation.V.X(),
		QY: body.Orientation.V.Y(),
		QZ: body.Orientation.V.Z(),
		QW: body.Orientation.W,
	}
}

// parseSeq 只接受非负整数；其他形式视为没有 seq，按到达顺序应用
func parseSeq(raw json.RawMessage) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(string(raw), 10, 64)
	return n, err == nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

var _ sim.Sync = (*Bridge)(nil)
