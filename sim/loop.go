package sim

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"airship/config"
)

// Sync 网络同步端口（由 netsync.Bridge 实现），只在循环协程内被调用
type Sync interface {
	// AfterStep 每个物理步之后调用；inputChanged 表示本步控制量发生变化
	AfterStep(step uint64, body *Body, inputChanged bool)
	// OnRemoteMovement 应用远端玩家的移动消息
	OnRemoteMovement(from string, payload json.RawMessage)
}

type keyEvent struct {
	key     Key
	release bool
}

type remoteEvent struct {
	from    string
	payload json.RawMessage
}

// Loop 本地模拟上下文：持有世界、刚体、场景与相机，单协程推进
//
// 每帧：处理排队的输入与网络事件 → 累加器驱动若干固定物理步 →
// 刚体位姿复制到渲染位姿 → 更新追尾相机 → 渲染一次。
type Loop struct {
	cfg      config.ClientConfig
	stepDur  time.Duration
	stepSecs float64

	world    *World
	body     *Body
	scene    *Scene
	camera   Camera
	controls *Controls
	renderer Renderer
	syncer   Sync
	log      *zap.SugaredLogger

	inputChan  chan keyEvent
	remoteChan chan remoteEvent

	acc          time.Duration
	simTime      time.Duration
	steps        uint64
	lastTurn     float64
	inputChanged bool
	torque       mgl64.Vec3

	stopped  atomic.Bool
	quit     chan struct{}
	stopOnce sync.Once
}

// New 完成场景搭建：零重力世界、一个刚体、对应的渲染位姿与相机
func New(cfg config.ClientConfig, renderer Renderer, log *zap.SugaredLogger) *Loop {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	world := NewWorld()
	body := NewBoxBody(BodyMass, mgl64.Vec3{BodyHalfExtent, BodyHalfExtent, BodyHalfExtent})
	body.Position = StartPosition
	world.AddBody(body)

	l := &Loop{
		cfg:        cfg,
		stepDur:    time.Second / time.Duration(cfg.PhysicsHz),
		stepSecs:   1 / float64(cfg.PhysicsHz),
		world:      world,
		body:       body,
		scene:      NewScene(),
		controls:   NewControls(cfg.HoldWindow),
		renderer:   renderer,
		log:        log,
		inputChan:  make(chan keyEvent, 64),
		remoteChan: make(chan remoteEvent, 256), // 足够缓冲，避免网络读阻塞
		quit:       make(chan struct{}),
	}
	l.syncTransform()
	l.followCamera()
	return l
}

// Attach 挂接网络同步
func (l *Loop) Attach(s Sync) { l.syncer = s }

func (l *Loop) Scene() *Scene { return l.scene }
func (l *Loop) Body() *Body { return l.body }
func (l *Loop) Camera() Camera { return l.camera }
func (l *Loop) Steps() uint64 { return l.steps }
func (l *Loop) Torque() mgl64.Vec3 { return l.torque }

// SimTime 已推进的模拟时间（物理步数 × 步长）
func (l *Loop) SimTime() time.Duration { return l.simTime }

// Press 按键按下（任意协程可调用，非阻塞）
func (l *Loop) Press(k Key) { l.enqueueKey(keyEvent{key: k}) }

// Release 按键松开（任意协程可调用，非阻塞）
func (l *Loop) Release(k Key) { l.enqueueKey(keyEvent{key: k, release: true}) }

func (l *Loop) enqueueKey(ev keyEvent) {
	if ev.key == KeyNone || l.stopped.Load() {
		return
	}
	select {
	case l.inputChan <- ev:
	default:
		// 丢弃：输入拥塞时保证帧准时
	}
}

// Deliver 网络协程投递远端移动消息，在下一帧开始时应用
func (l *Loop) Deliver(from string, payload json.RawMessage) {
	if l.stopped.Load() {
		return
	}
	select {
	case l.remoteChan <- remoteEvent{from: from, payload: payload}:
	default:
		l.log.Debugf("remote queue full, dropping move from %s", from)
	}
}

// Frame 推进一帧，elapsed 为距上一帧的真实时间；返回本帧执行的物理步数
func (l *Loop) Frame(elapsed time.Duration) int {
	l.drainEvents()

	l.acc += elapsed
	n := 0
	for l.acc >= l.stepDur {
		if n == l.cfg.MaxSubSteps {
			dropped := l.acc / l.stepDur
			l.acc %= l.stepDur
			l.log.Debugf("frame fell behind, dropped %d physics steps", dropped)
			break
		}
		l.fixedStep()
		l.acc -= l.stepDur
		n++
	}

	l.syncTransform()
	l.followCamera()
	if l.renderer != nil {
		if err := l.renderer.Render(l.scene, l.camera); err != nil {
			l.log.Warnf("render: %v", err)
		}
	}
	return n
}

// drainEvents 非阻塞取出所有排队事件
func (l *Loop) drainEvents() {
	for {
		select {
		case ev := <-l.inputChan:
			if ev.release {
				l.controls.Release(ev.key)
			} else {
				l.controls.Press(ev.key, l.simTime)
			}
			l.inputChanged = true
		case ev := <-l.remoteChan:
			if l.syncer != nil {
				l.syncer.OnRemoteMovement(ev.from, ev.payload)
			}
		default:
			return
		}
	}
}

// fixedStep 由当前控制量计算力/力矩并推进一个固定物理步
func (l *Loop) fixedStep() {
	if thrust := l.controls.TakeThrust(); thrust != 0 {
		force := l.body.Forward().Mul(thrust * ThrustForce)
		l.body.ApplyForce(force, l.body.Position)
		l.inputChanged = true
	}
	turn := l.controls.Turn(l.simTime)
	if turn != l.lastTurn {
		l.inputChanged = true
		l.lastTurn = turn
	}
	l.torque = TurnAxis.Mul(turn * TurnTorque)
	l.body.Torque = l.body.Torque.Add(l.torque)

	l.world.Step(l.stepSecs)
	l.steps++
	l.simTime += l.stepDur

	if l.syncer != nil {
		l.syncer.AfterStep(l.steps, l.body, l.inputChanged)
	}
	l.inputChanged = false
}

func (l *Loop) syncTransform() {
	l.scene.Local.Position = l.body.Position
	l.scene.Local.Orientation = l.body.Orientation
}

func (l *Loop) followCamera() {
	l.camera = Camera{
		Position: l.body.Position.Add(CameraOffset),
		Target:   l.body.Position,
		Up:       CameraUp,
	}
}

// Run 以 frameHz 调度帧，直到 ctx 取消或 Stop
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.FrameHz))
	defer ticker.Stop()
	defer l.teardown()

	l.log.Infof("simulation running: physics=%dHz frame=%dHz", l.cfg.PhysicsHz, l.cfg.FrameHz)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.quit:
			return nil
		case now := <-ticker.C:
			l.Frame(now.Sub(last))
			last = now
		}
	}
}

// Stop 停止后续帧调度并不再接收输入
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.quit)
	})
}

func (l *Loop) teardown() {
	l.stopped.Store(true)
	if l.renderer != nil {
		if err := l.renderer.Close(); err != nil {
			l.log.Warnf("close renderer: %v", err)
		}
	}
	l.log.Infof("simulation stopped after %d steps", l.steps)
}
