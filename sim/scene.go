package sim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform 渲染用位姿：本地实体来自刚体，远端实体来自收到的消息
type Transform struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

func IdentityTransform() Transform {
	return Transform{Orientation: mgl64.QuatIdent()}
}

// Camera 追尾相机
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
}

// View 观察矩阵
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Scene 每帧渲染的实体位姿集合
// 只在模拟循环所在协程内访问。
type Scene struct {
	Local  Transform
	remote map[string]*Transform
}

func NewScene() *Scene {
	return &Scene{
		Local:  IdentityTransform(),
		remote: make(map[string]*Transform),
	}
}

// SetRemote 覆盖远端实体位姿，不存在则创建；返回是否新建
func (s *Scene) SetRemote(id string, t Transform) bool {
	if cur, ok := s.remote[id]; ok {
		*cur = t
		return false
	}
	s.remote[id] = &t
	return true
}

func (s *Scene) Remote(id string) (Transform, bool) {
	t, ok := s.remote[id]
	if !ok {
		return Transform{}, false
	}
	return *t, true
}

// RemoteIDs 远端实体 ID（排序后）
func (s *Scene) RemoteIDs() []string {
	ids := make([]string, 0, len(s.remote))
	for id := range s.remote {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Renderer 外部渲染协作方：每帧调用一次 Render，拆除时 Close
type Renderer interface {
	Render(scene *Scene, cam Camera) error
	Close() error
}
