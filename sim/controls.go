package sim

import (
	"strings"
	"time"
)

// Key 方向键
type Key int

const (
	KeyNone Key = iota
	KeyForward
	KeyBack
	KeyLeft
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyForward:
		return "forward"
	case KeyBack:
		return "back"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "none"
	}
}

// ParseKey 将按键名（浏览器 key 或 WASD）映射为方向键
func ParseKey(name string) Key {
	switch strings.ToLower(name) {
	case "arrowup", "up", "w":
		return KeyForward
	case "arrowdown", "down", "s":
		return KeyBack
	case "arrowleft", "left", "a":
		return KeyLeft
	case "arrowright", "right", "d":
		return KeyRight
	default:
		return KeyNone
	}
}

// Controls 按住的按键集合
//
// 前进/后退：每次按下在下一个物理步施加一次推力（恰好一次）。
// 左/右：按住期间每步重新计算力矩；没有松开事件的输入源（终端）
// 以 holdWindow 作为按住时长，自动重复会刷新按下时间。
type Controls struct {
	holdWindow time.Duration
	held       map[Key]time.Duration // 最近一次按下的模拟时间
	thrust     float64               // 待施加的推力次数（前进 +1，后退 -1）
}

func NewControls(holdWindow time.Duration) *Controls {
	return &Controls{
		holdWindow: holdWindow,
		held:       make(map[Key]time.Duration),
	}
}

// Press 记录一次按下
func (c *Controls) Press(k Key, now time.Duration) {
	switch k {
	case KeyForward:
		c.thrust++
	case KeyBack:
		c.thrust--
	case KeyLeft, KeyRight:
		c.held[k] = now
	}
}

// Release 松开按键
func (c *Controls) Release(k Key) {
	delete(c.held, k)
}

// Held 按键在 now 时刻是否仍视为按住
func (c *Controls) Held(k Key, now time.Duration) bool {
	at, ok := c.held[k]
	if !ok {
		return false
	}
	if now-at >= c.holdWindow {
		delete(c.held, k)
		return false
	}
	return true
}

// Turn 当前转向：左 +1，右 -1，同时按住相互抵消
func (c *Controls) Turn(now time.Duration) float64 {
	var turn float64
	if c.Held(KeyLeft, now) {
		turn++
	}
	if c.Held(KeyRight, now) {
		turn--
	}
	return turn
}

// TakeThrust 取出并清空待施加的推力
func (c *Controls) TakeThrust() float64 {
	t := c.thrust
	c.thrust = 0
	return t
}
