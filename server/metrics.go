package server

import (
	"sync/atomic"
)

// HubMetrics 记录中继运行期的关键计数（用于监控与调试）
type HubMetrics struct {
	Connects      int64 // 累计连接数
	Disconnects   int64 // 累计断开数
	MovesReceived int64 // 收到的 move 数
	Relayed       int64 // 成功入队的转发数
	Dropped       int64 // 因连接关闭或队列满被丢弃的转发数
}

func (m *HubMetrics) IncConnected() { atomic.AddInt64(&m.Connects, 1) }
func (m *HubMetrics) IncDisconnected() { atomic.AddInt64(&m.Disconnects, 1) }
func (m *HubMetrics) IncMoveReceived() { atomic.AddInt64(&m.MovesReceived, 1) }
func (m *HubMetrics) IncRelayed() { atomic.AddInt64(&m.Relayed, 1) }
func (m *HubMetrics) IncDropped() { atomic.AddInt64(&m.Dropped, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *HubMetrics) Snapshot() map[string]any {
	return map[string]any{
		"connects":       atomic.LoadInt64(&m.Connects),
		"disconnects":    atomic.LoadInt64(&m.Disconnects),
		"moves_received": atomic.LoadInt64(&m.MovesReceived),
		"relayed":        atomic.LoadInt64(&m.Relayed),
		"dropped":        atomic.LoadInt64(&m.Dropped),
	}
}
