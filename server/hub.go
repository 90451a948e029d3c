package server

import (
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"airship/protocol"
)

// Peer 中继视角下的连接发送端
type Peer interface {
	// Enqueue 非阻塞投递，返回 false 表示已关闭或队列已满（消息被丢弃）
	Enqueue(b []byte) bool
	Close()
}

// Hub 转发中心：维护在线连接集合，将 move 原样广播给其他连接
// 不做任何模拟或校验，载荷对其不透明。
type Hub struct {
	mu    sync.RWMutex
	peers map[ConnectionHandle]Peer

	metrics *HubMetrics
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		peers:   make(map[ConnectionHandle]Peer),
		metrics: &HubMetrics{},
		log:     log,
	}
}

// OnConnect 登记连接
func (h *Hub) OnConnect(handle ConnectionHandle, p Peer) {
	h.mu.Lock()
	h.peers[handle] = p
	n := len(h.peers)
	h.mu.Unlock()

	h.metrics.IncConnected()
	h.log.Infof("A player connected: %s (live=%d)", handle, n)
}

// OnMovement 将载荷原样转发给除发送者外的所有在线连接（fire-and-forget）
func (h *Hub) OnMovement(handle ConnectionHandle, payload json.RawMessage) {
	h.metrics.IncMoveReceived()
	if len(payload) == 0 {
		// 缺省载荷按 null 转发，仍不做校验
		payload = json.RawMessage("null")
	}
	b, err := protocol.EncodeRaw(protocol.EventPlayerMoved, string(handle), payload)
	if err != nil {
		h.log.Warnf("encode playerMoved from %s: %v", handle, err)
		return
	}

	// 先在读锁下取快照，写出时不持锁
	h.mu.RLock()
	targets := make([]Peer, 0, len(h.peers))
	for id, p := range h.peers {
		if id == handle {
			continue
		}
		targets = append(targets, p)
	}
	h.mu.RUnlock()

	for _, p := range targets {
		if p.Enqueue(b) {
			h.metrics.IncRelayed()
		} else {
			h.metrics.IncDropped()
		}
	}
}

// OnDisconnect 移除连接并关闭其发送端；不通知其他玩家
func (h *Hub) OnDisconnect(handle ConnectionHandle) {
	h.mu.Lock()
	p, ok := h.peers[handle]
	if ok {
		delete(h.peers, handle)
	}
	n := len(h.peers)
	h.mu.Unlock()

	if !ok {
		return
	}
	p.Close()
	h.metrics.IncDisconnected()
	h.log.Infof("Player disconnected: %s (live=%d)", handle, n)
}

// Close 关闭全部连接，用于进程退出
func (h *Hub) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[ConnectionHandle]Peer)
	h.mu.Unlock()

	for _, p := range peers {
		p.Close()
	}
}

// Handles 返回当前在线句柄（排序后）
func (h *Hub) Handles() []ConnectionHandle {
	h.mu.RLock()
	out := make([]ConnectionHandle, 0, len(h.peers))
	for id := range h.peers {
		out = append(out, id)
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) Metrics() *HubMetrics { return h.metrics }
