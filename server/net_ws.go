package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"airship/config"
	"airship/protocol"
)

const writeWait = 5 * time.Second

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClientConn(ws *websocket.Conn, queue int) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, queue),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		// 为了实时性，丢弃新消息（防止阻塞广播）
		return false
	}
}

// Close 关闭发送队列，写协程随之发送 close 帧并关闭底层连接
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump(pingEvery time.Duration) {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Server 中继进程：WebSocket 接入 + 管理接口
type Server struct {
	cfg      config.RelayConfig
	hub      *Hub
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewServer(cfg config.RelayConfig, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		cfg: cfg,
		hub: NewHub(log),
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// 原型环境：允许所有来源
				return true
			},
		},
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Handler 路由：WebSocket 接入、指标、在线列表、健康检查
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.HandleWS)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/admin/peers", s.handlePeers)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// HandleWS WebSocket 接入：每个连接一个读协程、一个写协程
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("upgrade error: %v", err)
		return
	}

	handle := NewConnectionHandle()
	client := NewClientConn(ws, s.cfg.SendQueue)
	s.hub.OnConnect(handle, client)

	go client.writePump(s.cfg.PingInterval)
	go s.readPump(client, handle)
}

// readPump 读取客户端事件：move 交给 Hub 转发，其余类型忽略
func (s *Server) readPump(c *ClientConn, handle ConnectionHandle) {
	// 读泵退出即视为断开
	defer s.hub.OnDisconnect(handle)

	pongWait := 2 * s.cfg.PingInterval
	c.ws.SetReadLimit(s.cfg.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debugf("read %s: %v", handle, err)
			}
			return
		}
		env, err := protocol.DecodeEnvelope(payload)
		if err != nil {
			continue
		}
		if env.T != protocol.EventMove {
			continue
		}
		s.hub.OnMovement(handle, env.P)
	}
}
