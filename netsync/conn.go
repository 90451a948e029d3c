package netsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"airship/protocol"
)

const (
	sendChSize     = 64
	incomingChSize = 256
	writeWait      = 5 * time.Second
)

var (
	ErrClosed        = errors.New("netsync: connection closed")
	ErrSendQueueFull = errors.New("netsync: send queue full")
)

// Conn 到中继的 WebSocket 连接：单写协程 + 单读协程，无重连
type Conn struct {
	conn     *ws.Conn
	sendCh   chan []byte
	incoming chan protocol.Envelope
	done     chan struct{}

	closeOnce sync.Once
	log       *zap.SugaredLogger
}

// Dial 连接中继并启动读写协程
func Dial(ctx context.Context, url string, log *zap.SugaredLogger) (*Conn, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	conn, _, err := ws.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", url, err)
	}
	c := &Conn{
		conn:     conn,
		sendCh:   make(chan []byte, sendChSize),
		incoming: make(chan protocol.Envelope, incomingChSize),
		done:     make(chan struct{}),
		log:      log,
	}
	go c.writeLoop()
	go c.readLoop()
	return c, nil
}

// Send 非阻塞投递到写协程；队列满时丢弃并返回 ErrSendQueueFull
func (c *Conn) Send(b []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.sendCh <- b:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Incoming 收到的 playerMoved 信封；连接结束时关闭
func (c *Conn) Incoming() <-chan protocol.Envelope { return c.incoming }

// Done 连接结束时关闭
func (c *Conn) Done() <-chan struct{} { return c.done }

// Close 发送 close 帧并结束读写协程
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Warnf("websocket set write deadline: %v", err)
				_ = c.Close()
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
				c.log.Warnf("websocket write: %v", err)
				_ = c.Close()
				return
			}
		}
	}
}

func (c *Conn) readLoop() {
	defer close(c.incoming)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warnf("websocket read: %v", err)
				_ = c.Close()
			}
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			c.log.Debugf("ignoring non-envelope frame: %v", err)
			continue
		}
		if env.T != protocol.EventPlayerMoved {
			continue
		}
		select {
		case c.incoming <- env:
		default:
			c.log.Debugf("incoming queue full, dropping move from %s", env.From)
		}
	}
}
