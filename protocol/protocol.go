package protocol

import "encoding/json"

// 事件名（与浏览器端 socket 事件保持一致）
const (
	EventMove        = "move"        // 客户端 → 中继
	EventPlayerMoved = "playerMoved" // 中继 → 其他客户端
)

// Envelope 所有 WebSocket 文本帧的外层结构
// 示例：{"t":"move","p":{"x":1,"y":2,"z":3}}
//
// P 保持原始字节：中继不解析、不修改载荷。From 仅由中继填写，
// 用于接收端按发送者区分远端实体。
type Envelope struct {
	T    string          `json:"t"`
	From string          `json:"from,omitempty"`
	P    json.RawMessage `json:"p"`
}
