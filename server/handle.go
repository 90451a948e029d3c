package server

import "github.com/google/uuid"

// ConnectionHandle 连接句柄：握手时生成，断开即失效，不与任何实体绑定
type ConnectionHandle string

func NewConnectionHandle() ConnectionHandle {
	return ConnectionHandle(uuid.NewString())
}
