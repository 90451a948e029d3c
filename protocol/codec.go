package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyType    = errors.New("protocol: empty envelope type")
	ErrEmptyPayload = errors.New("protocol: empty payload")
)

// Encode 序列化载荷并包装为信封
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if payload == nil {
		return nil, ErrEmptyPayload
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// EncodeRaw 包装已序列化的载荷，字节原样写入 p 字段
// 不走 json.Marshal：它会压缩空白并转义 HTML 字符，改变载荷字节。
func EncodeRaw(t, from string, raw json.RawMessage) ([]byte, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}
	tb, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(raw) + len(from) + 32)
	buf.WriteString(`{"t":`)
	buf.Write(tb)
	if from != "" {
		fb, err := json.Marshal(from)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"from":`)
		buf.Write(fb)
	}
	buf.WriteString(`,"p":`)
	buf.Write(raw)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("protocol: decode envelope of size 0")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}

// DecodePayload 将信封载荷解析为目标类型 T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
