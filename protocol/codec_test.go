package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePose(t *testing.T) {
	b, err := Encode(EventMove, Pose{Seq: 7, X: 1, Y: 2, Z: 3, QW: 1})
	require.NoError(t, err)

	env, err := DecodeEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, EventMove, env.T)
	assert.Empty(t, env.From)

	p, err := DecodePayload[Pose](env)
	require.NoError(t, err)
	assert.Equal(t, Pose{Seq: 7, X: 1, Y: 2, Z: 3, QW: 1}, p)
}

func TestEncodeRejectsEmpty(t *testing.T) {
	_, err := Encode("", Pose{})
	assert.ErrorIs(t, err, ErrEmptyType)

	_, err = Encode(EventMove, nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = EncodeRaw(EventPlayerMoved, "a", nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestEncodeRawKeepsPayloadBytes(t *testing.T) {
	// 空白与 HTML 字符必须原样保留
	raw := json.RawMessage(`{ "x" : 1,  "note":"<a&b>" }`)
	b, err := EncodeRaw(EventPlayerMoved, "peer-1", raw)
	require.NoError(t, err)

	env, err := DecodeEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, EventPlayerMoved, env.T)
	assert.Equal(t, "peer-1", env.From)
	assert.Equal(t, string(raw), string(env.P))
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	_, err := DecodeEnvelope(nil)
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodePayload[Pose](Envelope{T: EventMove})
	assert.Error(t, err)
}
