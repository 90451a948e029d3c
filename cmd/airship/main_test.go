package main

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"airship/sim"
)

func TestKeyParser(t *testing.T) {
	var p keyParser
	keys, quit := p.parse([]byte("\x1b[A\x1b[D\x1bOCws"))
	assert.False(t, quit)
	assert.Equal(t, []sim.Key{sim.KeyForward, sim.KeyLeft, sim.KeyRight, sim.KeyForward, sim.KeyBack}, keys)

	keys, quit = p.parse([]byte("ad\x03w"))
	assert.True(t, quit)
	assert.Equal(t, []sim.Key{sim.KeyLeft, sim.KeyRight}, keys)

	keys, quit = p.parse([]byte("xyz"))
	assert.False(t, quit)
	assert.Empty(t, keys)
}

func TestKeyParserModifiedArrows(t *testing.T) {
	var p keyParser
	// Ctrl+Up、Shift+Left、Home：末尾字母不能被当作 WASD
	keys, quit := p.parse([]byte("\x1b[1;5A\x1b[1;2D\x1b[H\x1b[3~"))
	assert.False(t, quit)
	assert.Equal(t, []sim.Key{sim.KeyForward, sim.KeyLeft}, keys)
}

func TestKeyParserSplitSequence(t *testing.T) {
	var p keyParser
	keys, _ := p.parse([]byte("w\x1b"))
	assert.Equal(t, []sim.Key{sim.KeyForward}, keys)

	keys, _ = p.parse([]byte("[D"))
	assert.Equal(t, []sim.Key{sim.KeyLeft}, keys)

	keys, _ = p.parse([]byte("\x1b[1;"))
	assert.Empty(t, keys)
	keys, _ = p.parse([]byte("5Cd"))
	assert.Equal(t, []sim.Key{sim.KeyRight, sim.KeyRight}, keys)
}

func TestKeyParserLoneEscape(t *testing.T) {
	var p keyParser
	keys, _ := p.parse([]byte("\x1b"))
	assert.Empty(t, keys)
	keys, quit := p.parse([]byte("aq"))
	assert.True(t, quit)
	assert.Equal(t, []sim.Key{sim.KeyLeft}, keys)

	// 被 Ctrl-C 打断的序列仍能退出
	_, quit = p.parse([]byte("\x1b[1\x03"))
	assert.True(t, quit)
}

func TestLogRendererThrottles(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newLogRenderer(zap.New(core).Sugar(), time.Second)
	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }

	scene := sim.NewScene()
	scene.Local.Position = mgl64.Vec3{1, 2, 3}
	scene.SetRemote("peer", sim.IdentityTransform())

	for i := 0; i < 10; i++ {
		require.NoError(t, r.Render(scene, sim.Camera{}))
		clock = clock.Add(200 * time.Millisecond)
	}
	// t=0 与 t=1s 各输出一次 frame + remote
	assert.Equal(t, 2, logs.FilterMessage("frame").Len())
	assert.Equal(t, 2, logs.FilterMessage("remote").Len())

	first := logs.FilterMessage("frame").All()[0].ContextMap()
	assert.Equal(t, 1.0, first["x"])
	assert.Equal(t, int64(1), first["remotes"])

	require.NoError(t, r.Close())
	assert.Equal(t, 1, logs.FilterMessage("renderer detached after 10 frames").Len())
}
