package main

import (
	"time"

	"go.uber.org/zap"

	"airship/sim"
)

// logRenderer 无界面渲染：按固定间隔把场景位姿写入日志
type logRenderer struct {
	log    *zap.SugaredLogger
	every  time.Duration
	now    func() time.Time
	last   time.Time
	frames uint64
}

func newLogRenderer(log *zap.SugaredLogger, every time.Duration) *logRenderer {
	return &logRenderer{log: log, every: every, now: time.Now}
}

func (r *logRenderer) Render(scene *sim.Scene, cam sim.Camera) error {
	r.frames++
	now := r.now()
	if !r.last.IsZero() && now.Sub(r.last) < r.every {
		return nil
	}
	r.last = now

	p := scene.Local.Position
	ids := scene.RemoteIDs()
	r.log.Infow("frame",
		"frames", r.frames,
		"x", p.X(), "y", p.Y(), "z", p.Z(),
		"camera", cam.Position,
		"remotes", len(ids),
	)
	for _, id := range ids {
		t, _ := scene.Remote(id)
		r.log.Debugw("remote", "id", id, "x", t.Position.X(), "y", t.Position.Y(), "z", t.Position.Z())
	}
	return nil
}

func (r *logRenderer) Close() error {
	r.log.Infof("renderer detached after %d frames", r.frames)
	return nil
}
