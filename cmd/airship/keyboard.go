package main

import (
	"errors"
	"os"

	"golang.org/x/term"

	"airship/sim"
)

// keyboard 终端键盘：raw 模式读取 stdin
// 终端只有按下（含自动重复）事件，没有松开事件，按住时长由 holdWindow 决定。
type keyboard struct {
	fd  int
	old *term.State
}

func openKeyboard() (*keyboard, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &keyboard{fd: fd, old: old}, nil
}

// Close 恢复终端模式
func (k *keyboard) Close() error {
	return term.Restore(k.fd, k.old)
}

// pump 持续读取按键并投递到模拟循环，读到退出键时调用 quit
func (k *keyboard) pump(loop *sim.Loop, quit func()) {
	var p keyParser
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			quit()
			return
		}
		keys, stop := p.parse(buf[:n])
		for _, key := range keys {
			loop.Press(key)
		}
		if stop {
			quit()
			return
		}
	}
}

// 未完成转义序列的最大暂存长度，超过则丢弃
const maxPendingEscape = 16

// keyParser 解析终端字节流：方向键转义序列（CSI / SS3，可带修饰参数）、
// WASD、q / Ctrl-C 退出。跨两次读取的转义序列会暂存到下一次。
type keyParser struct {
	pending []byte
}

func (p *keyParser) parse(b []byte) (keys []sim.Key, quit bool) {
	buf := append(p.pending, b...)
	p.pending = nil
	for i := 0; i < len(buf); i++ {
		switch c := buf[i]; {
		case c == 0x03 || c == 'q' || c == 'Q':
			return keys, true
		case c == 0x1b:
			n, key, ok := escapeSequence(buf[i:])
			if !ok {
				p.pending = append([]byte(nil), buf[i:]...)
				return keys, false
			}
			if key != sim.KeyNone {
				keys = append(keys, key)
			}
			i += n - 1
		default:
			if k := letterKey(c); k != sim.KeyNone {
				keys = append(keys, k)
			}
		}
	}
	return keys, false
}

// escapeSequence 解析以 ESC 开头的序列，返回消耗的字节数；
// ok 为 false 表示序列尚未读完
func escapeSequence(b []byte) (n int, key sim.Key, ok bool) {
	if len(b) < 2 {
		return 0, sim.KeyNone, false
	}
	if b[1] != '[' && b[1] != 'O' {
		// 单独的 ESC
		return 1, sim.KeyNone, true
	}
	for j := 2; j < len(b); j++ {
		c := b[j]
		switch {
		case c >= 0x40 && c <= 0x7e:
			return j + 1, arrowKey(c), true
		case c >= 0x20 && c <= 0x3f:
			// 参数与中间字节
		default:
			// 不完整的序列被控制字符打断，从该字节继续解析
			return j, sim.KeyNone, true
		}
	}
	if len(b) >= maxPendingEscape {
		return len(b), sim.KeyNone, true
	}
	return 0, sim.KeyNone, false
}

func arrowKey(final byte) sim.Key {
	switch final {
	case 'A':
		return sim.KeyForward
	case 'B':
		return sim.KeyBack
	case 'C':
		return sim.KeyRight
	case 'D':
		return sim.KeyLeft
	default:
		return sim.KeyNone
	}
}

func letterKey(c byte) sim.Key {
	switch c {
	case 'w', 'a', 's', 'd', 'W', 'A', 'S', 'D':
		return sim.ParseKey(string(c))
	default:
		return sim.KeyNone
	}
}
