package vtcore

import "testing"

type countingHandler struct{ normals int }

func (h *countingHandler) Normal(seq Seq)                              { h.normals++ }
func (h *countingHandler) Control(c byte)                              {}
func (h *countingHandler) Escape(c byte)                               {}
func (h *countingHandler) CSI(private bool, params []int, final byte)  {}
func (h *countingHandler) DCS(data []byte)                             {}
func (h *countingHandler) OSC(parts []string)                          {}
func (h *countingHandler) Special(intro, code byte)                    {}

func TestMiddlewareNormalIntercept(t *testing.T) {
	inner := &countingHandler{}
	var intercepted int
	mw := &Middleware{
		Normal: func(seq Seq, next func(Seq)) {
			intercepted++
			next(seq)
		},
	}

	h := mw.Wrap(inner)
	h.Normal(encodeRune('x'))
	h.Normal(encodeRune('y'))

	if intercepted != 2 || inner.normals != 2 {
		t.Fatalf("intercepted=%d inner.normals=%d, want 2 and 2", intercepted, inner.normals)
	}
}

func TestMiddlewarePassthroughWhenUnset(t *testing.T) {
	inner := &countingHandler{}
	mw := &Middleware{}
	h := mw.Wrap(inner)
	h.Normal(encodeRune('z'))

	if inner.normals != 1 {
		t.Fatalf("inner.normals=%d, want 1", inner.normals)
	}
}
