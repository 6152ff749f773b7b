package vtcore

// Middleware intercepts StateMachine callbacks before they reach the
// underlying Handler, using the same "wrap with next" shape as the
// teacher's ansicode-handler interception. Each field is optional; a nil
// field passes straight through to the wrapped Handler. Grounded on
// Middleware, rescoped from one field per ansicode.Handler method to one
// field per StateMachine callback, since this module's dispatch surface
// is the seven VT automaton events rather than ansicode's per-escape
// method set.
type Middleware struct {
	Normal  func(seq Seq, next func(Seq))
	Control func(c byte, next func(byte))
	Escape  func(c byte, next func(byte))
	CSI     func(private bool, params []int, final byte, next func(bool, []int, byte))
	DCS     func(data []byte, next func([]byte))
	OSC     func(parts []string, next func([]string))
	Special func(intro, code byte, next func(byte, byte))
}

// Wrap returns a Handler that routes each callback through mw (where set)
// before delegating to h.
func (mw *Middleware) Wrap(h Handler) Handler {
	return &middlewareHandler{mw: mw, next: h}
}

type middlewareHandler struct {
	mw   *Middleware
	next Handler
}

func (w *middlewareHandler) Normal(seq Seq) {
	if w.mw.Normal != nil {
		w.mw.Normal(seq, w.next.Normal)
		return
	}
	w.next.Normal(seq)
}

func (w *middlewareHandler) Control(c byte) {
	if w.mw.Control != nil {
		w.mw.Control(c, w.next.Control)
		return
	}
	w.next.Control(c)
}

func (w *middlewareHandler) Escape(c byte) {
	if w.mw.Escape != nil {
		w.mw.Escape(c, w.next.Escape)
		return
	}
	w.next.Escape(c)
}

func (w *middlewareHandler) CSI(private bool, params []int, final byte) {
	if w.mw.CSI != nil {
		w.mw.CSI(private, params, final, w.next.CSI)
		return
	}
	w.next.CSI(private, params, final)
}

func (w *middlewareHandler) DCS(data []byte) {
	if w.mw.DCS != nil {
		w.mw.DCS(data, w.next.DCS)
		return
	}
	w.next.DCS(data)
}

func (w *middlewareHandler) OSC(parts []string) {
	if w.mw.OSC != nil {
		w.mw.OSC(parts, w.next.OSC)
		return
	}
	w.next.OSC(parts)
}

func (w *middlewareHandler) Special(intro, code byte) {
	if w.mw.Special != nil {
		w.mw.Special(intro, code, w.next.Special)
		return
	}
	w.next.Special(intro, code)
}

var _ Handler = (*middlewareHandler)(nil)
