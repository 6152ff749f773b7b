package vtcore

import "io"

// Observer receives the callbacks a Terminal raises as it processes
// writes: damage notification, title changes, and lifecycle events.
// Grounded on the teacher's per-concern Provider interfaces, consolidated
// into the single contract named by the spec's external-interfaces
// section. Damage coordinates are half-open.
type Observer interface {
	// BeginDispatch is called before a Terminal processes any bytes from
	// a Write call.
	BeginDispatch()
	// DamageCells is called for each line whose cells changed within a
	// dispatch. colBegin/colEnd are half-open.
	DamageCells(row, colBegin, colEnd int)
	// DamageAll is called when a coarser operation (resize, scroll,
	// buffer swap, full erase) makes precise per-line damage tracking
	// not worth computing.
	DamageAll()
	// ResetTitle is called when the window title is restored to its
	// default (e.g. on OSC 0/2 with an empty string, per host policy).
	ResetTitle()
	// SetTitle is called when OSC 0, 1 or 2 sets a new window title.
	SetTitle(title string)
	// ChildExited is called once when the byte source signals that the
	// child process has terminated.
	ChildExited(exitStatus int)
	// EndDispatch is called after a Write call's bytes have all been
	// processed.
	EndDispatch()
}

// NoopObserver implements Observer with no-ops, for callers that don't
// need every callback.
type NoopObserver struct{}

func (NoopObserver) BeginDispatch()                {}
func (NoopObserver) DamageCells(row, b, e int)     {}
func (NoopObserver) DamageAll()                    {}
func (NoopObserver) ResetTitle()                   {}
func (NoopObserver) SetTitle(title string)         {}
func (NoopObserver) ChildExited(exitStatus int)    {}
func (NoopObserver) EndDispatch()                  {}

var _ Observer = NoopObserver{}

// BellProvider handles BEL (0x07). Ring is a pure side-effect notification;
// the terminal model itself has no bell state.
type BellProvider interface {
	Ring()
}

// NoopBell ignores bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

var _ BellProvider = NoopBell{}

// TitleProvider handles window-title changes raised by OSC 0/1/2 and the
// XTerm title-stack extension (CSI 22t / CSI 23t).
type TitleProvider interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

// NoopTitle ignores all title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}
func (NoopTitle) PushTitle()            {}
func (NoopTitle) PopTitle()             {}

var _ TitleProvider = NoopTitle{}

// ClipboardProvider handles OSC 52 clipboard read/write requests. The
// clipboard byte selects the register ('c' for clipboard, 'p' for primary
// selection), matching xterm's convention.
type ClipboardProvider interface {
	Read(clipboard byte) string
	Write(clipboard byte, data []byte)
}

// NoopClipboard ignores all clipboard operations.
type NoopClipboard struct{}

func (NoopClipboard) Read(clipboard byte) string        { return "" }
func (NoopClipboard) Write(clipboard byte, data []byte) {}

var _ ClipboardProvider = NoopClipboard{}

// ResponseProvider writes terminal responses (device attributes, cursor
// position reports) back to the byte sink.
type ResponseProvider = io.Writer

// NoopResponse discards all response data.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

var _ ResponseProvider = NoopResponse{}
