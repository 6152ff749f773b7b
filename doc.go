// Package vtcore provides a headless VT/xterm-compatible terminal
// emulator core: a byte-stream parser and screen model with no display
// attached, suitable for embedding in terminal multiplexers, recorders,
// CLI test harnesses, or web-facing terminal backends.
//
// # Quick start
//
//	term := vtcore.New(vtcore.WithSize(24, 80))
//	term.Write([]byte("\x1b[31mHello \x1b[32mWorld\x1b[0m!\r\n"))
//	row, col := term.CursorPosition()
//	cell, _ := term.CellAt(0, 0)
//
// # Architecture
//
// The package is organized around these types:
//
//   - [StateMachine]: parses a raw byte stream into VT escape-sequence
//     events (printable runes, control bytes, CSI/DCS/OSC/escape
//     sequences), dispatched to a [Handler].
//   - [Terminal]: implements [Handler] and owns the screen model — primary
//     and secondary [Text] buffers, [Cursor] state, scroll margins, tab
//     stops, and [Modes].
//   - [Text]: a paragraph-based screen model decoupled from physical rows.
//     Lines are stored unwrapped as [Paragraph]s and re-flowed to the
//     current column width on resize, so history survives a resize without
//     losing or duplicating content.
//   - [Repository]: a content-addressed, reference-counted store of
//     [Paragraph]s, deduplicating identical history lines.
//
// # Dual buffers
//
// Terminal maintains primary and secondary (alternate) buffers; only the
// primary carries scrollback history. Applications switch via CSI
// ?1049h/l, ?1047h/l, or ?47h/l, same as any xterm-derived emulator.
//
// # Observing changes
//
// A Terminal reports screen mutations through an [Observer]: per-line
// damage during a dispatch, or a coarse DamageAll for operations (resize,
// full erase, buffer swap) where precise tracking isn't worth it.
package vtcore
