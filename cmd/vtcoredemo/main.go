// Command vtcoredemo exercises a Terminal with a short script of ANSI
// sequences and prints the resulting screen content.
package main

import (
	"fmt"
	"strings"

	"github.com/coreterm/vtcore"
)

type titlePrinter struct{}

func (titlePrinter) SetTitle(title string) { fmt.Printf("[title] %s\n", title) }
func (titlePrinter) PushTitle()            {}
func (titlePrinter) PopTitle()             {}

func render(term *vtcore.Terminal) string {
	var sb strings.Builder
	for row := 0; row < term.Rows(); row++ {
		for col := 0; col < term.Cols(); col++ {
			cell, err := term.CellAt(row, col)
			if err != nil {
				continue
			}
			r, ok := cell.Seq.Rune()
			if !ok {
				r = ' '
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func main() {
	term := vtcore.New(vtcore.WithSize(6, 40), vtcore.WithTitle(titlePrinter{}))

	term.Write([]byte("\x1b]0;vtcoredemo\x07"))
	term.Write([]byte("\x1b[31mHello \x1b[32mWorld\x1b[0m!\r\n"))
	term.Write([]byte("\x1b[1;4mBold and Underlined\x1b[0m\r\n"))
	term.Write([]byte("Normal text\r\n"))
	term.Write([]byte("\x1b[2J\x1b[H"))
	term.Write([]byte("After clear"))

	fmt.Println("=== Terminal Content ===")
	fmt.Print(render(term))

	row, col := term.CursorPosition()
	fmt.Printf("Cursor position: row=%d, col=%d\n", row, col)
}
