package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment selects ESC a justification.
type Alignment byte

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Character sizes for GS !
const (
	FontNormal byte = 0x00
	FontDouble byte = 0x11
	FontWide   byte = 0x10
	FontTall   byte = 0x01
)

// Paper widths in characters of the default font.
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream. Column helpers measure text in
// runes and truncate anything that would wrap.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for a printer charWidth columns wide.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width is the line width in characters.
func (d *Document) Width() int { return d.width }

// Init sends ESC @, resetting the printer's modes.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Feed sends n line feeds.
func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) Align(a Alignment) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) Textf(format string, args ...any) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator fills one line with char.
func (d *Document) Separator(char rune) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// Columns prints left and right on one line with right flush to the edge.
// left is shortened when both do not fit.
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	left = truncate(left, room)
	pad := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	return d.Text(left + strings.Repeat(" ", pad) + right)
}

// ItemLine prints "2x Name" with the line total on the right.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.Columns(fmt.Sprintf("%dx %s", qty, name), total)
}

// Cut feeds past the tear bar and cuts the paper.
func (d *Document) Cut(partial bool) *Document {
	mode := byte(0x00)
	if partial {
		mode = 0x01
	}
	d.buf.Write([]byte{GS, 'V', mode})
	return d
}

// Bytes returns the accumulated stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "~"
}
