package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// Document builds an ESC/POS byte stream for thermal printers.
// Every printed line is mirrored into a plain-text rendering laid out the
// way the printer would lay it out, so documents can be previewed and
// inspected without hardware.
type Document struct {
	buf   bytes.Buffer
	plain strings.Builder
	width int // print width in characters (default 32 for 58mm, 48 for 80mm)
	align int
	font  byte
}

// Cell is one fixed-width column of a Row.
type Cell struct {
	Text  string
	Width int
	Right bool
}

// NewDocument creates a new ESC/POS document with the given character width.
// Common widths: 32 for 58mm paper, 48 for 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.align = AlignLeft
	d.font = FontNormal
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	d.plain.WriteByte('\n')
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.LineFeed()
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	d.align = align
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	d.font = size
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	d.mirror(s)
	return d
}

// Separator prints a full-width separator line (e.g. "--------------------------------").
func (d *Document) Separator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal           100,00"
func (d *Document) KeyValue(key, value string) *Document {
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	return d.Text(key + strings.Repeat(" ", spaces) + value)
}

// Row prints fixed-width cells separated by a single space. Left-aligned
// cell text longer than its width is truncated. Right-aligned cells hold
// amounts and are never truncated: a cell that needs more room widens and
// the widest left-aligned cell gives up the same number of columns.
func (d *Document) Row(cells ...Cell) *Document {
	cells = fitCells(cells)
	parts := make([]string, len(cells))
	for i, c := range cells {
		if c.Right {
			parts[i] = PadLeft(c.Text, c.Width)
		} else {
			parts[i] = PadRight(c.Text, c.Width)
		}
	}
	return d.Text(strings.TrimRight(strings.Join(parts, " "), " "))
}

// fitCells widens overflowing right-aligned cells. A left-aligned cell
// never shrinks below one column, so a row may exceed the paper width
// rather than lose digits.
func fitCells(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	copy(out, cells)

	extra := 0
	for i, c := range out {
		if n := utf8.RuneCountInString(c.Text); c.Right && n > c.Width {
			extra += n - c.Width
			out[i].Width = n
		}
	}
	if extra == 0 {
		return out
	}

	widest := -1
	for i, c := range out {
		if !c.Right && (widest < 0 || c.Width > out[widest].Width) {
			widest = i
		}
	}
	if widest >= 0 {
		w := out[widest].Width - extra
		if w < 1 {
			w = 1
		}
		out[widest].Width = w
	}
	return out
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Plain returns the plain-text rendering of the document.
func (d *Document) Plain() string {
	return d.plain.String()
}

func (d *Document) mirror(s string) {
	width := d.width
	if d.font&0xF0 != 0 {
		width /= 2
	}

	line := s
	pad := width - utf8.RuneCountInString(s)
	if pad > 0 {
		switch d.align {
		case AlignCenter:
			line = strings.Repeat(" ", pad/2) + s
		case AlignRight:
			line = strings.Repeat(" ", pad) + s
		}
	}
	d.plain.WriteString(line)
	d.plain.WriteByte('\n')
}

// PadRight left-aligns s in a field of n characters, truncating if needed.
func PadRight(s string, n int) string {
	s = Fit(s, n)
	return s + strings.Repeat(" ", n-utf8.RuneCountInString(s))
}

// PadLeft right-aligns s in a field of n characters, truncating if needed.
func PadLeft(s string, n int) string {
	s = Fit(s, n)
	return strings.Repeat(" ", n-utf8.RuneCountInString(s)) + s
}

// Fit truncates s to at most n characters.
func Fit(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
