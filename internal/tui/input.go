package tui

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Key represents a keyboard input.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyBackTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyCtrlC
	KeyCtrlD
	KeyCtrlR
	KeyRune // Regular character
)

// KeyEvent represents a key press event.
type KeyEvent struct {
	Key  Key
	Rune rune // Only valid when Key == KeyRune
}

// KeyReader decodes key events from raw terminal input.
type KeyReader struct {
	reader *bufio.Reader
}

// NewKeyReader creates a KeyReader from the given io.Reader.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{
		reader: bufio.NewReaderSize(r, 64),
	}
}

// ReadKey reads a single key event from the input.
// This method blocks until a key is pressed.
func (k *KeyReader) ReadKey() (KeyEvent, error) {
	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch b {
	case 0x03:
		return KeyEvent{Key: KeyCtrlC}, nil
	case 0x04:
		return KeyEvent{Key: KeyCtrlD}, nil
	case 0x12:
		return KeyEvent{Key: KeyCtrlR}, nil
	case 0x09:
		return KeyEvent{Key: KeyTab}, nil
	case 0x0D, 0x0A:
		return KeyEvent{Key: KeyEnter}, nil
	case 0x7F, 0x08:
		return KeyEvent{Key: KeyBackspace}, nil
	case 0x1B:
		return k.readEscapeSequence()
	default:
		if b >= 0x20 && b < 0x7F {
			return KeyEvent{Key: KeyRune, Rune: rune(b)}, nil
		}
		if b >= 0xC0 {
			return k.readUTF8(b)
		}
		return KeyEvent{Key: KeyUnknown}, nil
	}
}

// readEscapeSequence distinguishes a bare Escape from CSI/SS3 sequences.
// A lone ESC with nothing buffered behind it is the Escape key.
func (k *KeyReader) readEscapeSequence() (KeyEvent, error) {
	if k.reader.Buffered() == 0 {
		return KeyEvent{Key: KeyEscape}, nil
	}

	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{Key: KeyEscape}, nil
	}
	if b != '[' && b != 'O' {
		_ = k.reader.UnreadByte()
		return KeyEvent{Key: KeyEscape}, nil
	}

	return k.parseCSI()
}

func (k *KeyReader) parseCSI() (KeyEvent, error) {
	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{Key: KeyEscape}, nil
	}

	switch b {
	case 'A':
		return KeyEvent{Key: KeyUp}, nil
	case 'B':
		return KeyEvent{Key: KeyDown}, nil
	case 'C':
		return KeyEvent{Key: KeyRight}, nil
	case 'D':
		return KeyEvent{Key: KeyLeft}, nil
	case 'H':
		return KeyEvent{Key: KeyHome}, nil
	case 'F':
		return KeyEvent{Key: KeyEnd}, nil
	case 'Z':
		return KeyEvent{Key: KeyBackTab}, nil
	case '3':
		if next, err := k.reader.ReadByte(); err == nil && next == '~' {
			return KeyEvent{Key: KeyDelete}, nil
		}
		return KeyEvent{Key: KeyUnknown}, nil
	default:
		// Swallow the rest of an unrecognised sequence.
		for k.reader.Buffered() > 0 {
			next, _ := k.reader.ReadByte()
			if (next >= 'A' && next <= 'Z') || next == '~' {
				break
			}
		}
		return KeyEvent{Key: KeyUnknown}, nil
	}
}

func (k *KeyReader) readUTF8(first byte) (KeyEvent, error) {
	var buf [4]byte
	buf[0] = first

	var n int
	switch {
	case first&0xE0 == 0xC0:
		n = 2
	case first&0xF0 == 0xE0:
		n = 3
	case first&0xF8 == 0xF0:
		n = 4
	default:
		return KeyEvent{Key: KeyUnknown}, nil
	}

	for i := 1; i < n; i++ {
		b, err := k.reader.ReadByte()
		if err != nil {
			return KeyEvent{Key: KeyUnknown}, err
		}
		buf[i] = b
	}

	r, _ := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError {
		return KeyEvent{Key: KeyUnknown}, nil
	}

	return KeyEvent{Key: KeyRune, Rune: r}, nil
}

// Binding is a calculator command bound to a key.
type Binding int

const (
	BindingNone      Binding = iota
	BindingNextField         // tab, down, enter
	BindingPrevField         // shift+tab, up
	BindingReset             // ctrl+r - reset pipe radius
	BindingQuit              // esc, ctrl+c, ctrl+d
)

// ParseBinding maps a key event to a calculator command. Keys that edit
// the focused field map to BindingNone.
func ParseBinding(ev KeyEvent) Binding {
	switch ev.Key {
	case KeyTab, KeyDown, KeyEnter:
		return BindingNextField
	case KeyBackTab, KeyUp:
		return BindingPrevField
	case KeyCtrlR:
		return BindingReset
	case KeyEscape, KeyCtrlC, KeyCtrlD:
		return BindingQuit
	}
	return BindingNone
}

// NumericField is a single-line editor that only accepts characters that
// can appear in a decimal number.
type NumericField struct {
	Label       string
	Placeholder string
	buffer      []rune
	cursor      int
}

// NewNumericField creates an empty field.
func NewNumericField(label, placeholder string) *NumericField {
	return &NumericField{
		Label:       label,
		Placeholder: placeholder,
		buffer:      make([]rune, 0, 32),
	}
}

func acceptsRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		return true
	}
	return false
}

// HandleKey applies an editing key and reports whether the text changed.
func (f *NumericField) HandleKey(ev KeyEvent) bool {
	switch ev.Key {
	case KeyBackspace:
		if f.cursor > 0 {
			copy(f.buffer[f.cursor-1:], f.buffer[f.cursor:])
			f.buffer = f.buffer[:len(f.buffer)-1]
			f.cursor--
			return true
		}
	case KeyDelete:
		if f.cursor < len(f.buffer) {
			copy(f.buffer[f.cursor:], f.buffer[f.cursor+1:])
			f.buffer = f.buffer[:len(f.buffer)-1]
			return true
		}
	case KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
	case KeyRight:
		if f.cursor < len(f.buffer) {
			f.cursor++
		}
	case KeyHome:
		f.cursor = 0
	case KeyEnd:
		f.cursor = len(f.buffer)
	case KeyRune:
		if !acceptsRune(ev.Rune) {
			return false
		}
		f.buffer = append(f.buffer, 0)
		copy(f.buffer[f.cursor+1:], f.buffer[f.cursor:])
		f.buffer[f.cursor] = ev.Rune
		f.cursor++
		return true
	}
	return false
}

// SetText replaces the content and moves the cursor to the end.
func (f *NumericField) SetText(s string) {
	f.buffer = append(f.buffer[:0], []rune(s)...)
	f.cursor = len(f.buffer)
}

// Text returns the current field content.
func (f *NumericField) Text() string {
	return string(f.buffer)
}

// Cursor returns the current cursor position.
func (f *NumericField) Cursor() int {
	return f.cursor
}

// Len returns the length of the current buffer.
func (f *NumericField) Len() int {
	return len(f.buffer)
}
