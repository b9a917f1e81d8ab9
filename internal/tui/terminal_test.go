package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		row, col int
		want     string
	}{
		{"origin", 1, 1, "\033[1;1H"},
		{"row 5 col 10", 5, 10, "\033[5;10H"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CursorTo(tt.row, tt.col))
		})
	}
}

func TestTerminal_NonTTYInput(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("5"), &out)

	assert.False(t, term.IsTerminal())
	require.NoError(t, term.EnterRaw())
	assert.False(t, term.IsRaw(), "raw mode is skipped for pipes")
	require.NoError(t, term.ExitRaw())

	_, _, err := term.Size()
	assert.Error(t, err)

	buf := make([]byte, 1)
	n, err := term.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte('5'), buf[0])
}

func TestTerminal_WriteHelpers(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)

	term.Clear()
	term.HideCursor()
	term.WriteLine("radius")
	term.MoveTo(2, 3)
	term.ShowCursor()
	term.RingBell()

	assert.Equal(t, ClearScreen+CursorHome+CursorHide+"radius\r\n"+CursorTo(2, 3)+CursorShow+Bell, out.String())
}
