package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/curvr/internal/testutil"
)

const testSettle = 20 * time.Millisecond

func newTestApp(t *testing.T, in io.Reader, out io.Writer) *App {
	t.Helper()
	app := NewApp(NewTerminal(in, out), Options{SettleTime: testSettle})
	t.Cleanup(app.Session().Close)
	return app
}

func press(app *App, keys ...KeyEvent) {
	for _, k := range keys {
		app.HandleKey(k)
	}
}

func runes(s string) []KeyEvent {
	var evs []KeyEvent
	for _, r := range s {
		evs = append(evs, KeyEvent{Key: KeyRune, Rune: r})
	}
	return evs
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader(""), io.Discard)

	assert.Equal(t, FieldMeasured, app.Focus())
	assert.Equal(t, "", app.FieldText(FieldMeasured))
	assert.Equal(t, "11", app.FieldText(FieldPipeRadius))
	assert.False(t, app.Result().Present())
	assert.Equal(t, 11.0, app.Session().DefaultPipeRadius())
}

func TestApp_TypingFeedsSession(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader(""), io.Discard)

	press(app, runes("5")...)
	assert.Equal(t, "5", app.FieldText(FieldMeasured))
	require.NotNil(t, app.Session().Raw().Measured)
	assert.Equal(t, 5.0, *app.Session().Raw().Measured)

	require.Eventually(t, func() bool { return app.Result().Present() }, testutil.CommitWait, testutil.CommitTick)
	assert.InDelta(t, 1002.5, *app.Result().Outer, 1e-9)
	assert.InDelta(t, 991.5, *app.Result().Inner, 1e-9)
}

func TestApp_FocusNavigation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader(""), io.Discard)

	press(app, KeyEvent{Key: KeyTab})
	assert.Equal(t, FieldPipeRadius, app.Focus())
	press(app, KeyEvent{Key: KeyTab})
	assert.Equal(t, FieldMeasured, app.Focus())
	press(app, KeyEvent{Key: KeyUp})
	assert.Equal(t, FieldPipeRadius, app.Focus())
	press(app, KeyEvent{Key: KeyDown})
	assert.Equal(t, FieldMeasured, app.Focus())
}

func TestApp_EditPipeRadiusAndReset(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader(""), io.Discard)

	press(app, runes("5")...)
	press(app, KeyEvent{Key: KeyTab}, KeyEvent{Key: KeyBackspace}, KeyEvent{Key: KeyBackspace})
	press(app, runes("20")...)
	assert.Equal(t, "20", app.FieldText(FieldPipeRadius))

	require.Eventually(t, func() bool {
		res := app.Result()
		return res.Present() && *res.Inner < 985
	}, testutil.CommitWait, testutil.CommitTick)
	assert.InDelta(t, 982.5, *app.Result().Inner, 1e-9)

	press(app, KeyEvent{Key: KeyCtrlR})
	assert.Equal(t, "11", app.FieldText(FieldPipeRadius))
	assert.Equal(t, 11.0, *app.Session().Raw().PipeRadius)

	require.Eventually(t, func() bool {
		res := app.Result()
		return res.Present() && *res.Inner > 990
	}, testutil.CommitWait, testutil.CommitTick)
	assert.InDelta(t, 991.5, *app.Result().Inner, 1e-9)
}

func TestApp_ResetUsesReloadedDefault(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader(""), io.Discard)

	app.SetDefaultPipeRadius(12.5)
	press(app, KeyEvent{Key: KeyCtrlR})

	assert.Equal(t, "12.5", app.FieldText(FieldPipeRadius))
	assert.Equal(t, 12.5, *app.Session().Raw().PipeRadius)
}

func TestApp_IgnoresNonNumericKeys(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader(""), io.Discard)

	press(app, runes("abc")...)
	assert.Equal(t, "", app.FieldText(FieldMeasured))
	assert.False(t, app.Session().Pending(), "rejected keys do not schedule a commit")
}

func TestApp_QuitKeys(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader(""), io.Discard)

	for _, k := range []Key{KeyEscape, KeyCtrlC, KeyCtrlD} {
		assert.True(t, app.HandleKey(KeyEvent{Key: k}))
	}
	assert.False(t, app.HandleKey(KeyEvent{Key: KeyRune, Rune: '1'}))
}

func TestApp_UpdateNotRunning(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	app := newTestApp(t, strings.NewReader(""), &out)

	app.Update()
	assert.Empty(t, out.String())
}

func TestApp_RunDrawsCommittedResult(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	out := &testutil.SyncBuffer{}
	app := newTestApp(t, pr, out)

	ctx, cancel := testutil.ShortOperationContext(t)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	_, err := pw.Write([]byte("5"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(StripANSI(out.String()), "1,002.50 mm")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, StripANSI(out.String()), "991.50 mm")

	_, err = pw.Write([]byte{0x03})
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after ctrl+c")
	}
	_ = pw.Close()
}

func TestApp_RunCancelsPendingCommitOnExit(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	app := NewApp(NewTerminal(pr, io.Discard), Options{SettleTime: time.Hour})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	_, err := pw.Write([]byte("5"))
	require.NoError(t, err)
	require.Eventually(t, app.Session().Pending, testutil.CommitWait, testutil.CommitTick)

	_, err = pw.Write([]byte{0x03})
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.False(t, app.Session().Pending())
	assert.Equal(t, 0, app.Session().Commits())
	_ = pw.Close()
}

func TestApp_RunReturnsOnEOF(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, strings.NewReader("12"), io.Discard)

	err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12", app.FieldText(FieldMeasured), "keys before EOF are applied")
}

func TestApp_RunContextCancelled(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	defer pw.Close()
	app := newTestApp(t, pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
