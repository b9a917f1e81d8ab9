package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/thruflo/curvr/internal/logging"
	"github.com/thruflo/curvr/internal/pipeline"
	"github.com/thruflo/curvr/internal/radius"
)

// Options configures an App.
type Options struct {
	SettleTime        time.Duration
	DefaultPipeRadius float64
	Logger            *logging.Logger
}

// App is the interactive calculator. Keystrokes edit the focused field and
// feed the pipeline session; the screen is redrawn on every edit and again
// when the session commits new results.
type App struct {
	terminal  *Terminal
	view      *CalculatorView
	session   *pipeline.Session
	log       *logging.Logger
	settle    time.Duration
	mu        sync.Mutex
	fields    [fieldCount]*NumericField
	focus     Field
	result    pipeline.Result
	width     int
	height    int
	running   bool
	committed chan struct{}
}

// NewApp creates a calculator drawing on the given terminal.
func NewApp(terminal *Terminal, opts Options) *App {
	if opts.SettleTime <= 0 {
		opts.SettleTime = radius.SettleTime
	}
	if opts.DefaultPipeRadius <= 0 {
		opts.DefaultPipeRadius = radius.DefaultPipeRadiusMM
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	a := &App{
		terminal:  terminal,
		view:      &CalculatorView{},
		log:       opts.Logger,
		settle:    opts.SettleTime,
		width:     80,
		height:    24,
		committed: make(chan struct{}, 1),
	}
	a.fields[FieldMeasured] = NewNumericField(LabelMeasured, PlaceholderMeasured)
	a.fields[FieldPipeRadius] = NewNumericField(LabelPipeRadius, "")
	a.fields[FieldPipeRadius].SetText(formatInput(opts.DefaultPipeRadius))

	a.session = pipeline.NewSession(pipeline.SessionOptions{
		SettleTime:        opts.SettleTime,
		DefaultPipeRadius: opts.DefaultPipeRadius,
		Logger:            opts.Logger,
		OnCommit:          a.onCommit,
	})
	a.result = a.session.Result()
	return a
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Session returns the pipeline session behind the calculator.
func (a *App) Session() *pipeline.Session {
	return a.session
}

// SetDefaultPipeRadius changes the value the reset key assigns.
func (a *App) SetDefaultPipeRadius(mm float64) {
	a.session.SetDefaultPipeRadius(mm)
	a.log.Info("default pipe radius changed", "pipe_radius", mm)
}

// Result returns the most recently committed result.
func (a *App) Result() pipeline.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// FieldText returns the text currently in a field.
func (a *App) FieldText(f Field) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fields[f].Text()
}

// Focus returns the focused field.
func (a *App) Focus() Field {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.focus
}

func (a *App) onCommit(_ pipeline.Inputs, res pipeline.Result) {
	a.mu.Lock()
	a.result = res
	a.mu.Unlock()

	select {
	case a.committed <- struct{}{}:
	default:
		// A redraw is already queued.
	}
}

// HandleKey applies one key event. It returns true when the key asks the
// calculator to quit.
func (a *App) HandleKey(ev KeyEvent) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ParseBinding(ev) {
	case BindingQuit:
		return true

	case BindingNextField:
		a.focus = (a.focus + 1) % fieldCount
		return false

	case BindingPrevField:
		a.focus = (a.focus + fieldCount - 1) % fieldCount
		return false

	case BindingReset:
		a.session.ResetPipeRadius()
		a.fields[FieldPipeRadius].SetText(formatInput(a.session.DefaultPipeRadius()))
		a.log.Debug("pipe radius reset")
		return false
	}

	field := a.fields[a.focus]
	if !field.HandleKey(ev) {
		return false
	}

	switch a.focus {
	case FieldMeasured:
		a.session.SetMeasurementText(field.Text())
	case FieldPipeRadius:
		a.session.SetPipeRadiusText(field.Text())
	}
	return false
}

// Render returns the current screen without drawing it.
func (a *App) Render() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderLocked()
}

func (a *App) renderLocked() Frame {
	state := CalculatorState{
		Fields:  a.fields,
		Focus:   a.focus,
		Result:  a.result,
		Pending: a.session.Pending(),
	}
	return a.view.Render(state, a.width)
}

// Update redraws the screen.
func (a *App) Update() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}

	if width, height, err := a.terminal.Size(); err == nil {
		a.width = width
		a.height = height
	}

	frame := a.renderLocked()

	a.terminal.HideCursor()
	a.terminal.Clear()
	for _, line := range frame.Lines {
		a.terminal.WriteLine(line)
	}
	if frame.CursorRow > 0 {
		a.terminal.MoveTo(frame.CursorRow, frame.CursorCol)
		a.terminal.ShowCursor()
	}
}

// Run starts the calculator event loop. It returns when ctx is cancelled,
// the input ends, or the user quits. Any pending commit is cancelled on
// return.
func (a *App) Run(ctx context.Context) error {
	if err := a.terminal.EnterRaw(); err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer a.terminal.ExitRaw()
	defer a.terminal.ShowCursor()
	defer a.session.Close()

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	a.log.Info("calculator started", "settle", a.settle)
	a.Update()

	keyReader := NewKeyReader(a.terminal)
	keyCh := make(chan KeyEvent, 10)
	keyErr := make(chan error, 1)

	go func() {
		for {
			ev, err := keyReader.ReadKey()
			if err != nil {
				keyErr <- err
				return
			}
			select {
			case keyCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-keyErr:
			// Keys read before the error are still queued.
			if a.drainKeys(keyCh) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read key: %w", err)

		case ev := <-keyCh:
			if a.HandleKey(ev) {
				a.log.Info("calculator closed")
				return nil
			}
			a.Update()

		case <-a.committed:
			a.Update()
		}
	}
}

// drainKeys handles any buffered key events and reports whether one of
// them was a quit.
func (a *App) drainKeys(keyCh <-chan KeyEvent) bool {
	for {
		select {
		case ev := <-keyCh:
			if a.HandleKey(ev) {
				return true
			}
		default:
			a.Update()
			return false
		}
	}
}
