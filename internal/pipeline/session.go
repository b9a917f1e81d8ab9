package pipeline

import (
	"sync"
	"time"

	"github.com/thruflo/curvr/internal/logging"
	"github.com/thruflo/curvr/internal/radius"
)

// Phase is the debounce state of a session.
//
// PhaseTyping is transient: an edit moves through it and arms the commit
// timer under the same lock, so Session.Phase never reports it. It only
// shows up in the debug phase trace.
type Phase int

const (
	PhaseEmpty     Phase = iota // no edit since the session started
	PhaseTyping                 // raw value changed, commit not yet armed
	PhaseSettling               // commit timer armed
	PhaseCommitted              // last edit has been committed
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseTyping:
		return "typing"
	case PhaseSettling:
		return "settling"
	case PhaseCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// CommitFunc is called after each commit with the committed snapshot and
// the result derived from it. It runs on the timer goroutine without the
// session lock held.
type CommitFunc func(Inputs, Result)

// SessionOptions configures a Session. Zero values select the defaults.
type SessionOptions struct {
	SettleTime        time.Duration   // how long input must be stable before it is committed
	DefaultPipeRadius float64         // pipe radius used at start and by reset
	OnCommit          CommitFunc      // optional
	Logger            *logging.Logger // phase tracing
}

// Session holds the raw and committed calculator inputs for one user.
type Session struct {
	mu                sync.Mutex
	raw               Inputs
	committed         Inputs
	result            Result
	phase             Phase
	timer             *time.Timer
	generation        uint64
	commits           int
	closed            bool
	settle            time.Duration
	defaultPipeRadius float64
	onCommit          CommitFunc
	log               *logging.Logger
}

// NewSession creates a session with no measurement and the default pipe
// radius, both already committed.
func NewSession(opts SessionOptions) *Session {
	s := &Session{
		settle:            opts.SettleTime,
		defaultPipeRadius: opts.DefaultPipeRadius,
		onCommit:          opts.OnCommit,
		log:               opts.Logger,
	}
	if s.settle <= 0 {
		s.settle = radius.SettleTime
	}
	if s.defaultPipeRadius <= 0 {
		s.defaultPipeRadius = radius.DefaultPipeRadiusMM
	}
	if s.log == nil {
		s.log = logging.Default()
	}

	s.raw = Inputs{PipeRadius: Float(s.defaultPipeRadius)}
	s.committed = s.raw.clone()
	s.result = Derive(s.committed)
	return s
}

// SetMeasurement updates the raw measured sagitta and schedules a commit.
func (s *Session) SetMeasurement(v *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.raw.Measured = copyFloat(v)
	s.scheduleLocked("measured")
}

// SetPipeRadius updates the raw pipe radius and schedules a commit.
func (s *Session) SetPipeRadius(v *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.raw.PipeRadius = copyFloat(v)
	s.scheduleLocked("pipe_radius")
}

// SetMeasurementText parses field text and sets the measurement.
func (s *Session) SetMeasurementText(text string) {
	s.SetMeasurement(ParseNumeric(text))
}

// SetPipeRadiusText parses field text and sets the pipe radius.
func (s *Session) SetPipeRadiusText(text string) {
	s.SetPipeRadius(ParseNumeric(text))
}

// ResetPipeRadius puts the raw pipe radius back to the default. The new
// value still has to settle before results change.
func (s *Session) ResetPipeRadius() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.raw.PipeRadius = Float(s.defaultPipeRadius)
	s.scheduleLocked("pipe_radius_reset")
}

// SetDefaultPipeRadius changes the value used by later resets.
func (s *Session) SetDefaultPipeRadius(mm float64) {
	s.mu.Lock()
	s.defaultPipeRadius = mm
	s.mu.Unlock()
}

// DefaultPipeRadius returns the value a reset assigns.
func (s *Session) DefaultPipeRadius() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultPipeRadius
}

// scheduleLocked replaces any pending commit with a new one. At most one
// timer is armed per session; a timer that fires after being replaced sees
// a stale generation and does nothing.
func (s *Session) scheduleLocked(field string) {
	s.setPhaseLocked(PhaseTyping, field)

	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation
	s.timer = time.AfterFunc(s.settle, func() { s.commit(gen) })

	s.setPhaseLocked(PhaseSettling, field)
}

func (s *Session) setPhaseLocked(p Phase, field string) {
	if s.phase == p {
		return
	}
	s.log.Debug("input phase", "from", s.phase, "to", p, "field", field)
	s.phase = p
}

func (s *Session) commit(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}

	s.committed = s.raw.clone()
	s.result = Derive(s.committed)
	s.timer = nil
	s.commits++
	s.setPhaseLocked(PhaseCommitted, "")

	in := s.committed.clone()
	res := s.result
	cb := s.onCommit
	s.mu.Unlock()

	s.log.Debug("inputs committed",
		"measured", in.Measured,
		"pipe_radius", in.PipeRadius,
		"inner", res.Inner,
		"outer", res.Outer)

	if cb != nil {
		cb(in, res)
	}
}

// Close cancels any pending commit. Edits after Close are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Raw returns the current, not yet committed input values.
func (s *Session) Raw() Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw.clone()
}

// Committed returns the last committed snapshot.
func (s *Session) Committed() Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.clone()
}

// Result returns the result derived from the last committed snapshot.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{Inner: copyFloat(s.result.Inner), Outer: copyFloat(s.result.Outer)}
}

// Phase returns the current debounce phase: Empty, Settling or Committed.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Commits returns how many snapshots have been committed.
func (s *Session) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Pending reports whether a commit is scheduled.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
