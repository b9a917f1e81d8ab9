// Package pipeline turns raw calculator input into committed radius results.
//
// A Session owns the two raw inputs (measured sagitta and pipe radius).
// Every edit updates the raw value at once and re-arms a single debounce
// timer. Only when the inputs have been unchanged for the settle time is a
// snapshot committed and a Result derived from it, so a burst of keystrokes
// produces one recomputation using the last values typed.
//
// The per-session phases are:
//
//	Empty → Typing → Settling → Committed
//
// Typing is passed through within a single edit and is never observed from
// outside. An edit while Settling restarts the timer. There is no terminal
// phase; Close only stops the pending timer and ignores later edits.
//
// Malformed text never produces an error. It parses to an absent value and
// the derived result is absent as well.
package pipeline
