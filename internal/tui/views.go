package tui

import (
	"strings"

	"github.com/thruflo/curvr/internal/pipeline"
)

// Field identifies one of the calculator inputs.
type Field int

const (
	FieldMeasured Field = iota
	FieldPipeRadius
	fieldCount
)

// String returns the string representation of the field.
func (f Field) String() string {
	switch f {
	case FieldMeasured:
		return "measured"
	case FieldPipeRadius:
		return "pipe_radius"
	default:
		return "unknown"
	}
}

// Screen text.
const (
	Title       = "Track curve radius"
	Description = "Enter measured values in millimeters to calculate the curve radius of the track."
	Hint        = "Results will update automatically as you type"
	ResetHint   = "ctrl+r: reset to default"
	KeysHint    = "tab: next field  ctrl+r: reset pipe radius  esc: quit"

	LabelMeasured       = "Measured distance (mm)"
	LabelPipeRadius     = "Pipe radius (mm)"
	PlaceholderMeasured = "Readout from measurement device"

	LabelInner = "At pipe center"
	LabelOuter = "At point of measurement"
)

// CalculatorState holds what the calculator view draws.
type CalculatorState struct {
	Fields  [fieldCount]*NumericField
	Focus   Field
	Result  pipeline.Result
	Pending bool // a commit is scheduled
}

// Frame is a rendered screen plus where the text cursor belongs.
// CursorRow and CursorCol are 1-indexed; zero means hide the cursor.
type Frame struct {
	Lines     []string
	CursorRow int
	CursorCol int
}

// CalculatorView renders the input form and the results box.
type CalculatorView struct{}

// Render draws the calculator for the given terminal width.
func (v *CalculatorView) Render(state CalculatorState, width int) Frame {
	if width < 40 {
		width = 40
	}
	innerWidth := width - 4

	var content []string
	content = append(content, Style(Title, Bold))
	for _, line := range WrapText(Description, innerWidth) {
		content = append(content, Style(line, Dim))
	}
	content = append(content, "")

	var frame Frame
	for i, f := range state.Fields {
		if f == nil {
			continue
		}
		field := Field(i)

		label := "  " + f.Label
		if field == state.Focus {
			label = Style("> ", FgCyan, Bold) + f.Label
		}
		if field == FieldPipeRadius {
			gap := innerWidth - VisualWidth(label) - len(ResetHint)
			if gap > 0 {
				label += strings.Repeat(" ", gap) + Style(ResetHint, Dim)
			}
		}
		content = append(content, label)

		text := f.Text()
		if text == "" && f.Placeholder != "" {
			text = Style(Truncate(f.Placeholder, innerWidth-4), FgBrightBlack)
		}
		content = append(content, "  "+BoxVertical+text)

		if field == state.Focus {
			// +1 for the top border of the box.
			frame.CursorRow = len(content) + 1
			// "│ " then the two-space indent and the bar.
			frame.CursorCol = 2 + 2 + 1 + f.Cursor() + 1
		}
	}

	content = append(content, "", Style(Hint, Dim))
	frame.Lines = append(frame.Lines, BoxWithContent(width, content)...)
	frame.Lines = append(frame.Lines, v.renderResults(state, width)...)
	frame.Lines = append(frame.Lines, " "+Style(KeysHint, Dim))

	if frame.CursorCol > width-2 {
		frame.CursorCol = width - 2
	}
	return frame
}

func (v *CalculatorView) renderResults(state CalculatorState, width int) []string {
	innerWidth := width - 4
	left := (innerWidth - 3) / 2
	right := innerWidth - 3 - left

	title := Title
	if state.Pending {
		title += " " + Style("…", Dim)
	}

	row := func(a, b string) string {
		return CenterText(a, left) + " " + BoxVertical + " " + CenterText(b, right)
	}

	content := []string{
		CenterText(Style(title, Dim), innerWidth),
		row(Style(LabelInner, Dim), Style(LabelOuter, Dim)),
		row(Style(FormatMillimeters(state.Result.Inner), Bold),
			Style(FormatMillimeters(state.Result.Outer), Bold)),
	}
	return BoxWithContent(width, content)
}
