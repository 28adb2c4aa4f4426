package subtitles

import "fmt"

// Position is the vertical placement of burned-in subtitles.
type Position string

const (
	PositionBottom Position = "bottom"
	PositionCenter Position = "center"
	PositionTop    Position = "top"
)

// Color is the primary text color of burned-in subtitles.
type Color string

const (
	ColorWhite  Color = "white"
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
)

// ParsePosition validates a position keyword.
func ParsePosition(s string) (Position, error) {
	switch Position(s) {
	case PositionBottom, PositionCenter, PositionTop:
		return Position(s), nil
	}
	return "", fmt.Errorf("unknown subtitle position %q (want bottom, center, or top)", s)
}

// ParseColor validates a color keyword.
func ParseColor(s string) (Color, error) {
	switch Color(s) {
	case ColorWhite, ColorYellow, ColorBlue, ColorGreen:
		return Color(s), nil
	}
	return "", fmt.Errorf("unknown subtitle color %q (want white, yellow, blue, or green)", s)
}

// Style is the enumerated burn-in configuration handed to the media tool.
// The tool maps it onto its own style-string syntax; this package's
// responsibility ends at validation.
type Style struct {
	FontSize int
	Position Position
	Color    Color
}

// DefaultStyle returns the burn-in defaults.
func DefaultStyle() Style {
	return Style{FontSize: 24, Position: PositionBottom, Color: ColorWhite}
}

// Validate checks that the style is fully specified and within bounds.
func (s Style) Validate() error {
	if s.FontSize < 8 || s.FontSize > 96 {
		return fmt.Errorf("font size %d out of range [8, 96]", s.FontSize)
	}
	if _, err := ParsePosition(string(s.Position)); err != nil {
		return err
	}
	if _, err := ParseColor(string(s.Color)); err != nil {
		return err
	}
	return nil
}
