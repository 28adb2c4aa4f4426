package subtitles

import "testing"

func TestParsePosition(t *testing.T) {
	for _, valid := range []string{"bottom", "center", "top"} {
		if _, err := ParsePosition(valid); err != nil {
			t.Errorf("ParsePosition(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "middle", "BOTTOM", "left"} {
		if _, err := ParsePosition(invalid); err == nil {
			t.Errorf("ParsePosition(%q) expected error", invalid)
		}
	}
}

func TestParseColor(t *testing.T) {
	for _, valid := range []string{"white", "yellow", "blue", "green"} {
		if _, err := ParseColor(valid); err != nil {
			t.Errorf("ParseColor(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("ParseColor(red) expected error")
	}
}

func TestStyleValidate(t *testing.T) {
	if err := DefaultStyle().Validate(); err != nil {
		t.Fatalf("default style must validate: %v", err)
	}
	bad := []Style{
		{FontSize: 4, Position: PositionBottom, Color: ColorWhite},
		{FontSize: 200, Position: PositionBottom, Color: ColorWhite},
		{FontSize: 24, Position: "floating", Color: ColorWhite},
		{FontSize: 24, Position: PositionTop, Color: "magenta"},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("style %d expected validation error", i)
		}
	}
}
