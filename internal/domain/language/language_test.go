package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"ja", Japanese},
		{"japanese", Japanese},
		{"Japanese", Japanese},
		{" JPN ", Japanese},
		{"en", English},
		{"english", English},
		{"zh", Chinese},
		{"korean", Korean},
		{"auto", Auto},
		{"fr", Language("fr")},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePair(t *testing.T) {
	p, err := ParsePair("auto", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Source != Auto || p.Target != English {
		t.Errorf("got %+v", p)
	}

	if _, err := ParsePair("ja", "auto"); err == nil {
		t.Error("auto target must be rejected")
	}
	if _, err := ParsePair("ja", "klingon"); err == nil {
		t.Error("unsupported target must be rejected")
	}
	if _, err := ParsePair("klingon", "en"); err == nil {
		t.Error("unsupported source must be rejected")
	}
}

func TestPairResolveAndNeedsTranslation(t *testing.T) {
	p := Pair{Source: Auto, Target: English}

	resolved := p.Resolve(Japanese)
	if resolved.Source != Japanese {
		t.Errorf("resolved source = %q", resolved.Source)
	}
	if !resolved.NeedsTranslation() {
		t.Error("ja -> en needs translation")
	}

	same := Pair{Source: Auto, Target: Japanese}.Resolve(Normalize("japanese"))
	if same.NeedsTranslation() {
		t.Error("detected 'japanese' with target ja must skip translation")
	}

	unknown := p.Resolve(Unknown)
	if unknown.NeedsTranslation() {
		t.Error("unknown source must not trigger a translation call")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want Language
	}{
		{"", Unknown},
		{"   ", Unknown},
		{"こんにちは、今日はいい天気ですね。", Japanese},
		{"Hello there, how are you doing today?", English},
		{"안녕하세요 오늘 날씨가 좋네요", Korean},
		{"12345 67890 !!!", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
