package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op5no29/subtitle-generator/internal/config"
	"github.com/op5no29/subtitle-generator/internal/domain/language"
)

func TestCacheDirKeyedByInput(t *testing.T) {
	a := cacheDir(Config{Input: "/tmp/a.mp4"})
	b := cacheDir(Config{Input: "/tmp/b.mp4"})
	if a == b {
		t.Fatalf("expected distinct cache dirs, got %s twice", a)
	}
	if !strings.HasPrefix(a, filepath.Join(".cache", "runs")) {
		t.Fatalf("unexpected cache dir: %s", a)
	}
	if cacheDir(Config{Input: "/tmp/a.mp4"}) != a {
		t.Fatalf("expected stable cache dir for same input")
	}
	custom := cacheDir(Config{Input: "/tmp/a.mp4", CacheDir: "/var/cache"})
	if !strings.HasPrefix(custom, filepath.Join("/var/cache", "runs")) {
		t.Fatalf("unexpected custom cache dir: %s", custom)
	}
}

func TestResolvePair(t *testing.T) {
	p, err := resolvePair(Config{SourceLang: "auto", TargetLang: "en"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Source != language.Auto || p.Target != language.English {
		t.Fatalf("unexpected pair: %+v", p)
	}

	p, err = resolvePair(Config{SourceLang: "ja", SkipTranslation: true})
	if err != nil {
		t.Fatalf("resolve skip: %v", err)
	}
	if p.NeedsTranslation() {
		t.Fatalf("skip-translation pair must not translate: %+v", p)
	}

	if _, err := resolvePair(Config{SourceLang: "auto", TargetLang: "auto"}); err == nil {
		t.Fatalf("expected error for auto target")
	}
}

func TestConfigValidate(t *testing.T) {
	input := filepath.Join(t.TempDir(), "in.mp4")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	base := Config{
		App:              config.Default(),
		Input:            input,
		SourceLang:       "auto",
		TargetLang:       "en",
		STTAPIKey:        "sk-test",
		TranslatorAPIKey: "sk-ant-test",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	noInput := base
	noInput.Input = filepath.Join(t.TempDir(), "missing.mp4")
	if err := noInput.Validate(); err == nil {
		t.Fatalf("expected error for missing input")
	}

	noKey := base
	noKey.STTAPIKey = ""
	if err := noKey.Validate(); err == nil {
		t.Fatalf("expected error for missing STT key")
	}

	noTranslatorKey := base
	noTranslatorKey.TranslatorAPIKey = ""
	if err := noTranslatorKey.Validate(); err == nil {
		t.Fatalf("expected error for missing translator key")
	}
	noTranslatorKey.SkipTranslation = true
	if err := noTranslatorKey.Validate(); err != nil {
		t.Fatalf("skip-translation run should not need a translator key: %v", err)
	}
}
