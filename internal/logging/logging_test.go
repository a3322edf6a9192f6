package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInitLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(Config{})

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %s", out)
	}
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "loud", Output: &buf})
	defer Init(Config{})

	Debug().Msg("debug")
	Info().Msg("info")

	if strings.Contains(buf.String(), `"message":"debug"`) {
		t.Error("debug written with fallback level")
	}
	if !strings.Contains(buf.String(), `"message":"info"`) {
		t.Error("info missing with fallback level")
	}
}

func TestCtxCarriesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	defer Init(Config{})

	ctx := WithContext(context.Background(), Logger().With().Str("request_id", "r-1").Logger())
	Ctx(ctx).Info().Msg("hello")

	if !strings.Contains(buf.String(), `"request_id":"r-1"`) {
		t.Errorf("request id not in entry: %s", buf.String())
	}
}

func TestCtxWithoutLoggerUsesGlobal(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	defer Init(Config{})

	Ctx(context.Background()).Info().Msg("global")
	if !strings.Contains(buf.String(), "global") {
		t.Errorf("global logger not used: %s", buf.String())
	}
}
