package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "mapaclim/internal/platform/testkit"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "debug"},
		{"   nonsense   ", "debug"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestInit_Get_Named_C(t *testing.T) {
	var buf bytes.Buffer

	Init(Options{
		Level:      "info",
		Format:     "console",
		Service:    "mapaclim",
		Component:  "root",
		Writer:     &buf,
		WithCaller: true,
		StaticFields: map[string]string{
			"build": "test",
		},
	})

	Get().Info().Str("k", "v").Msg("root-msg")
	Named("uploader").Info().Msg("named-msg")

	ctx := WithRun(WithRequest(context.Background(), "req-123"), "run-abc")
	C(ctx).Info().Msg("ctx-msg")

	// background child (exercise only)
	C(context.Background()).Info().Msg("ctx-empty")

	out := buf.String()

	// robust assertions: tolerate "key=value" vs "key= value" spacing
	kit.MustContain(t, out, "root-msg")
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "ctx-msg")
	kit.MustContain(t, out, "component=")
	kit.MustContain(t, out, "uploader")
	kit.MustContain(t, out, "request_id=")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "run_id=")
	kit.MustContain(t, out, "run-abc")
	kit.MustContain(t, out, "build=")
	kit.MustContain(t, out, "test")
	kit.MustContain(t, out, "service=")
	kit.MustContain(t, out, "mapaclim")
}

func TestFromEnv_Independently(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_COMPONENT", "comp-b")
	t.Setenv("LOG_CALLER", "true")

	opt := FromEnv()
	if strings.ToLower(opt.Level) != "warn" {
		t.Fatalf("FromEnv Level = %q, want warn", opt.Level)
	}
	if opt.Format != "json" || opt.Service != "svc-b" || opt.Component != "comp-b" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller {
		t.Fatalf("FromEnv caller mismatch: %+v", opt)
	}
}

func TestC_NoValues(t *testing.T) {
	C(context.Background()).Debug().Msg("no-fields")
}
