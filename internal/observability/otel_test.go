package observability

import (
	"context"
	"testing"
)

func TestOtelHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, bad ,tenant = shop,empty=")
	got := otelHeaders()
	if len(got) != 2 || got["x-api-key"] != "abc" || got["tenant"] != "shop" {
		t.Fatalf("otelHeaders: got=%v", got)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	if otelHeaders() != nil {
		t.Fatalf("otelHeaders: expected nil for empty env")
	}
}

func TestOtelSampleRatioClamps(t *testing.T) {
	cases := map[string]float64{"": 0.1, "0.5": 0.5, "-1": 0, "3": 1, "nope": 0.1}
	for in, want := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", in)
		if got := otelSampleRatio(); got != want {
			t.Fatalf("otelSampleRatio(%q): want=%v got=%v", in, want, got)
		}
	}
}

func TestInitOTelDisabledReturnsNil(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	if otelEnabled() {
		t.Fatalf("otel should be disabled by default")
	}
	_ = InitOTel(context.Background(), nil, OtelConfig{})
}
