package observability

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tbourn/go-pokemon-api/internal/config"
)

func preserveOTelGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func enabledCfg(name string) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestSetupOTel_Disabled_LeavesGlobals(t *testing.T) {
	preserveOTelGlobals(t)
	prev := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Endpoint: "ignored:4317"}, "v0.0.0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned error: %v", err)
	}
	if otel.GetTracerProvider() != prev {
		t.Fatalf("disabled setup replaced the tracer provider")
	}
}

func TestSetupOTel_InstallsProviderAndPropagator(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.OTELConfig
	}{
		{"insecure", enabledCfg("pokedex-insecure")},
		{"tls", func() config.OTELConfig { c := enabledCfg("pokedex-tls"); c.Insecure = false; return c }()},
		{"headers", func() config.OTELConfig {
			c := enabledCfg("pokedex-headers")
			c.Headers = map[string]string{"api-key": "abc"}
			c.Environment = "staging"
			return c
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			preserveOTelGlobals(t)

			shutdown, err := SetupOTel(context.Background(), tc.cfg, "v1.2.3")
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			defer func() { _ = shutdown(context.Background()) }()

			if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
				t.Fatalf("expected *sdktrace.TracerProvider")
			}

			ctx, span := StartSpan(context.Background(), "PokemonService.List")
			carrier := propagation.MapCarrier{}
			otel.GetTextMapPropagator().Inject(ctx, carrier)
			EndSpan(span, nil)
			if !strings.HasPrefix(carrier.Get("traceparent"), "00-") {
				t.Fatalf("traceparent not injected: %v", carrier)
			}
		})
	}
}

func TestSetupOTel_ExporterError_GlobalsIntact(t *testing.T) {
	preserveOTelGlobals(t)

	orig := newOTLPExporterFn
	t.Cleanup(func() { newOTLPExporterFn = orig })
	newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("boom-exporter")
	}

	prevTP := otel.GetTracerProvider()
	_, err := SetupOTel(context.Background(), enabledCfg("pokedex"), "v0")
	if err == nil || !strings.Contains(err.Error(), "otlp exporter: boom-exporter") {
		t.Fatalf("want wrapped exporter error, got %v", err)
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatalf("tracer provider changed on failure")
	}
}

func TestSetupOTel_ResourceError_GlobalsIntact(t *testing.T) {
	preserveOTelGlobals(t)

	orig := newServiceResourceFn
	t.Cleanup(func() { newServiceResourceFn = orig })
	newServiceResourceFn = func(context.Context, ...attribute.KeyValue) (*resource.Resource, error) {
		return nil, errors.New("boom-resource")
	}

	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	_, err := SetupOTel(context.Background(), enabledCfg("pokedex"), "v0")
	if err == nil || !strings.Contains(err.Error(), "otel resource: boom-resource") {
		t.Fatalf("want wrapped resource error, got %v", err)
	}
	if otel.GetTracerProvider() != prevTP || otel.GetTextMapPropagator() != prevProp {
		t.Fatalf("globals changed on failure")
	}
}

func TestResourceAttributes(t *testing.T) {
	cfg := enabledCfg("pokedex")
	got := map[attribute.Key]string{}
	for _, kv := range resourceAttributes(cfg, "v2") {
		got[kv.Key] = kv.Value.Emit()
	}
	if got["service.name"] != "pokedex" || got["service.version"] != "v2" {
		t.Fatalf("unexpected attrs: %v", got)
	}
	if _, ok := got["deployment.environment"]; ok {
		t.Fatalf("empty environment should be omitted")
	}

	cfg.Environment = "prod"
	got = map[attribute.Key]string{}
	for _, kv := range resourceAttributes(cfg, "v2") {
		got[kv.Key] = kv.Value.Emit()
	}
	if got["deployment.environment"] != "prod" {
		t.Fatalf("environment attr missing: %v", got)
	}
}

func TestClientOptions_Count(t *testing.T) {
	cfg := enabledCfg("pokedex")
	if n := len(clientOptions(cfg)); n != 2 {
		t.Fatalf("endpoint+insecure: want 2 options, got %d", n)
	}
	cfg.Headers = map[string]string{"x": "y"}
	if n := len(clientOptions(cfg)); n != 3 {
		t.Fatalf("with headers: want 3 options, got %d", n)
	}
}

func TestStartEndSpan_RecordsStatus(t *testing.T) {
	preserveOTelGlobals(t)

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, ok := StartSpan(context.Background(), "pokemon.get", attribute.String("pokemon.id", "abc"))
	EndSpan(ok, nil)
	_, bad := StartSpan(context.Background(), "pokemon.delete")
	EndSpan(bad, errors.New("boom"))

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("want 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "pokemon.get" || spans[0].Status().Code == codes.Error {
		t.Fatalf("unexpected first span: %s %v", spans[0].Name(), spans[0].Status())
	}
	if spans[0].InstrumentationScope().Name != InstrumentationName {
		t.Fatalf("scope = %q", spans[0].InstrumentationScope().Name)
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "boom" || len(spans[1].Events()) == 0 {
		t.Fatalf("error not recorded: %+v", spans[1].Status())
	}
}
