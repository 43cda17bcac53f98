package sample

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestSampleRoundTrip(t *testing.T) {
	s := Sample{
		Step: 200,
		Time: 0.4,
		Values: map[string]float64{
			"total_energy": -118.4,
			"temperature":  297.3,
		},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Sample
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Step != s.Step {
		t.Errorf("expected step %d, got %d", s.Step, got.Step)
	}
	if got.Time != s.Time {
		t.Errorf("expected time %f, got %f", s.Time, got.Time)
	}
	if len(got.Values) != 2 {
		t.Errorf("expected 2 values, got %d", len(got.Values))
	}
	if got.Values["temperature"] != 297.3 {
		t.Errorf("expected temperature 297.3, got %f", got.Values["temperature"])
	}
}

func TestNonFiniteEncodesAsNull(t *testing.T) {
	s := Sample{
		Step:   1,
		Values: map[string]float64{"density": math.NaN()},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal with NaN should not fail: %v", err)
	}
	if !strings.Contains(string(data), `"density":null`) {
		t.Errorf("expected null density, got %s", data)
	}

	var got Sample
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsNaN(got.Values["density"]) {
		t.Errorf("expected NaN after decode, got %f", got.Values["density"])
	}
}

func TestDecode(t *testing.T) {
	msg, err := Decode([]byte(`{"series":{"temperature":"Temperature [K]"}}`))
	if err != nil {
		t.Fatalf("decode hello: %v", err)
	}
	hello, ok := msg.(Hello)
	if !ok {
		t.Fatalf("expected Hello, got %T", msg)
	}
	if hello.Series["temperature"] != "Temperature [K]" {
		t.Errorf("unexpected series label: %v", hello.Series)
	}

	msg, err = Decode([]byte(`{"step":400,"time":0.8,"values":{"total_energy":-12.5}}`))
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	s, ok := msg.(Sample)
	if !ok {
		t.Fatalf("expected Sample, got %T", msg)
	}
	if s.Step != 400 || s.Values["total_energy"] != -12.5 {
		t.Errorf("unexpected sample: %+v", s)
	}

	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("expected error for malformed message")
	}
}
