// Package sample defines the wire-level observable sample exchanged between
// the simulation-side reporter and connected chart clients. One sample is one
// JSON message; non-finite values travel as null because JSON cannot carry
// NaN or infinities.
package sample

import (
	"encoding/json"
	"fmt"
	"math"
)

// Sample is one snapshot of requested observable values at a simulation step.
// Samples are immutable once built and produced in strictly increasing step
// order.
type Sample struct {
	Step   int                `json:"step"`
	Time   float64            `json:"time"`
	Values map[string]float64 `json:"values"`
}

// Hello is the one-time message a client receives on connect, mapping
// canonical observable names to their display labels.
type Hello struct {
	Series map[string]string `json:"series"`
}

type wireSample struct {
	Step   int                 `json:"step"`
	Time   float64             `json:"time"`
	Values map[string]*float64 `json:"values"`
}

func (s Sample) MarshalJSON() ([]byte, error) {
	w := wireSample{
		Step:   s.Step,
		Time:   s.Time,
		Values: make(map[string]*float64, len(s.Values)),
	}
	for name, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			w.Values[name] = nil
			continue
		}
		v := v
		w.Values[name] = &v
	}
	return json.Marshal(w)
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	var w wireSample
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Step = w.Step
	s.Time = w.Time
	s.Values = make(map[string]float64, len(w.Values))
	for name, v := range w.Values {
		if v == nil {
			s.Values[name] = math.NaN()
			continue
		}
		s.Values[name] = *v
	}
	return nil
}

// Decode parses one wire message and returns either a Hello or a Sample.
func Decode(data []byte) (any, error) {
	var probe struct {
		Series map[string]string `json:"series"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}
	if probe.Series != nil {
		return Hello{Series: probe.Series}, nil
	}
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("malformed sample: %w", err)
	}
	return s, nil
}
