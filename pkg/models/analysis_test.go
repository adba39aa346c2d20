package models

import "testing"

func TestHasResponse(t *testing.T) {
	a := &CommandAnalysis{}
	if a.HasResponse() {
		t.Error("Empty response should not count as a response")
	}
	a.Response = "hi"
	if !a.HasResponse() {
		t.Error("Expected HasResponse for non-empty response")
	}
}

func TestStringParam(t *testing.T) {
	a := &CommandAnalysis{Parameters: map[string]any{
		"city": "paris",
		"x":    500,
	}}

	if got := a.StringParam("city"); got != "paris" {
		t.Errorf("Expected 'paris', got %q", got)
	}
	if got := a.StringParam("missing"); got != "" {
		t.Errorf("Expected empty string for missing key, got %q", got)
	}
	if got := a.StringParam("x"); got != "" {
		t.Errorf("Expected empty string for non-string value, got %q", got)
	}

	var nilParams CommandAnalysis
	if got := nilParams.StringParam("city"); got != "" {
		t.Errorf("Expected empty string on nil parameters, got %q", got)
	}
}

func TestIntParam(t *testing.T) {
	a := &CommandAnalysis{Parameters: map[string]any{
		"x":    500,   // rule tier stores int
		"y":    300.0, // JSON decoding stores float64
		"z":    int64(7),
		"city": "paris",
	}}

	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"x", 500, true},
		{"y", 300, true},
		{"z", 7, true},
		{"city", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := a.IntParam(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("IntParam(%q) = (%d, %v), want (%d, %v)", tt.key, got, ok, tt.want, tt.ok)
		}
	}

	var nilParams CommandAnalysis
	if _, ok := nilParams.IntParam("x"); ok {
		t.Error("Expected no value on nil parameters")
	}
}
