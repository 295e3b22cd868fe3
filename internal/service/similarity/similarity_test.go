package similarity

import (
	"math"
	"testing"

	"shipwatch/internal/model"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "xyz", 0},
		{"abcd", "abxd", 0.75},
		{"abc", "", 0},
		{"鄂A1234", "鄂A1234", 1},
	}

	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestRatio_CountsCommonSubsequence(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"hl-2024", "hl-2025", 12.0 / 14.0},
		{"aaaa", "aa", 4.0 / 6.0},
		{"ab", "ba", 0.5},
	}

	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestSearch(t *testing.T) {
	profiles := []model.ShipProfile{
		{ID: 1, ShipID: "TEST-12345"},
		{ID: 2, ShipID: "COSCO-88"},
		{ID: 3, ShipID: "test-12399"},
		{ID: 4, ShipID: "ZZZ"},
	}

	matches := Search("TEST-12345", profiles)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %+v", len(matches), matches)
	}
	if matches[0].Profile.ID != 1 || matches[0].Score != 1 {
		t.Errorf("Expected exact match first, got %+v", matches[0])
	}
	if matches[1].Profile.ID != 3 {
		t.Errorf("Expected case-insensitive near match second, got %+v", matches[1])
	}
	if matches[1].Score <= MinScore || matches[1].Score >= 1 {
		t.Errorf("Unexpected near match score %v", matches[1].Score)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	matches := Search("QQQQQQQ", []model.ShipProfile{{ID: 1, ShipID: "TEST-12345"}})
	if matches == nil || len(matches) != 0 {
		t.Errorf("Expected empty non-nil result, got %#v", matches)
	}
}
