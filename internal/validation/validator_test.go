// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package validation

import (
	"errors"
	"strings"
	"testing"
)

type graphSection struct {
	MaxNodes int     `koanf:"max_nodes" validate:"gte=3,lte=20000"`
	Metric   string  `koanf:"similarity_metric" validate:"oneof=cosine pearson adjusted_cosine"`
	Lambda   float64 `json:"mmr_lambda" validate:"gte=0,lte=1"`
	Path     string  `validate:"required,min=2"`
	Level    string  `koanf:"level" validate:"loglevel"`
}

func validSection() graphSection {
	return graphSection{MaxNodes: 500, Metric: "cosine", Lambda: 0.7, Path: "data", Level: "info"}
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	s := validSection()
	if err := ValidateStruct(&s); err != nil {
		t.Errorf("ValidateStruct() = %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*graphSection)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"below gte", func(s *graphSection) { s.MaxNodes = 2 }, "max_nodes", "gte", "max_nodes must be at least 3"},
		{"above lte", func(s *graphSection) { s.MaxNodes = 20001 }, "max_nodes", "lte", "max_nodes must be at most 20000"},
		{"oneof", func(s *graphSection) { s.Metric = "jaccard" }, "similarity_metric", "oneof",
			"similarity_metric must be one of: cosine, pearson, adjusted_cosine"},
		{"json name", func(s *graphSection) { s.Lambda = 1.5 }, "mmr_lambda", "lte", "mmr_lambda must be at most 1"},
		{"required", func(s *graphSection) { s.Path = "" }, "Path", "required", "Path is required"},
		{"string min", func(s *graphSection) { s.Path = "x" }, "Path", "min", "Path must be at least 2 characters"},
		{"loglevel", func(s *graphSection) { s.Level = "loud" }, "level", "loglevel", "level must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSection()
			tt.mutate(&s)
			err := ValidateStruct(&s)
			if err == nil {
				t.Fatal("ValidateStruct() = nil")
			}
			fields := err.Fields()
			if len(fields) != 1 {
				t.Fatalf("Fields() = %d, want 1: %v", len(fields), err)
			}
			if fields[0].Field() != tt.wantField || fields[0].Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", fields[0].Field(), fields[0].Tag(), tt.wantField, tt.wantTag)
			}
			if !strings.HasPrefix(fields[0].Error(), tt.wantMsg) {
				t.Errorf("message = %q, want prefix %q", fields[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleFields(t *testing.T) {
	s := validSection()
	s.MaxNodes = 0
	s.Lambda = -1

	verr := ValidateStruct(&s)
	if verr == nil {
		t.Fatal("ValidateStruct() = nil")
	}
	if len(verr.Fields()) != 2 {
		t.Fatalf("Fields() = %d, want 2", len(verr.Fields()))
	}
	if got := verr.Error(); !strings.Contains(got, "max_nodes") || !strings.Contains(got, "; mmr_lambda") {
		t.Errorf("Error() = %q", got)
	}

	var err error = verr
	var target *Error
	if !errors.As(err, &target) {
		t.Error("errors.As(*Error) = false")
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	err := ValidateStruct(42)
	if err == nil {
		t.Fatal("ValidateStruct(42) = nil")
	}
	if err.Fields()[0].Field() != "unknown" {
		t.Errorf("Field() = %q", err.Fields()[0].Field())
	}
}

func TestError_Empty(t *testing.T) {
	if got := (&Error{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
