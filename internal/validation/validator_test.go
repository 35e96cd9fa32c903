// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package validation

import (
	"strings"
	"testing"
)

type importFixture struct {
	Source string        `validate:"required,eq=playnite"`
	Games  []gameFixture `validate:"max=3,dive"`
}

type gameFixture struct {
	PlayniteID string `validate:"required"`
	Name       string `validate:"required,max=512"`
}

func TestValidateStructPasses(t *testing.T) {
	req := importFixture{
		Source: "playnite",
		Games: []gameFixture{
			{PlayniteID: "abc", Name: "Outer Wilds"},
		},
	}

	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestValidateStructCollectsAllViolations(t *testing.T) {
	req := importFixture{
		Source: "steam",
		Games: []gameFixture{
			{PlayniteID: "", Name: ""},
		},
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	// One violation for Source, plus one per missing game field. All of
	// them must be reported together.
	if got := len(err.Errors()); got != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", got, err)
	}
}

func TestValidateStructDiveFieldPath(t *testing.T) {
	req := importFixture{
		Source: "playnite",
		Games: []gameFixture{
			{PlayniteID: "ok", Name: "ok"},
			{PlayniteID: "", Name: "ok"},
		},
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	if got := err.Errors()[0].Field(); got != "Games[1].PlayniteID" {
		t.Errorf("Field() = %q, want Games[1].PlayniteID", got)
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	req := importFixture{Source: ""}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "Source" {
		t.Errorf("Details[field] = %v, want Source", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	req := importFixture{
		Source: "steam",
		Games:  []gameFixture{{}},
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has unexpected type %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("expected 3 field entries, got %d", len(fields))
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("expected combined message, got %q", apiErr.Message)
	}
}

func TestTranslateErrorMessages(t *testing.T) {
	type fixture struct {
		Source string `validate:"eq=playnite"`
		Count  int    `validate:"min=1"`
		Name   string `validate:"min=2"`
	}

	err := ValidateStruct(&fixture{Source: "x", Count: 0, Name: "a"})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	msgs := err.Error()
	for _, want := range []string{
		"Source must equal playnite",
		"Count must be at least 1",
		"Name must be at least 2 characters",
	} {
		if !strings.Contains(msgs, want) {
			t.Errorf("expected %q in %q", want, msgs)
		}
	}
}
