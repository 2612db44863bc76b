// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package validation

import (
	"strings"
	"testing"
)

type recommendationsRequest struct {
	Limit    int    `validate:"min=1,max=100"`
	Strategy string `validate:"omitempty,oneof=collaborative content hybrid popularity external"`
}

func TestValidateStructPasses(t *testing.T) {
	req := recommendationsRequest{Limit: 10, Strategy: "hybrid"}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateStructEmptyStrategyAllowed(t *testing.T) {
	req := recommendationsRequest{Limit: 5}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("omitempty strategy should pass, got %v", err)
	}
}

func TestValidateStructLimitTooSmall(t *testing.T) {
	req := recommendationsRequest{Limit: 0, Strategy: "content"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error for limit 0")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "at least 1") {
		t.Errorf("message = %q, want mention of minimum", apiErr.Message)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("details field = %v, want Limit", apiErr.Details["field"])
	}
}

func TestValidateStructUnknownStrategy(t *testing.T) {
	req := recommendationsRequest{Limit: 10, Strategy: "astrology"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error for unknown strategy")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("error = %q, want oneof message", err.Error())
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	req := recommendationsRequest{Limit: 500, Strategy: "astrology"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected fields detail for multiple errors")
	}
}
