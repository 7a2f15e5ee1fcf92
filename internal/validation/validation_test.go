package validation

import (
	"strings"
	"testing"
)

type uploadParams struct {
	SectionType string `json:"section_type" validate:"required,max=64"`
	SectionID   string `json:"section_id" validate:"required,max=64"`
}

func TestValidateStruct_Valid(t *testing.T) {
	if err := ValidateStruct(uploadParams{SectionType: "hero", SectionID: "home-hero"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_MissingField(t *testing.T) {
	err := ValidateStruct(uploadParams{SectionType: "hero"})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	out, jsonErr := ErrorsToJson(err)
	if jsonErr != nil {
		t.Fatalf("unexpected error: %v", jsonErr)
	}
	if !strings.Contains(out, "section_id") || !strings.Contains(out, "required") {
		t.Errorf("expected wire field name and tag in %q", out)
	}
}
