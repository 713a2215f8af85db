package domain

import (
	"errors"
	"testing"
)

func TestSourceRecord_Validate(t *testing.T) {
	t.Parallel()

	valid := SourceRecord{
		SourceID:    "arramooz",
		SurfaceForm: "كتاب",
		Payload: Payload{
			Kind:  PayloadSense,
			Sense: &SenseClaim{GlossEN: "book"},
		},
		SourceConfidence: 0.9,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*SourceRecord)
	}{
		{"empty source id", func(r *SourceRecord) { r.SourceID = "" }},
		{"unknown payload kind", func(r *SourceRecord) { r.Payload.Kind = "BOGUS" }},
		{"missing variant", func(r *SourceRecord) { r.Payload.Sense = nil }},
		{"relation without kind", func(r *SourceRecord) {
			r.Payload = Payload{Kind: PayloadRelation, Relation: &RelationClaim{TargetSurface: "قلم"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := valid
			tt.mutate(&rec)
			err := rec.Validate()
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
		t.Error("fingerprint must separate parts")
	}
	if Fingerprint("كتاب") != Fingerprint("كتاب") {
		t.Error("fingerprint must be deterministic")
	}
	if len(Fingerprint("x")) != 32 {
		t.Errorf("fingerprint length = %d, want 32 hex chars", len(Fingerprint("x")))
	}
}

func TestElementFieldPath(t *testing.T) {
	t.Parallel()

	if got := ElementFieldPath("senses", 2, "gloss_en"); got != "senses[2].gloss_en" {
		t.Errorf("got %q", got)
	}
	if got := ElementFieldPath("relations", 0, ""); got != "relations[0]" {
		t.Errorf("got %q", got)
	}
}
