package lead_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/nyashahama/provider-scorecard/internal/lead"
	"github.com/nyashahama/provider-scorecard/internal/scoring"
)

func intp(v int) *int { return &v }

func validLead() lead.Lead {
	return lead.Lead{
		Name:    "Ana López",
		Role:    "Gerente de RH",
		Company: "Acme",
		Email:   "ana@acme.mx",
		Phone:   "5512345678",
		Total:   intp(14),
		Answers: scoring.Answers{1: intp(2), 2: intp(1), 3: nil},
	}
}

func TestNormalize_TrimsAndCopies(t *testing.T) {
	in := lead.Lead{
		Name:    "  Ana ",
		Email:   "\tana@acme.mx\n",
		Company: "  ",
		Total:   intp(3),
		Answers: scoring.Answers{1: intp(1)},
	}
	out := in.Normalize()

	if out.Name != "Ana" || out.Email != "ana@acme.mx" || out.Company != "" {
		t.Errorf("unexpected normalised lead: %+v", out)
	}
	// The copy must not share the answers map or the total pointer.
	out.Answers[2] = intp(2)
	*out.Total = 99
	if _, ok := in.Answers[2]; ok {
		t.Error("Normalize must copy the answers map")
	}
	if *in.Total != 3 {
		t.Error("Normalize must copy the total")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validLead().Normalize().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OnlyRequiredFields(t *testing.T) {
	l := lead.Lead{Name: "Ana", Email: "ana@acme.mx"}
	if err := l.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*lead.Lead)
		wantField string
		wantMsg   string
	}{
		{"empty name", func(l *lead.Lead) { l.Name = "" }, "nombre", lead.MsgMissingRequired},
		{"blank name", func(l *lead.Lead) { l.Name = "   " }, "nombre", lead.MsgMissingRequired},
		{"empty email", func(l *lead.Lead) { l.Email = "" }, "correo", lead.MsgMissingRequired},
		{"malformed email", func(l *lead.Lead) { l.Email = "not-an-email" }, "correo", lead.MsgInvalidEmail},
		{"name too long", func(l *lead.Lead) { l.Name = strings.Repeat("a", 201) }, "nombre", "excede"},
		{"answer out of range", func(l *lead.Lead) { l.Answers = scoring.Answers{1: intp(5)} }, "respuestas", lead.MsgInvalidAnswers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLead()
			tt.mutate(&l)
			err := l.Validate()

			var vErr *lead.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
			if !strings.Contains(vErr.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", vErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestDisplayHelpers(t *testing.T) {
	if got := lead.OrPlaceholder(" "); got != "-" {
		t.Errorf("OrPlaceholder(blank) = %q", got)
	}
	if got := lead.OrPlaceholder("x"); got != "x" {
		t.Errorf("OrPlaceholder(x) = %q", got)
	}
	if got := (lead.Lead{}).CompanyOrDefault(); got != "Sin empresa" {
		t.Errorf("CompanyOrDefault() = %q", got)
	}
}
