// Package lead defines the lead payload exchanged between the survey client
// and the notification endpoint, plus its normalisation and validation rules.
// The JSON keys are the Spanish names the deployed front ends already send.
package lead

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/nyashahama/provider-scorecard/internal/scoring"
)

// Lead is a respondent's contact details plus their survey result. A Lead is
// a value: Normalize returns a new one and nothing mutates it in place.
type Lead struct {
	Name    string          `json:"nombre" validate:"required,max=200"`
	Role    string          `json:"puesto,omitempty" validate:"max=200"`
	Company string          `json:"empresa,omitempty" validate:"max=200"`
	Email   string          `json:"correo" validate:"required,email,max=254"`
	Phone   string          `json:"celular,omitempty" validate:"max=40"`
	Total   *int            `json:"total,omitempty"`
	Answers scoring.Answers `json:"respuestas,omitempty"`
	Form    string          `json:"formulario,omitempty" validate:"max=64"`
}

// Normalize returns a copy with every text field trimmed. The answers map is
// copied so the result shares no state with the receiver.
func (l Lead) Normalize() Lead {
	out := l
	out.Name = strings.TrimSpace(l.Name)
	out.Role = strings.TrimSpace(l.Role)
	out.Company = strings.TrimSpace(l.Company)
	out.Email = strings.TrimSpace(l.Email)
	out.Phone = strings.TrimSpace(l.Phone)
	out.Form = strings.TrimSpace(l.Form)
	if l.Total != nil {
		t := *l.Total
		out.Total = &t
	}
	if l.Answers != nil {
		out.Answers = make(scoring.Answers, len(l.Answers))
		for k, v := range l.Answers {
			out.Answers[k] = v
		}
	}
	return out
}

// ─── VALIDATION ───────────────────────────────────────────────────────────────

// Messages returned to the respondent. They are shown verbatim in the form.
const (
	MsgMissingRequired = "Faltan campos requeridos (nombre, correo)."
	MsgInvalidEmail    = "El correo no es válido."
	MsgInvalidAnswers  = "Las respuestas deben ser 0, 1 o 2."
)

// ValidationError is a client error: the lead cannot be accepted as sent.
type ValidationError struct {
	Field   string // JSON key of the offending field
	Message string // human-readable, safe to show to the respondent
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lead: invalid %s: %s", e.Field, e.Message)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			return name
		})
	})
	return validate
}

// HasRequired reports whether name and email are present after trimming.
func (l Lead) HasRequired() bool {
	return strings.TrimSpace(l.Name) != "" && strings.TrimSpace(l.Email) != ""
}

// Validate checks a normalised lead. Missing required fields are reported
// before any format problem so the respondent sees the most useful message.
// The returned error is always a *ValidationError.
func (l Lead) Validate() error {
	if !l.HasRequired() {
		field := "nombre"
		if strings.TrimSpace(l.Name) != "" {
			field = "correo"
		}
		return &ValidationError{Field: field, Message: MsgMissingRequired}
	}

	if err := structValidator().Struct(l); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return &ValidationError{Field: "body", Message: err.Error()}
	}

	if err := l.Answers.Validate(); err != nil {
		return &ValidationError{Field: "respuestas", Message: MsgInvalidAnswers}
	}
	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: MsgMissingRequired}
	case "email":
		return &ValidationError{Field: field, Message: MsgInvalidEmail}
	case "max":
		return &ValidationError{Field: field, Message: fmt.Sprintf("El campo %s excede %s caracteres.", field, fe.Param())}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("El campo %s no es válido.", field)}
	}
}

// ─── DISPLAY HELPERS ──────────────────────────────────────────────────────────

// Placeholder is shown for optional fields the respondent left empty.
const Placeholder = "-"

// OrPlaceholder returns s, or Placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// CompanyOrDefault is the company name used in subject lines.
func (l Lead) CompanyOrDefault() string {
	if l.Company == "" {
		return "Sin empresa"
	}
	return l.Company
}
