package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nyashahama/provider-scorecard/internal/lead"
	"github.com/nyashahama/provider-scorecard/internal/scoring"
	"github.com/nyashahama/provider-scorecard/internal/submission"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

// session is one respondent working through one form.
type session struct {
	in        *bufio.Scanner
	out       io.Writer
	form      *survey.Form
	scale     scoring.Scale
	submitter submission.Submitter // nil: results are only printed
}

func newSession(in io.Reader, out io.Writer, form *survey.Form, s submission.Submitter) *session {
	return &session{
		in:        bufio.NewScanner(in),
		out:       out,
		form:      form,
		scale:     scoring.DefaultScale,
		submitter: s,
	}
}

func (s *session) run(ctx context.Context) error {
	fmt.Fprintf(s.out, "%s\n%s\n\n", s.form.Title, s.form.Subtitle)
	fmt.Fprintf(s.out, "Responde %s. Enter deja la pregunta sin responder.\n\n", s.scaleHint())

	answers, err := s.askQuestions(ctx)
	if err != nil {
		return err
	}

	result, tier := s.form.Score(answers)
	s.printResult(result, tier)

	if s.submitter == nil {
		return nil
	}

	want, err := s.prompt(ctx, "\n¿Quieres recibir el diagnóstico completo? (s/n): ")
	if err != nil {
		return err
	}
	if !strings.HasPrefix(strings.ToLower(want), "s") {
		return nil
	}

	contact, err := s.askContact(ctx)
	if err != nil {
		return err
	}

	outcome := submission.Complete(ctx, s.submitter, s.form, answers, contact)
	if outcome.Err != nil {
		fmt.Fprintf(s.out, "\nNo pudimos enviar tus datos: %v\n", outcome.Err)
		fmt.Fprintf(s.out, "Tu resultado sigue siendo %d/%d (%s).\n", outcome.Result.Total, outcome.Result.Max, outcome.Tier.Badge)
		return nil
	}
	fmt.Fprintln(s.out, "\n¡Gracias! Un asesor te contactará pronto.")
	return nil
}

// ─── QUESTIONS ────────────────────────────────────────────────────────────────

func (s *session) askQuestions(ctx context.Context) (scoring.Answers, error) {
	answers := scoring.Answers{}
	for i, q := range s.form.Questions {
		label := fmt.Sprintf("%2d/%d  %s\n      > ", i+1, len(s.form.Questions), q.Text)
		for {
			line, err := s.prompt(ctx, label)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(line) == "" {
				answers = answers.Without(q.ID)
				break
			}
			v, ok := s.scale.Parse(line)
			if !ok {
				fmt.Fprintf(s.out, "      Respuesta no válida; usa %s.\n", s.scaleHint())
				continue
			}
			answers = answers.With(q.ID, v)
			break
		}
	}
	return answers, nil
}

func (s *session) printResult(r scoring.Result, t survey.Tier) {
	fmt.Fprintf(s.out, "\nPuntaje: %d/%d\n", r.Total, r.Max)
	if !r.Complete() {
		fmt.Fprintf(s.out, "Sin responder: %d (cuentan como 0)\n", r.Missing)
	}
	fmt.Fprintf(s.out, "Nivel: %s\n%s\n", t.Badge, t.Message)
}

func (s *session) scaleHint() string {
	parts := make([]string, 0, len(s.scale))
	for _, o := range s.scale {
		parts = append(parts, fmt.Sprintf("%d/%s = %s", o.Value, o.Key, o.Label))
	}
	return strings.Join(parts, ", ")
}

// ─── CONTACT ──────────────────────────────────────────────────────────────────

func (s *session) askContact(ctx context.Context) (submission.Contact, error) {
	var c submission.Contact
	fields := []struct {
		label    string
		dst      *string
		required bool
	}{
		{"Nombre*", &c.Name, true},
		{"Puesto", &c.Role, false},
		{"Empresa", &c.Company, false},
		{"Correo*", &c.Email, true},
		{"Celular", &c.Phone, false},
	}
	for _, f := range fields {
		for {
			v, err := s.prompt(ctx, f.label+": ")
			if err != nil {
				return c, err
			}
			v = strings.TrimSpace(v)
			if f.required && v == "" {
				fmt.Fprintln(s.out, lead.MsgMissingRequired)
				continue
			}
			*f.dst = v
			break
		}
	}
	return c, nil
}

// prompt prints label and reads one line. End of input while a question is
// pending is an error so a truncated script does not submit a half lead.
func (s *session) prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errors.New("input closed")
	}
	return s.in.Text(), nil
}
