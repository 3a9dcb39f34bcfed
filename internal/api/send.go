package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/provider-scorecard/internal/email"
	"github.com/nyashahama/provider-scorecard/internal/lead"
	"github.com/nyashahama/provider-scorecard/internal/metrics"
	"github.com/nyashahama/provider-scorecard/internal/scoring"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

// ─── /api/send ────────────────────────────────────────────────────────────────
//
// POST accepts a lead and emails it to the sales inbox. GET is a health probe
// with a fixed body. Anything else is 405.

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSubmitLead(w, r)
	case http.MethodGet, http.MethodHead:
		respondOK(w)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		respondErr(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

// handleSubmitLead validates the lead, renders the notification and sends
// exactly one email. Nothing is stored: a failed send is reported to the
// caller and not retried, and a resubmission sends a second email.
func (s *Server) handleSubmitLead(w http.ResponseWriter, r *http.Request) {
	var in lead.Lead
	if !decode(w, r, &in) {
		s.metrics.Submission("unknown", metrics.OutcomeInvalid)
		return
	}
	l := in.Normalize()

	form, formOK := s.catalog.Resolve(l.Form)
	formLabel := "unknown"
	if formOK {
		formLabel = form.Key
	}

	// ── Client validation ─────────────────────────────────────────────────────
	if err := l.Validate(); err != nil {
		var vErr *lead.ValidationError
		msg := err.Error()
		if errors.As(err, &vErr) {
			msg = vErr.Message
		}
		s.metrics.Submission(formLabel, metrics.OutcomeInvalid)
		respondErr(w, http.StatusBadRequest, msg)
		return
	}
	if !formOK {
		s.metrics.Submission(formLabel, metrics.OutcomeInvalid)
		respondErr(w, http.StatusBadRequest, fmt.Sprintf("Formulario desconocido: %q.", l.Form))
		return
	}

	// ── Outbound configuration ────────────────────────────────────────────────
	if missing := s.cfg.Mail.missing(); len(missing) > 0 {
		s.logger.Error("send: mail not configured",
			"missing", missing,
			logField(r),
		)
		s.metrics.Submission(formLabel, metrics.OutcomeMisconfigured)
		respondErr(w, http.StatusInternalServerError,
			"Faltan "+strings.Join(missing, ", ")+" en variables de entorno.")
		return
	}

	// ── Render ────────────────────────────────────────────────────────────────
	leadID := uuid.New()
	params := s.leadParams(form, l, leadID.String(), r)

	html, err := email.RenderLeadHTML(params)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("send: %w", err))
		return
	}

	msg := email.Message{
		From:    s.cfg.Mail.From,
		To:      s.cfg.Mail.To,
		Subject: email.LeadSubject(params),
		HTML:    html,
		ReplyTo: l.Email,
		Ref:     leadID.String(),
	}

	// ── Deliver ───────────────────────────────────────────────────────────────
	start := time.Now()
	err = s.mailer.Send(r.Context(), msg)
	s.metrics.ObserveSend(time.Since(start))

	if err != nil {
		s.logger.Error("send: email delivery failed",
			"lead_id", leadID,
			"form", form.Key,
			"error", err,
			logField(r),
		)
		s.metrics.Submission(formLabel, metrics.OutcomeProviderError)

		var pErr *email.ProviderError
		if errors.As(err, &pErr) && pErr.Message != "" {
			respondErr(w, http.StatusInternalServerError, pErr.Message)
			return
		}
		respondErr(w, http.StatusInternalServerError, "Error enviando correo.")
		return
	}

	s.logger.Info("send: lead delivered",
		"lead_id", leadID,
		"form", form.Key,
		"total", params.Total,
		"tier", params.TierBadge,
		logField(r),
	)
	s.metrics.Submission(formLabel, metrics.OutcomeSent)
	if params.Total != nil {
		s.metrics.Tier(form.Key, string(scoring.Classify(*params.Total)))
	}
	respondOK(w)
}

// leadParams maps a validated lead onto the email template input.
//
// The displayed total is the one the respondent submitted, since that is what
// they saw on screen. When it is absent it is computed from the raw answers.
func (s *Server) leadParams(form *survey.Form, l lead.Lead, ref string, r *http.Request) email.LeadParams {
	p := email.LeadParams{
		FormTitle:     form.Title,
		SubjectPrefix: form.Subject,
		Name:          l.Name,
		Role:          l.Role,
		Company:       l.Company,
		Email:         l.Email,
		Phone:         l.Phone,
		Total:         l.Total,
		Ref:           ref,
	}

	if l.Answers != nil {
		res := scoring.Tally(form.QuestionIDs(), l.Answers)
		p.Missing = res.Missing
		if p.Total == nil {
			total := res.Total
			p.Total = &total
		} else if *p.Total != res.Total {
			s.logger.Warn("send: submitted total differs from answers",
				"submitted", *p.Total,
				"computed", res.Total,
				logField(r),
			)
		}
		p.Answers = answerRows(form, l.Answers)
	}

	if p.Total != nil {
		tier := form.Tier(*p.Total)
		p.Max = scoring.MaxScore * len(form.Questions)
		p.TierBadge = tier.Badge
		p.TierText = tier.Message
	}
	return p
}

// answerRows lists the submitted answers ordered by question ID ascending.
func answerRows(form *survey.Form, answers scoring.Answers) []email.AnswerRow {
	ids := answers.SortedIDs()
	rows := make([]email.AnswerRow, 0, len(ids))
	for _, id := range ids {
		row := email.AnswerRow{ID: id, Value: answers[id]}
		if q, ok := form.Question(id); ok {
			row.Question = q.Text
		}
		if row.Value != nil {
			row.Label = scoring.DefaultScale.Label(*row.Value)
		}
		rows = append(rows, row)
	}
	return rows
}
