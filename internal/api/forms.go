package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nyashahama/provider-scorecard/internal/lead"
	"github.com/nyashahama/provider-scorecard/internal/scoring"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

// ─── GET /api/forms ───────────────────────────────────────────────────────────

type formSummary struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Questions int    `json:"questions"`
	Default   bool   `json:"default,omitempty"`
}

type listFormsResponse struct {
	Forms []formSummary `json:"forms"`
}

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	def := s.catalog.Default().Key
	forms := s.catalog.Forms()
	out := listFormsResponse{Forms: make([]formSummary, 0, len(forms))}
	for _, f := range forms {
		out.Forms = append(out.Forms, formSummary{
			Key:       f.Key,
			Title:     f.Title,
			Subtitle:  f.Subtitle,
			Questions: len(f.Questions),
			Default:   f.Key == def,
		})
	}
	respond(w, http.StatusOK, out)
}

// ─── GET /api/forms/:formKey ──────────────────────────────────────────────────

type scaleOption struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type getFormResponse struct {
	*survey.Form
	Scale    []scaleOption `json:"scale"`
	MaxTotal int           `json:"max_total"`
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.catalog.Form(chi.URLParam(r, "formKey"))
	if !ok {
		respondErr(w, http.StatusNotFound, "Formulario no encontrado.")
		return
	}

	scale := make([]scaleOption, 0, len(scoring.DefaultScale))
	for _, o := range scoring.DefaultScale {
		scale = append(scale, scaleOption{Label: o.Label, Value: o.Value})
	}

	respond(w, http.StatusOK, getFormResponse{
		Form:     form,
		Scale:    scale,
		MaxTotal: scoring.MaxScore * len(form.Questions),
	})
}

// ─── POST /api/forms/:formKey/score ───────────────────────────────────────────
//
// Scores an answer set without sending anything. Front ends use it to show the
// running total and tier; it is the same computation the send handler uses.

type scoreRequest struct {
	Answers scoring.Answers `json:"respuestas"`
}

type scoreResponse struct {
	scoring.Result
	Tier survey.Tier `json:"tier"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	form, ok := s.catalog.Form(chi.URLParam(r, "formKey"))
	if !ok {
		respondErr(w, http.StatusNotFound, "Formulario no encontrado.")
		return
	}

	var req scoreRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Answers.Validate(); err != nil {
		respondErr(w, http.StatusBadRequest, lead.MsgInvalidAnswers)
		return
	}

	res, tier := form.Score(req.Answers)
	s.metrics.Tier(form.Key, string(tier.Level))

	respond(w, http.StatusOK, scoreResponse{Result: res, Tier: tier})
}
