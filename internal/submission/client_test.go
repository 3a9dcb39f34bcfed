package submission_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nyashahama/provider-scorecard/internal/lead"
	"github.com/nyashahama/provider-scorecard/internal/scoring"
	"github.com/nyashahama/provider-scorecard/internal/submission"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

// ─── HELPERS ──────────────────────────────────────────────────────────────────

func endpoint(t *testing.T, status int, body string, calls *int32, got *lead.Lead) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api/send"
}

func validLead() lead.Lead {
	return lead.Lead{Name: "Ana", Email: "ana@empresa.mx"}
}

// ─── SUBMIT ───────────────────────────────────────────────────────────────────

func TestSubmit_Success(t *testing.T) {
	var calls int32
	var got lead.Lead
	url := endpoint(t, http.StatusOK, `{"ok":true}`, &calls, &got)

	l := validLead()
	l.Company = "Acme"
	if err := submission.NewClient(url, time.Second).Submit(context.Background(), l); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got.Name != "Ana" || got.Email != "ana@empresa.mx" || got.Company != "Acme" {
		t.Errorf("server received %+v", got)
	}
}

func TestSubmit_MissingContactSendsNothing(t *testing.T) {
	var calls int32
	url := endpoint(t, http.StatusOK, `{"ok":true}`, &calls, nil)
	c := submission.NewClient(url, time.Second)

	for _, l := range []lead.Lead{
		{Name: "   ", Email: "ana@empresa.mx"},
		{Name: "Ana", Email: ""},
		{},
	} {
		if err := c.Submit(context.Background(), l); !errors.Is(err, submission.ErrMissingContact) {
			t.Errorf("Submit(%+v) = %v, want ErrMissingContact", l, err)
		}
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"server message", http.StatusBadRequest, `{"ok":false,"error":"El correo no es válido."}`, 400, "El correo no es válido."},
		{"provider failure", http.StatusInternalServerError, `{"ok":false,"error":"domain not verified"}`, 500, "domain not verified"},
		{"non-json error", http.StatusBadGateway, `<html>bad gateway</html>`, 502, "Bad Gateway"},
		{"ok false with 200", http.StatusOK, `{"ok":false,"error":"rechazado"}`, 200, "rechazado"},
		{"ok false without message", http.StatusOK, `{"ok":false}`, 200, "el servidor rechazó el envío"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			url := endpoint(t, tt.status, tt.body, &calls, nil)

			err := submission.NewClient(url, time.Second).Submit(context.Background(), validLead())

			var se *submission.SubmitError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *SubmitError", err)
			}
			if se.StatusCode != tt.wantStatus || se.Message != tt.wantMsg {
				t.Errorf("SubmitError = {%d %q}, want {%d %q}", se.StatusCode, se.Message, tt.wantStatus, tt.wantMsg)
			}
			if calls != 1 {
				t.Errorf("calls = %d, want exactly 1 (no retries)", calls)
			}
		})
	}
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := submission.NewClient(url, time.Second).Submit(context.Background(), validLead())
	var se *submission.SubmitError
	if !errors.As(err, &se) || se.StatusCode != 0 || se.Err == nil {
		t.Fatalf("error = %#v, want transport SubmitError", err)
	}
}

// ─── COMPLETE ─────────────────────────────────────────────────────────────────

type failingSubmitter struct{ got lead.Lead }

func (f *failingSubmitter) Submit(_ context.Context, l lead.Lead) error {
	f.got = l
	return &submission.SubmitError{StatusCode: 500, Message: "boom"}
}

func TestComplete_ResultSurvivesFailedSubmission(t *testing.T) {
	form := survey.MustLoad().Default()
	answers := scoring.Answers{}
	for id := 1; id <= 12; id++ {
		answers = answers.With(id, 2)
	}
	s := &failingSubmitter{}

	out := submission.Complete(context.Background(), s, form, answers,
		submission.Contact{Name: " Ana ", Email: "ana@empresa.mx "})

	if out.Submitted() {
		t.Error("Submitted() = true, want false")
	}
	if out.Result.Total != 24 || out.Tier.Level != scoring.LevelHigh {
		t.Errorf("outcome = %+v, want total 24 / high", out)
	}
	if s.got.Name != "Ana" || s.got.Email != "ana@empresa.mx" {
		t.Errorf("lead not normalised: %+v", s.got)
	}
	if s.got.Total == nil || *s.got.Total != 24 || s.got.Form != form.Key {
		t.Errorf("lead total/form = %v/%q", s.got.Total, s.got.Form)
	}
}

func TestComplete_Success(t *testing.T) {
	var calls int32
	var got lead.Lead
	url := endpoint(t, http.StatusOK, `{"ok":true}`, &calls, &got)
	form, _ := survey.MustLoad().Form("cleanway")

	out := submission.Complete(context.Background(), submission.NewClient(url, time.Second), form,
		scoring.Answers{1: nil}.With(2, 1), submission.Contact{Name: "Luis", Email: "luis@x.mx"})

	if !out.Submitted() {
		t.Fatalf("Err = %v", out.Err)
	}
	if out.Result.Total != 1 || out.Result.Missing != 11 || out.Tier.Level != scoring.LevelLow {
		t.Errorf("outcome = %+v", out)
	}
	if got.Form != "cleanway" || got.Answers[2] == nil || *got.Answers[2] != 1 {
		t.Errorf("server received %+v", got)
	}
}
