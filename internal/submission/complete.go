package submission

import (
	"context"

	"github.com/nyashahama/provider-scorecard/internal/lead"
	"github.com/nyashahama/provider-scorecard/internal/scoring"
	"github.com/nyashahama/provider-scorecard/internal/survey"
)

// Contact is what the respondent types after answering the questions.
type Contact struct {
	Name    string
	Role    string
	Company string
	Email   string
	Phone   string
}

// Outcome is what the respondent sees when they finish. Result and Tier are
// always set; Err is the delivery error, if any.
type Outcome struct {
	Result scoring.Result
	Tier   survey.Tier
	Err    error
}

// Submitted reports whether the lead reached the endpoint.
func (o Outcome) Submitted() bool { return o.Err == nil }

// Complete scores answers against form, then submits the lead once.
// Scoring never depends on the submission succeeding.
func Complete(ctx context.Context, s Submitter, form *survey.Form, answers scoring.Answers, c Contact) Outcome {
	result, tier := form.Score(answers)
	out := Outcome{Result: result, Tier: tier}

	total := result.Total
	l := lead.Lead{
		Name:    c.Name,
		Role:    c.Role,
		Company: c.Company,
		Email:   c.Email,
		Phone:   c.Phone,
		Total:   &total,
		Answers: answers,
		Form:    form.Key,
	}.Normalize()

	out.Err = s.Submit(ctx, l)
	return out
}
