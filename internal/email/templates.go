package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
)

// LeadParams holds everything rendered into the sales notification. Optional
// text fields may be empty; they render as "-".
type LeadParams struct {
	FormTitle     string // heading, e.g. "¿Qué tan bueno es tu proveedor de transporte?"
	SubjectPrefix string // e.g. "Cuestionario transporte"

	Name    string
	Role    string
	Company string
	Email   string
	Phone   string

	Total     *int // nil when neither the client nor the answers provided one
	Max       int  // 0 when unknown
	TierBadge string
	TierText  string
	Missing   int

	// Answers is already ordered by question ID ascending. Nil means the
	// respondent did not send the raw answers; the table is then omitted.
	Answers []AnswerRow

	Ref string // lead reference shown in the footer
}

// AnswerRow is one line of the answers table.
type AnswerRow struct {
	ID       int
	Question string // empty when the ID is not part of the form
	Value    *int   // nil when unanswered
	Label    string // scale label, e.g. "Sí"
}

// LeadSubject builds the subject line: prefix, respondent, company, total.
func LeadSubject(p LeadParams) string {
	company := p.Company
	if company == "" {
		company = "Sin empresa"
	}
	subject := fmt.Sprintf("%s – %s (%s)", p.SubjectPrefix, p.Name, company)
	if p.Total != nil {
		subject += " · Total " + strconv.Itoa(*p.Total)
	}
	return subject
}

// RenderLeadHTML renders the notification body. All respondent-supplied text
// is escaped by html/template.
func RenderLeadHTML(p LeadParams) (string, error) {
	var buf bytes.Buffer
	if err := leadTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("email: render lead: %w", err)
	}
	return buf.String(), nil
}

// ─── HTML TEMPLATES ───────────────────────────────────────────────────────────

var leadTmpl = template.Must(template.New("lead").Funcs(template.FuncMap{
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
	"intOrDash": func(v *int) string {
		if v == nil {
			return "-"
		}
		return strconv.Itoa(*v)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 640px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Nuevo cuestionario: {{.FormTitle}}</h2>
  <p><b>Nombre:</b> {{.Name}}</p>
  <p><b>Puesto:</b> {{orDash .Role}}</p>
  <p><b>Empresa:</b> {{orDash .Company}}</p>
  <p><b>Correo:</b> {{.Email}}</p>
  <p><b>Celular:</b> {{orDash .Phone}}</p>
  <p><b>Total:</b> {{intOrDash .Total}}{{if and .Total .Max}} / {{.Max}}{{end}}</p>
  {{- if .TierBadge}}
  <p><b>Nivel:</b> {{.TierBadge}}{{if .TierText}} · {{.TierText}}{{end}}</p>
  {{- end}}
  {{- if .Missing}}
  <p style="color: #6b7280;">Preguntas sin responder: {{.Missing}}</p>
  {{- end}}
  {{- if .Answers}}
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 24px 0;">
  <table style="border-collapse: collapse; width: 100%; font-size: 14px;">
    <thead>
      <tr>
        <th style="text-align: left; border-bottom: 1px solid #e5e7eb; padding: 6px;">#</th>
        <th style="text-align: left; border-bottom: 1px solid #e5e7eb; padding: 6px;">Pregunta</th>
        <th style="text-align: left; border-bottom: 1px solid #e5e7eb; padding: 6px;">Respuesta</th>
      </tr>
    </thead>
    <tbody>
    {{- range .Answers}}
      <tr>
        <td style="padding: 6px; border-bottom: 1px solid #f3f4f6;">{{.ID}}</td>
        <td style="padding: 6px; border-bottom: 1px solid #f3f4f6;">{{orDash .Question}}</td>
        <td style="padding: 6px; border-bottom: 1px solid #f3f4f6;">{{intOrDash .Value}}{{if .Label}} ({{.Label}}){{end}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  {{- end}}
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 24px 0;">
  <p style="color: #9ca3af; font-size: 12px;">
    Responde a este correo para contactar directamente a {{.Name}}.{{if .Ref}} Ref: {{.Ref}}{{end}}
  </p>
</body>
</html>`))
