package pdfexport

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	assessmentapimodels "talentflow-backend/models/api/assessment"
	candidateapimodels "talentflow-backend/models/api/candidate"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
)

// GenerateResponseReport renders a submitted response question by question.
// Core fonts only cover cp1252, other characters are replaced.
func GenerateResponseReport(assessment assessmentapimodels.AssessmentView, response assessmentapimodels.ResponseView, candidate candidateapimodels.CandidateView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateResponseReport panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(assessment.Title), false)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.MultiCell(0, 8, tr(assessment.Title), "", "L", false)
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, lineHeight, tr(fmt.Sprintf("Candidate: %v <%v>", candidate.Name, candidate.Email)), "", "L", false)
	pdf.MultiCell(0, lineHeight, tr(fmt.Sprintf("Submitted: %v", response.SubmittedAt.Format("2006-01-02 15:04 MST"))), "", "L", false)
	pdf.Ln(4)

	answered := map[string]bool{}
	for _, section := range assessment.Sections {
		pdf.SetFont(fontFamily, "B", 13)
		pdf.MultiCell(0, 8, tr(section.Title), "B", "L", false)
		pdf.Ln(2)
		for idx, question := range section.Questions {
			answered[question.ID] = true
			pdf.SetFont(fontFamily, "B", 11)
			label := fmt.Sprintf("%d. %v", idx+1, question.Text)
			if question.Required {
				label += " *"
			}
			pdf.MultiCell(0, lineHeight, tr(label), "", "L", false)
			pdf.SetFont(fontFamily, "", 11)
			pdf.MultiCell(0, lineHeight, tr(formatAnswer(response.Answers[question.ID])), "", "L", false)
			pdf.Ln(2)
		}
	}

	extra := []string{}
	for key := range response.Answers {
		if !answered[key] {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		pdf.SetFont(fontFamily, "B", 13)
		pdf.MultiCell(0, 8, "Other answers", "B", "L", false)
		pdf.SetFont(fontFamily, "", 11)
		for _, key := range extra {
			pdf.MultiCell(0, lineHeight, tr(fmt.Sprintf("%v: %v", key, formatAnswer(response.Answers[key]))), "", "L", false)
		}
	}

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAnswer(answer interface{}) string {
	switch v := answer.(type) {
	case nil:
		return "-"
	case string:
		if strings.TrimSpace(v) == "" {
			return "-"
		}
		return v
	case []interface{}:
		if len(v) == 0 {
			return "-"
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprint(answer)
}
