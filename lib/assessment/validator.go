package assessment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"talentflow-backend/models"
	dbmodels "talentflow-backend/models/db"
)

const (
	msgRequired  = "Required field."
	msgNotNumber = "Value must be a number."
)

// Validate checks answers against every question of the assessment and returns
// question id -> message. An empty map means the answers may be submitted.
func Validate(assessment dbmodels.Assessment, answers map[string]interface{}) map[string]string {
	result := map[string]string{}
	for _, question := range assessment.Questions() {
		answer, exist := answers[question.ID]
		empty := !exist || isEmptyAnswer(answer)
		if empty {
			if question.Required {
				result[question.ID] = msgRequired
			}
			continue
		}
		switch {
		case question.Type == models.QuestionNumeric:
			value, ok := toNumber(answer)
			if !ok {
				result[question.ID] = msgNotNumber
				continue
			}
			if question.Validation == nil {
				continue
			}
			if lower := question.Validation.Min; lower != nil && value < *lower {
				result[question.ID] = "Value must be ≥ " + formatNumber(*lower)
			}
			if upper := question.Validation.Max; upper != nil && value > *upper {
				result[question.ID] = "Value must be ≤ " + formatNumber(*upper)
			}
		case question.Type.IsText():
			if question.Validation == nil || question.Validation.MaxLength == nil {
				continue
			}
			maxLength := *question.Validation.MaxLength
			if utf8.RuneCountInString(toText(answer)) > maxLength {
				result[question.ID] = fmt.Sprintf("Max length is %d chars.", maxLength)
			}
		}
	}
	return result
}

// isEmptyAnswer treats 0 and false as given answers.
func isEmptyAnswer(answer interface{}) bool {
	switch v := answer.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	}
	return false
}

func toNumber(answer interface{}) (float64, bool) {
	switch v := answer.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func toText(answer interface{}) string {
	if s, ok := answer.(string); ok {
		return s
	}
	return fmt.Sprint(answer)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
