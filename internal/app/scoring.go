package app

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"image-quiz/internal/domain"
)

type gradeRule struct {
	threshold float64
	message   string
}

// grades must stay sorted by descending threshold.
var grades = []gradeRule{
	{100.0, "Perfect! You made it!"},
	{99.0, "Nearly perfect! Keep trying!"},
	{90.0, "Very good!"},
	{75.0, "Good!"},
	{50.0, "You pass, but there is room for improvement"},
	{0.0, "You fail. You must practice more"},
}

// Summary is what a results surface renders at the end of a session.
type Summary struct {
	Title   string          `json:"title"`
	Rate    float64         `json:"rate"`
	Grade   string          `json:"grade"`
	Results []domain.Result `json:"results"`
}

// SuccessRate returns the percentage of correct results.
// An empty result list has no rate and yields domain.ErrNoResults.
func SuccessRate(results []domain.Result) (float64, error) {
	if len(results) == 0 {
		return 0, domain.ErrNoResults
	}
	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(results)) * 100, nil
}

// Grade maps a success rate to its feedback message.
func Grade(rate float64) (string, error) {
	for _, g := range grades {
		if rate >= g.threshold {
			return g.message, nil
		}
	}
	return "", domain.ErrInvalidRate
}

// AnswerMatches compares a typed answer against the stored one. Only the
// submission is normalized; stored answers are expected in lower case.
func AnswerMatches(submitted, expected string) bool {
	return strings.ToLower(strings.TrimSpace(submitted)) == expected
}

// Summarize scores a finished session.
func Summarize(title string, results []domain.Result) (Summary, error) {
	rate, err := SuccessRate(results)
	if err != nil {
		return Summary{}, err
	}
	grade, err := Grade(rate)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Title: title, Rate: rate, Grade: grade, Results: results}, nil
}

// Feedback is the message shown right after an answer.
func Feedback(outcome domain.AnswerOutcome) string {
	if outcome.Correct {
		return "That's correct!"
	}
	return "You're wrong!\nThe correct answer was:\n" + DisplayAnswer(outcome.Expected)
}

// DisplayAnswer title-cases an answer for listings.
func DisplayAnswer(answer string) string {
	return cases.Title(language.Und).String(answer)
}

// FormatRate renders a rate the way the results surfaces print it.
func FormatRate(rate float64) string {
	return fmt.Sprintf("Result: %.2f%%", rate)
}

// YesNo renders a correctness flag for result tables.
func YesNo(correct bool) string {
	if correct {
		return "YES"
	}
	return "NO"
}
