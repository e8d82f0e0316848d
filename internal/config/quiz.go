package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"image-quiz/internal/domain"
)

// quizSchema describes the structural contract of a quiz document:
//
//	{"title": "...", "questions": [["image.png", "answer"], ...]}
const quizSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "title": {"type": "string"},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "array",
        "minItems": 2,
        "maxItems": 2,
        "items": {"type": "string"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(quizSchema)

// Document is a parsed but not yet validated quiz configuration.
type Document struct {
	Path string
	Raw  json.RawMessage
}

// LoadQuiz reads the quiz document at path and checks that it is valid JSON.
func LoadQuiz(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read quiz config: %w", err)
	}
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, &domain.ConfigFormatError{Path: path, Err: err}
	}
	return Document{Path: path, Raw: data}, nil
}

// Validate checks the document shape, the types of every question and the
// existence of every referenced image. All questions are checked before a
// Configuration is returned.
func Validate(doc Document) (domain.Configuration, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc.Raw))
	if err != nil {
		return domain.Configuration{}, &domain.ConfigFormatError{Path: doc.Path, Err: err}
	}
	if !result.Valid() {
		return domain.Configuration{}, &domain.InvalidConfigError{Reason: describeSchemaErrors(doc.Raw, result.Errors())}
	}

	var parsed struct {
		Title     *string    `json:"title"`
		Questions [][]string `json:"questions"`
	}
	if err := json.Unmarshal(doc.Raw, &parsed); err != nil {
		return domain.Configuration{}, &domain.ConfigFormatError{Path: doc.Path, Err: err}
	}

	cfg := domain.Configuration{Title: domain.DefaultTitle}
	if parsed.Title != nil {
		cfg.Title = *parsed.Title
	}
	cfg.Questions = make([]domain.Question, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		info, err := os.Stat(q[0])
		if err != nil || info.IsDir() {
			return domain.Configuration{}, &domain.InvalidConfigError{Reason: "cannot find file " + q[0]}
		}
		cfg.Questions = append(cfg.Questions, domain.Question{ImagePath: q[0], Answer: q[1]})
	}
	return cfg, nil
}

// Lint reports answers that no submission can match. Submissions are
// trimmed and lower-cased, stored answers are compared verbatim.
func Lint(cfg domain.Configuration) []string {
	var warnings []string
	for i, q := range cfg.Questions {
		if q.Answer != strings.ToLower(q.Answer) {
			warnings = append(warnings, fmt.Sprintf("question %d (%s): answer %q contains upper-case letters", i+1, q.ImagePath, q.Answer))
		}
		if q.Answer != strings.TrimSpace(q.Answer) {
			warnings = append(warnings, fmt.Sprintf("question %d (%s): answer %q has surrounding whitespace", i+1, q.ImagePath, q.Answer))
		}
	}
	return warnings
}

type schemaIssue struct {
	question int
	reason   string
}

// describeSchemaErrors turns gojsonschema errors into a single reason,
// reporting the earliest offending question first.
func describeSchemaErrors(raw json.RawMessage, errs []gojsonschema.ResultError) string {
	issues := make([]schemaIssue, 0, len(errs))
	for _, e := range errs {
		issues = append(issues, classify(raw, e))
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].question < issues[j].question
	})
	return issues[0].reason
}

func classify(raw json.RawMessage, e gojsonschema.ResultError) schemaIssue {
	parts := strings.Split(e.Field(), ".")
	if len(parts) >= 2 && parts[0] == "questions" {
		idx, err := strconv.Atoi(parts[1])
		if err == nil {
			entry := questionText(raw, idx)
			if len(parts) == 2 && (e.Type() == "array_min_items" || e.Type() == "array_max_items") {
				return schemaIssue{question: idx, reason: "wrong number of elements in question " + entry}
			}
			return schemaIssue{question: idx, reason: "wrong types in question " + entry}
		}
	}

	// Document-level problems sort ahead of question-level ones.
	switch {
	case e.Type() == "required":
		return schemaIssue{question: -1, reason: "missing questions list"}
	case e.Field() == "questions" && e.Type() == "array_min_items":
		return schemaIssue{question: -1, reason: "no questions configured"}
	case e.Field() == "questions":
		return schemaIssue{question: -1, reason: "questions must be a list"}
	case e.Field() == "title":
		return schemaIssue{question: -1, reason: "title must be text"}
	case e.Field() == "(root)":
		return schemaIssue{question: -1, reason: "configuration must be an object"}
	}
	return schemaIssue{question: -1, reason: e.String()}
}

// questionText renders question idx of the raw document for error messages.
func questionText(raw json.RawMessage, idx int) string {
	var doc struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || idx >= len(doc.Questions) {
		return strconv.Itoa(idx + 1)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, doc.Questions[idx]); err != nil {
		return string(doc.Questions[idx])
	}
	return buf.String()
}
