package domain

// DefaultTitle is used when a configuration does not name its quiz.
const DefaultTitle = "Quiz"

// Question pairs an image with the answer expected for it.
type Question struct {
	ImagePath string `json:"imagePath"`
	Answer    string `json:"answer"`
}

// Image is the opaque content of a question image, read once at startup.
type Image struct {
	Path        string
	ContentType string
	Data        []byte
}

// Configuration is a validated quiz configuration document.
type Configuration struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Quiz is a configuration with every referenced image already loaded.
type Quiz struct {
	ID        string
	Title     string
	Questions []Question
	Images    map[string]Image
}

// Result records whether the answer to one presented question was correct.
type Result struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// AnswerOutcome summarizes a single submission.
type AnswerOutcome struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
	Finished bool   `json:"finished"`
}
