package dto

// QuizView is the render model of a quiz session: everything a page needs to draw itself.
type QuizView struct {
	SessionID string `json:"session_id,omitempty"`
	Phase     string `json:"phase"`
	Context   string `json:"context,omitempty"`

	// Answering
	Question *QuestionView `json:"question,omitempty"`

	// Completed
	Score   *int         `json:"score,omitempty"`
	Summary string       `json:"summary,omitempty"`
	Results []ResultView `json:"results,omitempty"`

	// Pending is set while a start or submit request is in flight.
	Pending    bool   `json:"pending,omitempty"`
	Error      string `json:"error,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type QuestionView struct {
	ID              string   `json:"id"`
	Number          int      `json:"number"`
	Total           int      `json:"total"`
	Level           string   `json:"level"`
	Text            string   `json:"text"`
	Options         []string `json:"options"`
	Selected        string   `json:"selected,omitempty"`
	TimeLeft        int      `json:"time_left"`
	TimePerQuestion int      `json:"time_per_question"`
	NextLabel       string   `json:"next_label"`
}

type ResultView struct {
	QuestionID    string `json:"question_id"`
	Verdict       string `json:"verdict"`
	IsCorrect     bool   `json:"is_correct"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}
