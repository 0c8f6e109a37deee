package main

import (
	"sync"
	"time"
)

// QuestionType distinguishes single-choice from multiple-choice questions.
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
)

// Exam modes. Exam mode is timed with no feedback until grading;
// study mode is untimed and may reveal explanations.
const (
	ModeExam  = "exam"
	ModeStudy = "study"
)

// AnswerOption is a single answer option of a question.
type AnswerOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one question of an exam question bank.
type Question struct {
	ID             string         `json:"id"`
	Topic          string         `json:"topic"`
	Text           string         `json:"question_text"`
	Answers        []AnswerOption `json:"answers"`
	CorrectAnswers []string       `json:"correct_answers"`
	Type           QuestionType   `json:"question_type"`
	Explanation    string         `json:"explanation,omitempty"`
	Difficulty     string         `json:"difficulty,omitempty"`
}

// PublicQuestion is the client-facing view of a question. Correct answers and
// explanations are stripped unless the session mode allows revealing them.
type PublicQuestion struct {
	ID          string         `json:"id"`
	Topic       string         `json:"topic"`
	Text        string         `json:"question_text"`
	Answers     []AnswerOption `json:"answers"`
	Type        QuestionType   `json:"question_type"`
	Explanation string         `json:"explanation,omitempty"`
	Difficulty  string         `json:"difficulty,omitempty"`
}

// Exam describes one available exam in the exam index.
type Exam struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	QuestionsFile   string   `json:"questions_file"`
	DurationMinutes int      `json:"duration_minutes"`
	PassingScore    float64  `json:"passing_score"`
	TotalQuestions  int      `json:"total_questions"`
	Topics          []string `json:"topics,omitempty"`
}

// UserAnswer is the tracked selection for one question of a session.
// Submitting again for the same question overwrites the previous selection.
type UserAnswer struct {
	QuestionID      string   `json:"question_id"`
	SelectedAnswers []string `json:"selected_answers"`
	Bookmarked      bool     `json:"bookmarked"`
}

// Session is one participant's attempt at a sampled question set.
type Session struct {
	ID              string
	ExamID          string
	Mode            string
	Candidate       string
	Questions       []Question
	StartTime       time.Time
	DurationMinutes int // 0 means untimed
	CurrentIndex    int
	Answers         map[string]*UserAnswer
	Result          *Result // set once graded; grading is idempotent

	mu sync.Mutex
}

// SessionView is the client-facing representation of a session.
type SessionView struct {
	SessionID       string           `json:"session_id"`
	ExamID          string           `json:"exam_id"`
	Mode            string           `json:"mode"`
	Candidate       string           `json:"candidate,omitempty"`
	Questions       []PublicQuestion `json:"questions"`
	StartTime       time.Time        `json:"start_time"`
	DurationMinutes int              `json:"duration_minutes,omitempty"`
	CurrentIndex    int              `json:"current_question_index"`
	Answers         []UserAnswer     `json:"user_answers"`
	Graded          bool             `json:"graded"`
}

// TopicPerformance is the per-topic score breakdown of a graded session.
type TopicPerformance struct {
	Topic          string  `json:"topic"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Percentage     float64 `json:"percentage"`
	IsWeakArea     bool    `json:"is_weak_area"`
}

// QuestionDetail is the per-question row of a result report.
type QuestionDetail struct {
	QuestionID     string   `json:"question_id"`
	QuestionText   string   `json:"question_text"`
	Topic          string   `json:"topic"`
	UserAnswers    []string `json:"user_answers"`
	CorrectAnswers []string `json:"correct_answers"`
	IsCorrect      bool     `json:"is_correct"`
	Explanation    string   `json:"explanation,omitempty"`
	Bookmarked     bool     `json:"bookmarked"`
}

// Result is the final score report of a session.
type Result struct {
	SessionID        string             `json:"session_id"`
	ExamID           string             `json:"exam_id"`
	ExamMode         string             `json:"exam_mode"`
	Candidate        string             `json:"candidate,omitempty"`
	TotalQuestions   int                `json:"total_questions"`
	CorrectAnswers   int                `json:"correct_answers"`
	ScorePercentage  float64            `json:"score_percentage"`
	Passed           bool               `json:"passed"`
	TimeTakenMinutes int                `json:"time_taken_minutes"`
	CompletionDate   time.Time          `json:"completion_date"`
	TopicPerformance []TopicPerformance `json:"topic_performance"`
	WeakAreas        []string           `json:"weak_areas"`
	QuestionDetails  []QuestionDetail   `json:"question_details"`
}
