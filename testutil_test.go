package main

import (
	"testing"
)

const testExamID = "omnistudio-dev"

// testQuestions returns a small fixed question bank spanning three topics.
func testQuestions() []Question {
	return []Question{
		{
			ID: "Q1", Topic: "DataRaptors", Text: "What does a DataRaptor Extract do?",
			Answers: []AnswerOption{{ID: "A", Text: "Reads data"}, {ID: "B", Text: "Writes data"}, {ID: "C", Text: "Deletes data"}},
			CorrectAnswers: []string{"A"}, Type: SingleChoice, Difficulty: "easy",
		},
		{
			ID: "Q2", Topic: "DataRaptors", Text: "Which DataRaptor type writes to Salesforce?",
			Answers: []AnswerOption{{ID: "A", Text: "Extract"}, {ID: "B", Text: "Load"}, {ID: "C", Text: "Transform"}},
			CorrectAnswers: []string{"B"}, Type: SingleChoice, Difficulty: "easy",
		},
		{
			ID: "Q3", Topic: "OmniScripts", Text: "Which two are OmniScript elements?",
			Answers: []AnswerOption{{ID: "A", Text: "Text input"}, {ID: "B", Text: "Set Values"}, {ID: "C", Text: "Kafka topic"}, {ID: "D", Text: "Cron job"}},
			CorrectAnswers: []string{"A", "B"}, Type: MultipleChoice, Difficulty: "medium",
		},
		{
			ID: "Q4", Topic: "OmniScripts", Text: "What activates a new OmniScript version?",
			Answers: []AnswerOption{{ID: "A", Text: "Activation"}, {ID: "B", Text: "Deletion"}},
			CorrectAnswers: []string{"A"}, Type: SingleChoice, Difficulty: "easy",
		},
		{
			ID: "Q5", Topic: "FlexCards", Text: "What is a FlexCard for?",
			Answers: []AnswerOption{{ID: "A", Text: "Contextual display"}, {ID: "B", Text: "Batch jobs"}},
			CorrectAnswers: []string{"A"}, Type: SingleChoice, Difficulty: "easy",
			Explanation: "FlexCards present contextual summary data.",
		},
		{
			ID: "Q6", Topic: "FlexCards", Text: "Which sources feed a FlexCard?",
			Answers: []AnswerOption{{ID: "A", Text: "DataRaptors"}, {ID: "B", Text: "Cookies"}, {ID: "C", Text: "Integration Procedures"}},
			CorrectAnswers: []string{"A", "C"}, Type: MultipleChoice, Difficulty: "medium",
		},
	}
}

// newTestCatalog builds a catalog with one exam and a preloaded bank,
// bypassing the filesystem.
func newTestCatalog(questions []Question) *Catalog {
	exam := Exam{
		ID:              testExamID,
		Name:            "OmniStudio Developer Certification",
		QuestionsFile:   "questions/test.json",
		DurationMinutes: 90,
		PassingScore:    70.0,
		TotalQuestions:  len(questions),
	}
	return &Catalog{
		exams:     map[string]Exam{exam.ID: exam},
		order:     []string{exam.ID},
		questions: map[string][]Question{exam.ID: questions},
	}
}

func newTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.QuestionsPerExam = 4
	return &cfg
}

// newTestService wires a service against a temp result directory and no
// leaderboard.
func newTestService(t *testing.T, cfg *Config) *ExamService {
	t.Helper()
	if cfg == nil {
		cfg = newTestConfig()
	}
	results, err := NewResultStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewResultStore returned error: %v", err)
	}
	return NewExamService(cfg, newTestCatalog(testQuestions()), NewSessionStore(SessionTTL), results, nil)
}
