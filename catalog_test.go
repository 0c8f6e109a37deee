package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeCatalogFiles writes an exam index and a question bank into dir.
func writeCatalogFiles(t *testing.T, dir string, questions []Question) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(dir, "questions"), 0o755); err != nil {
		t.Fatalf("MkdirAll returned error: %v", err)
	}

	index := examIndex{Exams: []Exam{{
		ID:              testExamID,
		Name:            "OmniStudio Developer Certification",
		QuestionsFile:   "questions/test.json",
		DurationMinutes: 90,
		PassingScore:    70.0,
		TotalQuestions:  len(questions),
	}}}
	data, err := json.Marshal(index)
	if err != nil {
		t.Fatalf("marshal exam index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exams.json"), data, 0o644); err != nil {
		t.Fatalf("write exams.json: %v", err)
	}

	bank, err := json.Marshal(questionBank{Questions: questions})
	if err != nil {
		t.Fatalf("marshal question bank: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "questions", "test.json"), bank, 0o644); err != nil {
		t.Fatalf("write questions file: %v", err)
	}
}

func TestLoadCatalog_FileLoad(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFiles(t, dir, testQuestions())

	catalog, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	exams := catalog.Exams()
	if len(exams) != 1 {
		t.Fatalf("expected 1 exam, got %d", len(exams))
	}
	if exams[0].ID != testExamID {
		t.Errorf("expected exam id %q, got %q", testExamID, exams[0].ID)
	}

	questions, err := catalog.Questions(testExamID)
	if err != nil {
		t.Fatalf("Questions returned error: %v", err)
	}
	if len(questions) != len(testQuestions()) {
		t.Errorf("expected %d questions, got %d", len(testQuestions()), len(questions))
	}
}

func TestLoadCatalog_MissingIndex(t *testing.T) {
	if _, err := LoadCatalog(t.TempDir()); err == nil {
		t.Fatal("expected error for missing exam index, got nil")
	}
}

func TestCatalog_QuestionsUnknownExam(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFiles(t, dir, testQuestions())
	catalog, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	if _, err := catalog.Questions("no-such-exam"); err != ErrExamNotFound {
		t.Errorf("expected ErrExamNotFound, got %v", err)
	}
}

func TestCatalog_RejectsCorrectAnswerOutsideOptions(t *testing.T) {
	bad := testQuestions()
	bad[0].CorrectAnswers = []string{"Z"}

	dir := t.TempDir()
	writeCatalogFiles(t, dir, bad)
	catalog, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	_, err = catalog.Questions(testExamID)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "not an answer option") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCatalog_RejectsMultiCorrectSingleChoice(t *testing.T) {
	bad := testQuestions()
	bad[0].CorrectAnswers = []string{"A", "B"} // Q1 is single_choice

	dir := t.TempDir()
	writeCatalogFiles(t, dir, bad)
	catalog, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	if _, err := catalog.Questions(testExamID); err == nil {
		t.Fatal("expected validation error for multi-correct single_choice, got nil")
	}
}

func TestFilterByTopics(t *testing.T) {
	questions := testQuestions()

	filtered := filterByTopics(questions, []string{"FlexCards"})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 FlexCards questions, got %d", len(filtered))
	}
	for _, q := range filtered {
		if q.Topic != "FlexCards" {
			t.Errorf("question %s has topic %q, expected FlexCards", q.ID, q.Topic)
		}
	}

	if got := filterByTopics(questions, nil); len(got) != len(questions) {
		t.Errorf("empty filter should return all questions, got %d", len(got))
	}
}

func TestCatalog_Statistics(t *testing.T) {
	catalog := newTestCatalog(testQuestions())

	stats, err := catalog.Statistics(testExamID)
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}
	if stats.TotalQuestions != 6 {
		t.Errorf("expected 6 total questions, got %d", stats.TotalQuestions)
	}
	if stats.ByTopic["DataRaptors"] != 2 || stats.ByTopic["OmniScripts"] != 2 || stats.ByTopic["FlexCards"] != 2 {
		t.Errorf("unexpected topic counts: %v", stats.ByTopic)
	}
	if stats.ByDifficulty["easy"] != 4 || stats.ByDifficulty["medium"] != 2 {
		t.Errorf("unexpected difficulty counts: %v", stats.ByDifficulty)
	}
}
