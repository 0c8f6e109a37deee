package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Catalog holds the exam index and lazily loads each exam's question bank
// from its JSON file. Question banks are read-only once loaded.
type Catalog struct {
	dataDir string
	exams   map[string]Exam
	order   []string // exam ids in index-file order

	mu        sync.Mutex
	questions map[string][]Question // examID -> validated bank
}

type examIndex struct {
	Exams []Exam `json:"exams"`
}

type questionBank struct {
	Questions []Question `json:"questions"`
}

// LoadCatalog reads the exam index from <dataDir>/exams.json.
// Question files are loaded on first use.
func LoadCatalog(dataDir string) (*Catalog, error) {
	indexPath := filepath.Join(dataDir, "exams.json")
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read exam index %s: %w", indexPath, err)
	}

	var index examIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse exam index %s: %w", indexPath, err)
	}
	if len(index.Exams) == 0 {
		return nil, fmt.Errorf("exam index %s contains no exams", indexPath)
	}

	c := &Catalog{
		dataDir:   dataDir,
		exams:     make(map[string]Exam, len(index.Exams)),
		questions: make(map[string][]Question),
	}
	for _, exam := range index.Exams {
		if exam.ID == "" {
			return nil, fmt.Errorf("exam index %s: exam with empty id", indexPath)
		}
		if _, dup := c.exams[exam.ID]; dup {
			return nil, fmt.Errorf("exam index %s: duplicate exam id %q", indexPath, exam.ID)
		}
		if exam.QuestionsFile == "" {
			return nil, fmt.Errorf("exam index %s: exam %q has no questions_file", indexPath, exam.ID)
		}
		c.exams[exam.ID] = exam
		c.order = append(c.order, exam.ID)
	}

	log.Printf("Loaded %d exams from %s", len(c.exams), indexPath)
	return c, nil
}

// Exams returns all exams in index order.
func (c *Catalog) Exams() []Exam {
	exams := make([]Exam, 0, len(c.order))
	for _, id := range c.order {
		exams = append(exams, c.exams[id])
	}
	return exams
}

// Exam returns the exam with the given id.
func (c *Catalog) Exam(id string) (Exam, bool) {
	exam, ok := c.exams[id]
	return exam, ok
}

// Questions returns the validated question bank for an exam, loading it from
// disk on first use. Relative question file paths resolve against the data dir.
func (c *Catalog) Questions(examID string) ([]Question, error) {
	exam, ok := c.exams[examID]
	if !ok {
		return nil, ErrExamNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if bank, ok := c.questions[examID]; ok {
		return bank, nil
	}

	path := exam.QuestionsFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dataDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file %s: %w", path, err)
	}
	var bank questionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse questions file %s: %w", path, err)
	}
	if len(bank.Questions) == 0 {
		return nil, fmt.Errorf("questions file %s contains no questions", path)
	}

	seen := make(map[string]bool, len(bank.Questions))
	for _, q := range bank.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("questions file %s: %w", path, err)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("questions file %s: duplicate question id %q", path, q.ID)
		}
		seen[q.ID] = true
	}

	c.questions[examID] = bank.Questions
	log.Printf("Loaded %d questions for exam %q from %s", len(bank.Questions), examID, path)
	return bank.Questions, nil
}

// validateQuestion checks the structural invariants of a question:
// at least two options, at least one correct answer, correct ids form a
// subset of option ids, and single-choice questions have exactly one.
func validateQuestion(q Question) error {
	if q.ID == "" {
		return fmt.Errorf("question with empty id")
	}
	if len(q.Answers) < 2 {
		return fmt.Errorf("question %q: needs at least 2 answer options", q.ID)
	}
	if len(q.CorrectAnswers) == 0 {
		return fmt.Errorf("question %q: has no correct answers", q.ID)
	}
	if q.Type != SingleChoice && q.Type != MultipleChoice {
		return fmt.Errorf("question %q: unknown question_type %q", q.ID, q.Type)
	}
	if q.Type == SingleChoice && len(q.CorrectAnswers) != 1 {
		return fmt.Errorf("question %q: single_choice must have exactly one correct answer", q.ID)
	}

	optionIDs := make(map[string]bool, len(q.Answers))
	for _, a := range q.Answers {
		if a.ID == "" {
			return fmt.Errorf("question %q: answer option with empty id", q.ID)
		}
		if optionIDs[a.ID] {
			return fmt.Errorf("question %q: duplicate answer option id %q", q.ID, a.ID)
		}
		optionIDs[a.ID] = true
	}
	for _, id := range q.CorrectAnswers {
		if !optionIDs[id] {
			return fmt.Errorf("question %q: correct answer %q is not an answer option", q.ID, id)
		}
	}
	return nil
}

// filterByTopics returns the questions whose topic is in the given set.
// An empty topic list means no filtering.
func filterByTopics(questions []Question, topics []string) []Question {
	if len(topics) == 0 {
		return questions
	}
	want := make(map[string]bool, len(topics))
	for _, t := range topics {
		want[t] = true
	}
	var filtered []Question
	for _, q := range questions {
		if want[q.Topic] {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// ExamStatistics summarizes one exam's question bank.
type ExamStatistics struct {
	ExamID         string         `json:"exam_id"`
	TotalQuestions int            `json:"total_questions"`
	ByTopic        map[string]int `json:"by_topic"`
	ByDifficulty   map[string]int `json:"by_difficulty"`
}

// Statistics returns question bank statistics for one exam.
func (c *Catalog) Statistics(examID string) (*ExamStatistics, error) {
	questions, err := c.Questions(examID)
	if err != nil {
		return nil, err
	}

	stats := &ExamStatistics{
		ExamID:         examID,
		TotalQuestions: len(questions),
		ByTopic:        make(map[string]int),
		ByDifficulty:   make(map[string]int),
	}
	for _, q := range questions {
		stats.ByTopic[q.Topic]++
		if q.Difficulty != "" {
			stats.ByDifficulty[q.Difficulty]++
		}
	}
	return stats, nil
}

// AllStatistics returns statistics for every exam in the index.
func (c *Catalog) AllStatistics() (map[string]*ExamStatistics, error) {
	all := make(map[string]*ExamStatistics, len(c.order))
	for _, id := range c.order {
		stats, err := c.Statistics(id)
		if err != nil {
			return nil, err
		}
		all[id] = stats
	}
	return all, nil
}
