package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the exam system configuration. The JSON fields come from the
// config file; listen address and storage locations come from the environment.
type Config struct {
	ExamDurationMinutes         int     `json:"exam_duration_minutes"`
	PassingScorePercentage      float64 `json:"passing_score_percentage"`
	QuestionsPerExam            int     `json:"questions_per_exam"`
	AllowReview                 bool    `json:"allow_review"`
	RandomizeQuestions          bool    `json:"randomize_questions"`
	RandomizeAnswers            bool    `json:"randomize_answers"`
	ShowExplanationsInStudyMode bool    `json:"show_explanations_in_study_mode"`
	WeakAreaThresholdPercentage float64 `json:"weak_area_threshold_percentage"`

	ListenAddr string `json:"-"`
	DataDir    string `json:"-"`
	ResultsDir string `json:"-"`
}

// DefaultConfig returns the configuration defaults used when the config file
// omits a field.
func DefaultConfig() Config {
	return Config{
		ExamDurationMinutes:         90,
		PassingScorePercentage:      70.0,
		QuestionsPerExam:            60,
		AllowReview:                 true,
		RandomizeQuestions:          true,
		RandomizeAnswers:            true,
		ShowExplanationsInStudyMode: true,
		WeakAreaThresholdPercentage: 65.0,
	}
}

// LoadConfig loads configuration from a JSON file, starting from defaults.
// A missing or malformed file is an error; the caller is expected to fail fast.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.ExamDurationMinutes <= 0 {
		return nil, fmt.Errorf("config %s: exam_duration_minutes must be positive", path)
	}
	if cfg.PassingScorePercentage < 0 || cfg.PassingScorePercentage > 100 {
		return nil, fmt.Errorf("config %s: passing_score_percentage must be within [0,100]", path)
	}
	if cfg.QuestionsPerExam <= 0 {
		return nil, fmt.Errorf("config %s: questions_per_exam must be positive", path)
	}

	return &cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
