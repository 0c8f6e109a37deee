package main

import (
	"log"
	"math"
	"sort"
	"time"
)

// Grade scores a session against the correct answer sets and produces the
// final report: per-question detail, topic breakdown sorted worst-first,
// weak areas, and the pass/fail verdict. The first grade is stored on the
// session and persisted; grading again returns the stored result unchanged.
func (s *ExamService) Grade(sessionID string) (*Result, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Result != nil {
		return sess.Result, nil
	}

	type topicStat struct {
		total   int
		correct int
	}
	topicStats := make(map[string]*topicStat)
	topicOrder := make([]string, 0)

	total := len(sess.Questions)
	correctCount := 0
	details := make([]QuestionDetail, 0, total)

	for _, q := range sess.Questions {
		var selected []string
		bookmarked := false
		if a, ok := sess.Answers[q.ID]; ok {
			selected = a.SelectedAnswers
			bookmarked = a.Bookmarked
		}

		isCorrect := sameSet(selected, q.CorrectAnswers)
		if isCorrect {
			correctCount++
		}

		stat, ok := topicStats[q.Topic]
		if !ok {
			stat = &topicStat{}
			topicStats[q.Topic] = stat
			topicOrder = append(topicOrder, q.Topic)
		}
		stat.total++
		if isCorrect {
			stat.correct++
		}

		details = append(details, QuestionDetail{
			QuestionID:     q.ID,
			QuestionText:   q.Text,
			Topic:          q.Topic,
			UserAnswers:    append([]string(nil), selected...),
			CorrectAnswers: append([]string(nil), q.CorrectAnswers...),
			IsCorrect:      isCorrect,
			Explanation:    q.Explanation,
			Bookmarked:     bookmarked,
		})
	}

	score := 0.0
	if total > 0 {
		score = round1(float64(correctCount) / float64(total) * 100)
	}

	threshold := s.config.PassingScorePercentage
	if exam, ok := s.catalog.Exam(sess.ExamID); ok && exam.PassingScore > 0 {
		threshold = exam.PassingScore
	}

	performance := make([]TopicPerformance, 0, len(topicOrder))
	weakAreas := make([]string, 0)
	for _, topic := range topicOrder {
		stat := topicStats[topic]
		pct := round1(float64(stat.correct) / float64(stat.total) * 100)
		isWeak := pct < s.config.WeakAreaThresholdPercentage
		performance = append(performance, TopicPerformance{
			Topic:          topic,
			TotalQuestions: stat.total,
			CorrectAnswers: stat.correct,
			Percentage:     pct,
			IsWeakArea:     isWeak,
		})
	}
	// Worst topics first; name breaks ties so reports are deterministic.
	sort.Slice(performance, func(i, j int) bool {
		if performance[i].Percentage != performance[j].Percentage {
			return performance[i].Percentage < performance[j].Percentage
		}
		return performance[i].Topic < performance[j].Topic
	})
	for _, p := range performance {
		if p.IsWeakArea {
			weakAreas = append(weakAreas, p.Topic)
		}
	}

	now := time.Now()
	result := &Result{
		SessionID:        sess.ID,
		ExamID:           sess.ExamID,
		ExamMode:         sess.Mode,
		Candidate:        sess.Candidate,
		TotalQuestions:   total,
		CorrectAnswers:   correctCount,
		ScorePercentage:  score,
		Passed:           score >= threshold,
		TimeTakenMinutes: int(now.Sub(sess.StartTime).Minutes()),
		CompletionDate:   now,
		TopicPerformance: performance,
		WeakAreas:        weakAreas,
		QuestionDetails:  details,
	}
	sess.Result = result

	if err := s.results.Save(result); err != nil {
		log.Printf("Failed to save result for session %s: %v", sess.ID, err)
	}
	if s.leaderboard != nil && sess.Mode == ModeExam && sess.Candidate != "" {
		if err := s.leaderboard.UpdateScore(sess.ExamID, sess.Candidate, score); err != nil {
			log.Printf("Failed to update leaderboard for session %s: %v", sess.ID, err)
		}
	}

	return result, nil
}

// ReviewItem pairs a session question with the tracked answer and verdict.
type ReviewItem struct {
	QuestionNumber int         `json:"question_number"`
	Question       Question    `json:"question"`
	UserAnswer     *UserAnswer `json:"user_answer"`
	IsCorrect      bool        `json:"is_correct"`
}

// Review returns every session question with the tracked and correct answers.
// In exam mode the session must be graded first; study mode allows review at
// any time. Disabled entirely via configuration.
func (s *ExamService) Review(sessionID string) ([]ReviewItem, error) {
	if !s.config.AllowReview {
		return nil, ErrReviewDisabled
	}
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Mode == ModeExam && sess.Result == nil {
		return nil, ErrNotGraded
	}

	items := make([]ReviewItem, 0, len(sess.Questions))
	for i, q := range sess.Questions {
		item := ReviewItem{
			QuestionNumber: i + 1,
			Question:       q,
		}
		if a, ok := sess.Answers[q.ID]; ok {
			answer := *a
			item.UserAnswer = &answer
			item.IsCorrect = sameSet(a.SelectedAnswers, q.CorrectAnswers)
		}
		items = append(items, item)
	}
	return items, nil
}

// sameSet reports whether two id lists contain the same set of ids.
func sameSet(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return false // an empty selection never matches; correct sets are non-empty
	}
	setA := make(map[string]bool, len(a))
	for _, id := range a {
		setA[id] = true
	}
	setB := make(map[string]bool, len(b))
	for _, id := range b {
		setB[id] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if !setB[id] {
			return false
		}
	}
	return true
}

// round1 rounds to one decimal place.
func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
