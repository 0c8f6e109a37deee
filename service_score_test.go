package main

import (
	"reflect"
	"testing"
)

// answerAll submits the correct answer for every question whose id is in
// correct, and a wrong selection for the rest.
func answerAll(t *testing.T, service *ExamService, sess *Session, correct map[string]bool) {
	t.Helper()
	for _, q := range sess.Questions {
		var selection []string
		if correct[q.ID] {
			selection = append([]string(nil), q.CorrectAnswers...)
		} else {
			// Pick a single option that is not the full correct set.
			for _, a := range q.Answers {
				if len(q.CorrectAnswers) != 1 || q.CorrectAnswers[0] != a.ID {
					selection = []string{a.ID}
					break
				}
			}
		}
		if err := service.SubmitAnswer(sess.ID, q.ID, selection, false); err != nil {
			t.Fatalf("SubmitAnswer(%s) returned error: %v", q.ID, err)
		}
	}
}

func TestGrade_AllCorrectPasses(t *testing.T) {
	service := newTestService(t, nil)
	sess := startStudySession(t, service)

	correct := make(map[string]bool)
	for _, q := range sess.Questions {
		correct[q.ID] = true
	}
	answerAll(t, service, sess, correct)

	result, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	if result.ScorePercentage != 100.0 {
		t.Errorf("expected 100%%, got %v", result.ScorePercentage)
	}
	if !result.Passed {
		t.Error("expected a passing verdict")
	}
	if result.CorrectAnswers != result.TotalQuestions {
		t.Errorf("expected %d correct, got %d", result.TotalQuestions, result.CorrectAnswers)
	}
	for _, tp := range result.TopicPerformance {
		if tp.IsWeakArea {
			t.Errorf("topic %s flagged weak at %v%%", tp.Topic, tp.Percentage)
		}
	}
	if len(result.WeakAreas) != 0 {
		t.Errorf("expected no weak areas, got %v", result.WeakAreas)
	}
}

func TestGrade_UnansweredCountsAsIncorrect(t *testing.T) {
	service := newTestService(t, nil)
	sess := startStudySession(t, service)

	result, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	if result.ScorePercentage != 0.0 {
		t.Errorf("expected 0%%, got %v", result.ScorePercentage)
	}
	if result.Passed {
		t.Error("expected a failing verdict")
	}
	if len(result.WeakAreas) != 3 {
		t.Errorf("expected all 3 topics weak, got %v", result.WeakAreas)
	}
}

func TestGrade_ScoreBoundsAndThreshold(t *testing.T) {
	service := newTestService(t, nil)
	sess := startStudySession(t, service) // 6 questions, threshold 70%

	// 4 of 6 correct = 66.7%, just under the threshold.
	answerAll(t, service, sess, map[string]bool{"Q1": true, "Q2": true, "Q3": true, "Q4": true})

	result, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	if result.ScorePercentage < 0 || result.ScorePercentage > 100 {
		t.Errorf("score out of range: %v", result.ScorePercentage)
	}
	if result.ScorePercentage != 66.7 {
		t.Errorf("expected 66.7%%, got %v", result.ScorePercentage)
	}
	if result.Passed {
		t.Error("66.7%% must not pass a 70%% threshold")
	}
}

func TestGrade_TopicBreakdown(t *testing.T) {
	service := newTestService(t, nil)
	sess := startStudySession(t, service)

	// Both DataRaptors right, one OmniScripts right, no FlexCards.
	answerAll(t, service, sess, map[string]bool{"Q1": true, "Q2": true, "Q3": true})

	result, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}

	byTopic := make(map[string]TopicPerformance)
	for _, tp := range result.TopicPerformance {
		byTopic[tp.Topic] = tp
	}
	if tp := byTopic["DataRaptors"]; tp.CorrectAnswers != 2 || tp.Percentage != 100.0 || tp.IsWeakArea {
		t.Errorf("unexpected DataRaptors performance: %+v", tp)
	}
	if tp := byTopic["OmniScripts"]; tp.CorrectAnswers != 1 || tp.Percentage != 50.0 || !tp.IsWeakArea {
		t.Errorf("unexpected OmniScripts performance: %+v", tp)
	}
	if tp := byTopic["FlexCards"]; tp.CorrectAnswers != 0 || tp.Percentage != 0.0 || !tp.IsWeakArea {
		t.Errorf("unexpected FlexCards performance: %+v", tp)
	}

	// Worst topics come first.
	if result.TopicPerformance[0].Topic != "FlexCards" {
		t.Errorf("expected FlexCards first, got %s", result.TopicPerformance[0].Topic)
	}
	if !reflect.DeepEqual(result.WeakAreas, []string{"FlexCards", "OmniScripts"}) {
		t.Errorf("unexpected weak areas: %v", result.WeakAreas)
	}
}

func TestGrade_MultipleChoiceNeedsExactSet(t *testing.T) {
	service := newTestService(t, nil)
	sess := startStudySession(t, service)
	q := findQuestion(t, sess, "Q3") // correct set {A, B}

	// A partial selection is not correct.
	if err := service.SubmitAnswer(sess.ID, q.ID, []string{"A"}, false); err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	result, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	for _, d := range result.QuestionDetails {
		if d.QuestionID == "Q3" && d.IsCorrect {
			t.Error("partial multiple-choice selection must not be correct")
		}
	}
}

func TestGrade_OrderInsensitiveSelection(t *testing.T) {
	service := newTestService(t, nil)
	sess := startStudySession(t, service)
	q := findQuestion(t, sess, "Q6") // correct set {A, C}

	if err := service.SubmitAnswer(sess.ID, q.ID, []string{"C", "A"}, false); err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	result, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	for _, d := range result.QuestionDetails {
		if d.QuestionID == "Q6" && !d.IsCorrect {
			t.Error("selection order must not matter")
		}
	}
}

func TestGrade_Idempotent(t *testing.T) {
	service := newTestService(t, nil)
	sess := startStudySession(t, service)
	answerAll(t, service, sess, map[string]bool{"Q1": true, "Q5": true})

	first, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	second, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("second Grade returned error: %v", err)
	}
	if first != second {
		t.Error("expected the stored result instance on re-grade")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results on re-grade")
	}
}

func TestGrade_PersistsResultFile(t *testing.T) {
	cfg := newTestConfig()
	results, err := NewResultStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewResultStore returned error: %v", err)
	}
	service := NewExamService(cfg, newTestCatalog(testQuestions()), NewSessionStore(SessionTTL), results, nil)

	sess, err := service.StartSession(testExamID, ModeExam, nil, 4, "alice")
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	graded, err := service.Grade(sess.ID)
	if err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}

	loaded, err := results.Load(sess.ID)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.SessionID != graded.SessionID || loaded.ScorePercentage != graded.ScorePercentage {
		t.Errorf("persisted result differs: %+v vs %+v", loaded, graded)
	}
	if loaded.Candidate != "alice" {
		t.Errorf("expected candidate alice, got %q", loaded.Candidate)
	}
}

func TestReview_Gating(t *testing.T) {
	service := newTestService(t, nil)

	examSess, err := service.StartSession(testExamID, ModeExam, nil, 4, "")
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	if _, err := service.Review(examSess.ID); err != ErrNotGraded {
		t.Errorf("expected ErrNotGraded before grading in exam mode, got %v", err)
	}
	if _, err := service.Grade(examSess.ID); err != nil {
		t.Fatalf("Grade returned error: %v", err)
	}
	items, err := service.Review(examSess.ID)
	if err != nil {
		t.Fatalf("Review returned error: %v", err)
	}
	if len(items) != 4 {
		t.Errorf("expected 4 review items, got %d", len(items))
	}

	studySess := startStudySession(t, service)
	if _, err := service.Review(studySess.ID); err != nil {
		t.Errorf("study mode review should work before grading, got %v", err)
	}

	disabled := newTestConfig()
	disabled.AllowReview = false
	service2 := newTestService(t, disabled)
	sess2 := startStudySession(t, service2)
	if _, err := service2.Review(sess2.ID); err != ErrReviewDisabled {
		t.Errorf("expected ErrReviewDisabled, got %v", err)
	}
}

func TestSameSet(t *testing.T) {
	cases := []struct {
		a, b []string
		want bool
	}{
		{[]string{"A"}, []string{"A"}, true},
		{[]string{"A", "B"}, []string{"B", "A"}, true},
		{[]string{"A"}, []string{"B"}, false},
		{[]string{"A"}, []string{"A", "B"}, false},
		{nil, []string{"A"}, false},
		{nil, nil, false},
	}
	for _, c := range cases {
		if got := sameSet(c.a, c.b); got != c.want {
			t.Errorf("sameSet(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
