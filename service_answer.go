package main

import (
	"time"
)

// SubmitAnswer records the participant's selection for one question of a
// session, overwriting any previous selection for that question.
//
// Validation: the session must exist, must not be graded, and (exam mode)
// must not be past its deadline; the question must belong to the session;
// every selected id must be an option of that question; single-choice
// questions accept at most one selection.
func (s *ExamService) SubmitAnswer(sessionID, questionID string, selected []string, bookmarked bool) error {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Result != nil {
		return ErrSessionGraded
	}
	if sess.Mode == ModeExam && sess.Expired(time.Now()) {
		return ErrSessionExpired
	}

	var question *Question
	for i := range sess.Questions {
		if sess.Questions[i].ID == questionID {
			question = &sess.Questions[i]
			break
		}
	}
	if question == nil {
		return ErrQuestionNotFound
	}

	selected = dedupe(selected)
	if question.Type == SingleChoice && len(selected) > 1 {
		return ErrTooManyAnswers
	}
	options := make(map[string]bool, len(question.Answers))
	for _, a := range question.Answers {
		options[a.ID] = true
	}
	for _, id := range selected {
		if !options[id] {
			return ErrInvalidAnswer
		}
	}

	sess.Answers[questionID] = &UserAnswer{
		QuestionID:      questionID,
		SelectedAnswers: selected,
		Bookmarked:      bookmarked,
	}
	return nil
}

// dedupe removes duplicate ids while keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
