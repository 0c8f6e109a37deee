package main

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ExamService handles session lifecycle business logic: starting sessions,
// navigation, and session views.
type ExamService struct {
	config      *Config
	catalog     *Catalog
	sessions    *SessionStore
	results     *ResultStore
	leaderboard *LeaderboardRepository // nil when the leaderboard is disabled
}

// NewExamService creates a new exam service.
func NewExamService(config *Config, catalog *Catalog, sessions *SessionStore, results *ResultStore, leaderboard *LeaderboardRepository) *ExamService {
	return &ExamService{
		config:      config,
		catalog:     catalog,
		sessions:    sessions,
		results:     results,
		leaderboard: leaderboard,
	}
}

// StartSession samples a question set for the requested exam and creates a
// new session. Topics filter the pool; questionCount overrides the exam's
// default size and is clamped to the filtered pool.
func (s *ExamService) StartSession(examID, mode string, topics []string, questionCount int, candidate string) (*Session, error) {
	if mode == "" {
		mode = ModeExam
	}
	if mode != ModeExam && mode != ModeStudy {
		return nil, ErrInvalidMode
	}

	exam, ok := s.catalog.Exam(examID)
	if !ok {
		return nil, ErrExamNotFound
	}
	pool, err := s.catalog.Questions(examID)
	if err != nil {
		return nil, err
	}
	pool = filterByTopics(pool, topics)
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	n := questionCount
	if n <= 0 {
		n = exam.TotalQuestions
	}
	if n <= 0 {
		n = s.config.QuestionsPerExam
	}
	if n > len(pool) {
		n = len(pool)
	}

	selected := make([]Question, 0, n)
	if s.config.RandomizeQuestions {
		for _, idx := range rand.Perm(len(pool))[:n] {
			selected = append(selected, copyQuestion(pool[idx]))
		}
	} else {
		for _, q := range pool[:n] {
			selected = append(selected, copyQuestion(q))
		}
	}

	// Shuffle answer order on the session's copies; the catalog bank is
	// never mutated.
	if s.config.RandomizeAnswers {
		for i := range selected {
			rand.Shuffle(len(selected[i].Answers), func(a, b int) {
				selected[i].Answers[a], selected[i].Answers[b] = selected[i].Answers[b], selected[i].Answers[a]
			})
		}
	}

	duration := 0
	if mode == ModeExam {
		duration = exam.DurationMinutes
		if duration <= 0 {
			duration = s.config.ExamDurationMinutes
		}
	}

	sess := &Session{
		ID:              uuid.NewString(),
		ExamID:          examID,
		Mode:            mode,
		Candidate:       candidate,
		Questions:       selected,
		StartTime:       time.Now(),
		DurationMinutes: duration,
		Answers:         make(map[string]*UserAnswer),
	}
	s.sessions.Put(sess)
	return sess, nil
}

// GetSession returns an active session by id.
func (s *ExamService) GetSession(sessionID string) (*Session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// copyQuestion returns a question copy with its own answers slice, so
// per-session shuffling cannot touch the shared bank.
func copyQuestion(q Question) Question {
	c := q
	c.Answers = make([]AnswerOption, len(q.Answers))
	copy(c.Answers, q.Answers)
	c.CorrectAnswers = make([]string, len(q.CorrectAnswers))
	copy(c.CorrectAnswers, q.CorrectAnswers)
	return c
}

// revealAnswers reports whether a session's question views may include
// explanations (study mode only, subject to configuration).
func (s *ExamService) revealAnswers(sess *Session) bool {
	return sess.Mode == ModeStudy && s.config.ShowExplanationsInStudyMode
}

// publicQuestion strips grading data from a question for client views.
func publicQuestion(q Question, withExplanation bool) PublicQuestion {
	pq := PublicQuestion{
		ID:         q.ID,
		Topic:      q.Topic,
		Text:       q.Text,
		Answers:    q.Answers,
		Type:       q.Type,
		Difficulty: q.Difficulty,
	}
	if withExplanation {
		pq.Explanation = q.Explanation
	}
	return pq
}

// SessionView builds the client-facing representation of a session.
func (s *ExamService) SessionView(sess *Session) SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	reveal := s.revealAnswers(sess)
	view := SessionView{
		SessionID:       sess.ID,
		ExamID:          sess.ExamID,
		Mode:            sess.Mode,
		Candidate:       sess.Candidate,
		StartTime:       sess.StartTime,
		DurationMinutes: sess.DurationMinutes,
		CurrentIndex:    sess.CurrentIndex,
		Graded:          sess.Result != nil,
	}
	view.Questions = make([]PublicQuestion, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		view.Questions = append(view.Questions, publicQuestion(q, reveal))
	}
	view.Answers = make([]UserAnswer, 0, len(sess.Answers))
	for _, q := range sess.Questions {
		if a, ok := sess.Answers[q.ID]; ok {
			view.Answers = append(view.Answers, *a)
		}
	}
	return view
}

// Deadline returns the session's hard deadline. Untimed sessions have none.
func (sess *Session) Deadline() (time.Time, bool) {
	if sess.DurationMinutes <= 0 {
		return time.Time{}, false
	}
	return sess.StartTime.Add(time.Duration(sess.DurationMinutes) * time.Minute), true
}

// Expired reports whether a timed session is past its deadline.
func (sess *Session) Expired(now time.Time) bool {
	deadline, ok := sess.Deadline()
	return ok && now.After(deadline)
}

// RemainingSeconds returns the seconds left on a timed session, floored at 0.
// The second return is false for untimed sessions.
func (sess *Session) RemainingSeconds(now time.Time) (int, bool) {
	deadline, ok := sess.Deadline()
	if !ok {
		return 0, false
	}
	remaining := int(deadline.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// CurrentQuestion is the view returned for the question the participant is on.
type CurrentQuestion struct {
	Question       PublicQuestion `json:"question"`
	QuestionNumber int            `json:"question_number"`
	TotalQuestions int            `json:"total_questions"`
	UserAnswer     *UserAnswer    `json:"user_answer"`
	RemainingTime  *int           `json:"remaining_time_seconds"`
	IsExpired      bool           `json:"is_expired"`
}

// GetCurrentQuestion returns the session's current question with navigation
// metadata, the tracked answer, and timer state.
func (s *ExamService) GetCurrentQuestion(sessionID string) (*CurrentQuestion, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.CurrentIndex < 0 || sess.CurrentIndex >= len(sess.Questions) {
		return nil, ErrQuestionNotFound
	}
	q := sess.Questions[sess.CurrentIndex]

	now := time.Now()
	view := &CurrentQuestion{
		Question:       publicQuestion(q, s.revealAnswers(sess)),
		QuestionNumber: sess.CurrentIndex + 1,
		TotalQuestions: len(sess.Questions),
		IsExpired:      sess.Expired(now),
	}
	if a, ok := sess.Answers[q.ID]; ok {
		answer := *a
		view.UserAnswer = &answer
	}
	if remaining, timed := sess.RemainingSeconds(now); timed {
		view.RemainingTime = &remaining
	}
	return view, nil
}

// Navigate moves the session cursor one question forward or back, clamped to
// the question range. Returns the new 0-based index.
func (s *ExamService) Navigate(sessionID, direction string) (int, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch direction {
	case "next":
		if sess.CurrentIndex < len(sess.Questions)-1 {
			sess.CurrentIndex++
		}
	case "previous":
		if sess.CurrentIndex > 0 {
			sess.CurrentIndex--
		}
	default:
		return 0, ErrInvalidDirection
	}
	return sess.CurrentIndex, nil
}

// Jump moves the session cursor to a 1-based question number.
func (s *ExamService) Jump(sessionID string, questionNumber int) (int, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	index := questionNumber - 1
	if index < 0 || index >= len(sess.Questions) {
		return 0, ErrInvalidQuestionNumber
	}
	sess.CurrentIndex = index
	return index, nil
}

// Progress summarizes how far a session has gotten.
type Progress struct {
	TotalQuestions       int     `json:"total_questions"`
	Answered             int     `json:"answered"`
	Unanswered           int     `json:"unanswered"`
	Bookmarked           int     `json:"bookmarked"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// GetProgress returns the session's answer/bookmark counters.
func (s *ExamService) GetProgress(sessionID string) (*Progress, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	total := len(sess.Questions)
	answered := len(sess.Answers)
	bookmarked := 0
	for _, a := range sess.Answers {
		if a.Bookmarked {
			bookmarked++
		}
	}
	completion := 0.0
	if total > 0 {
		completion = round1(float64(answered) / float64(total) * 100)
	}
	return &Progress{
		TotalQuestions:       total,
		Answered:             answered,
		Unanswered:           total - answered,
		Bookmarked:           bookmarked,
		CompletionPercentage: completion,
	}, nil
}

// Custom errors
var (
	ErrExamNotFound          = &Error{Message: "exam not found"}
	ErrSessionNotFound       = &Error{Message: "session not found"}
	ErrQuestionNotFound      = &Error{Message: "question not found"}
	ErrResultNotFound        = &Error{Message: "result not found"}
	ErrNoQuestions           = &Error{Message: "no questions match the requested filter"}
	ErrInvalidMode           = &Error{Message: "mode must be \"exam\" or \"study\""}
	ErrInvalidDirection      = &Error{Message: "direction must be \"next\" or \"previous\""}
	ErrInvalidQuestionNumber = &Error{Message: "question number out of range"}
	ErrInvalidAnswer         = &Error{Message: "selected answer is not an option of this question"}
	ErrTooManyAnswers        = &Error{Message: "single choice question accepts at most one answer"}
	ErrSessionExpired        = &Error{Message: "session time has run out"}
	ErrSessionGraded         = &Error{Message: "session has already been graded"}
	ErrNotGraded             = &Error{Message: "session has not been graded yet"}
	ErrReviewDisabled        = &Error{Message: "review is disabled"}
	ErrLeaderboardDisabled   = &Error{Message: "leaderboard is disabled"}
)

type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
