package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// ExamHandlers contains HTTP handlers for the exam API
type ExamHandlers struct {
	service     *ExamService
	config      *Config
	results     *ResultStore
	leaderboard *LeaderboardRepository // nil when disabled
}

// NewExamHandlers creates a new exam handlers instance
func NewExamHandlers(service *ExamService, config *Config, results *ResultStore, leaderboard *LeaderboardRepository) *ExamHandlers {
	return &ExamHandlers{
		service:     service,
		config:      config,
		results:     results,
		leaderboard: leaderboard,
	}
}

// statusForError maps sentinel service errors to HTTP status codes.
func statusForError(err error) int {
	switch err {
	case ErrExamNotFound, ErrSessionNotFound, ErrQuestionNotFound, ErrResultNotFound:
		return fiber.StatusNotFound
	case ErrNoQuestions, ErrInvalidMode, ErrInvalidDirection, ErrInvalidQuestionNumber,
		ErrInvalidAnswer, ErrTooManyAnswers:
		return fiber.StatusBadRequest
	case ErrSessionExpired, ErrSessionGraded, ErrNotGraded:
		return fiber.StatusConflict
	case ErrReviewDisabled, ErrLeaderboardDisabled:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *ExamHandlers) fail(c *fiber.Ctx, err error, fallback string) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s: %v", fallback, err)
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleGetConfig handles GET /api/config
func (h *ExamHandlers) HandleGetConfig(c *fiber.Ctx) error {
	return c.JSON(h.config)
}

// HandleGetExams handles GET /api/exams
func (h *ExamHandlers) HandleGetExams(c *fiber.Ctx) error {
	return c.JSON(h.service.catalog.Exams())
}

// HandleGetExam handles GET /api/exams/:examID
func (h *ExamHandlers) HandleGetExam(c *fiber.Ctx) error {
	exam, ok := h.service.catalog.Exam(c.Params("examID"))
	if !ok {
		return h.fail(c, ErrExamNotFound, "")
	}
	return c.JSON(exam)
}

// HandleGetStatistics handles GET /api/statistics
// Query params: exam_id (optional; omitted means all exams)
func (h *ExamHandlers) HandleGetStatistics(c *fiber.Ctx) error {
	if examID := c.Query("exam_id"); examID != "" {
		stats, err := h.service.catalog.Statistics(examID)
		if err != nil {
			return h.fail(c, err, "Failed to get statistics")
		}
		return c.JSON(stats)
	}

	all, err := h.service.catalog.AllStatistics()
	if err != nil {
		return h.fail(c, err, "Failed to get statistics")
	}
	return c.JSON(fiber.Map{
		"by_exam":     all,
		"total_exams": len(all),
	})
}

// HandleStartExam handles POST /api/exam/start
func (h *ExamHandlers) HandleStartExam(c *fiber.Ctx) error {
	var req struct {
		ExamID        string   `json:"exam_id"`
		Mode          string   `json:"mode"`
		Topics        []string `json:"topics"`
		QuestionCount int      `json:"question_count"`
		Candidate     string   `json:"candidate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ExamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "exam_id is required",
		})
	}

	sess, err := h.service.StartSession(req.ExamID, req.Mode, req.Topics, req.QuestionCount, req.Candidate)
	if err != nil {
		return h.fail(c, err, "Failed to start exam session")
	}
	return c.JSON(h.service.SessionView(sess))
}

// HandleGetSession handles GET /api/exam/:sessionID
func (h *ExamHandlers) HandleGetSession(c *fiber.Ctx) error {
	sess, err := h.service.GetSession(c.Params("sessionID"))
	if err != nil {
		return h.fail(c, err, "")
	}
	return c.JSON(h.service.SessionView(sess))
}

// HandleGetCurrentQuestion handles GET /api/exam/:sessionID/question
func (h *ExamHandlers) HandleGetCurrentQuestion(c *fiber.Ctx) error {
	view, err := h.service.GetCurrentQuestion(c.Params("sessionID"))
	if err != nil {
		return h.fail(c, err, "Failed to get current question")
	}
	return c.JSON(view)
}

// HandleSubmitAnswer handles POST /api/exam/:sessionID/answer
func (h *ExamHandlers) HandleSubmitAnswer(c *fiber.Ctx) error {
	var req struct {
		QuestionID      string   `json:"question_id"`
		SelectedAnswers []string `json:"selected_answers"`
		Bookmarked      bool     `json:"bookmarked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.QuestionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question_id is required",
		})
	}

	err := h.service.SubmitAnswer(c.Params("sessionID"), req.QuestionID, req.SelectedAnswers, req.Bookmarked)
	if err != nil {
		return h.fail(c, err, "Failed to submit answer")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleNavigate handles POST /api/exam/:sessionID/navigate/:direction
func (h *ExamHandlers) HandleNavigate(c *fiber.Ctx) error {
	index, err := h.service.Navigate(c.Params("sessionID"), c.Params("direction"))
	if err != nil {
		return h.fail(c, err, "Failed to navigate")
	}
	return c.JSON(fiber.Map{
		"current_index":   index,
		"question_number": index + 1,
	})
}

// HandleJump handles POST /api/exam/:sessionID/jump/:number
func (h *ExamHandlers) HandleJump(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question number must be an integer",
		})
	}

	index, err := h.service.Jump(c.Params("sessionID"), number)
	if err != nil {
		return h.fail(c, err, "Failed to jump")
	}
	return c.JSON(fiber.Map{"current_index": index})
}

// HandleGetProgress handles GET /api/exam/:sessionID/progress
func (h *ExamHandlers) HandleGetProgress(c *fiber.Ctx) error {
	progress, err := h.service.GetProgress(c.Params("sessionID"))
	if err != nil {
		return h.fail(c, err, "Failed to get progress")
	}
	return c.JSON(progress)
}

// HandleSubmitExam handles POST /api/exam/:sessionID/submit
func (h *ExamHandlers) HandleSubmitExam(c *fiber.Ctx) error {
	result, err := h.service.Grade(c.Params("sessionID"))
	if err != nil {
		return h.fail(c, err, "Failed to grade session")
	}
	return c.JSON(result)
}

// HandleReview handles GET /api/exam/:sessionID/review
func (h *ExamHandlers) HandleReview(c *fiber.Ctx) error {
	items, err := h.service.Review(c.Params("sessionID"))
	if err != nil {
		return h.fail(c, err, "Failed to build review")
	}
	return c.JSON(fiber.Map{"questions": items})
}

// HandleGetResult handles GET /api/results/:sessionID
func (h *ExamHandlers) HandleGetResult(c *fiber.Ctx) error {
	result, err := h.results.Load(c.Params("sessionID"))
	if err != nil {
		return h.fail(c, err, "Failed to load result")
	}
	return c.JSON(result)
}

// HandleListResults handles GET /api/results
func (h *ExamHandlers) HandleListResults(c *fiber.Ctx) error {
	results, err := h.results.List()
	if err != nil {
		return h.fail(c, err, "Failed to list results")
	}
	return c.JSON(fiber.Map{
		"total":   len(results),
		"results": results,
	})
}

// HandleGetLeaderboard handles GET /api/leaderboard/:examID
// Query params: limit (optional, default 10)
func (h *ExamHandlers) HandleGetLeaderboard(c *fiber.Ctx) error {
	if h.leaderboard == nil {
		return h.fail(c, ErrLeaderboardDisabled, "")
	}
	if _, ok := h.service.catalog.Exam(c.Params("examID")); !ok {
		return h.fail(c, ErrExamNotFound, "")
	}

	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	entries, err := h.leaderboard.GetTop(c.Params("examID"), int64(limit))
	if err != nil {
		return h.fail(c, err, "Failed to get leaderboard")
	}
	return c.JSON(fiber.Map{"entries": entries})
}
