// Command examcli is a terminal client for the exam simulator API: it lists
// exams, runs a session question by question, and prints the scored report.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
)

type answerOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type question struct {
	ID      string         `json:"id"`
	Topic   string         `json:"topic"`
	Text    string         `json:"question_text"`
	Answers []answerOption `json:"answers"`
	Type    string         `json:"question_type"`
}

type exam struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	TotalQuestions  int    `json:"total_questions"`
}

type sessionView struct {
	SessionID string     `json:"session_id"`
	Mode      string     `json:"mode"`
	Questions []question `json:"questions"`
}

type topicPerformance struct {
	Topic          string  `json:"topic"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Percentage     float64 `json:"percentage"`
	IsWeakArea     bool    `json:"is_weak_area"`
}

type result struct {
	TotalQuestions   int                `json:"total_questions"`
	CorrectAnswers   int                `json:"correct_answers"`
	ScorePercentage  float64            `json:"score_percentage"`
	Passed           bool               `json:"passed"`
	TimeTakenMinutes int                `json:"time_taken_minutes"`
	TopicPerformance []topicPerformance `json:"topic_performance"`
	WeakAreas        []string           `json:"weak_areas"`
}

type client struct {
	base string
	http *http.Client
}

func (c *client) get(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *client) post(path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func main() {
	server := flag.String("server", "http://localhost:8000", "Exam simulator base URL")
	examID := flag.String("exam", "", "Exam id to start (see -list)")
	mode := flag.String("mode", "exam", "Session mode: exam or study")
	count := flag.Int("count", 0, "Number of questions (0 = exam default)")
	topics := flag.String("topics", "", "Comma-separated topic filter")
	candidate := flag.String("candidate", "", "Candidate name for the leaderboard")
	list := flag.Bool("list", false, "List available exams and exit")

	flag.Parse()

	c := &client{base: strings.TrimRight(*server, "/"), http: http.DefaultClient}

	if *list {
		listExams(c)
		return
	}

	if *examID == "" {
		fmt.Fprintf(os.Stderr, "Error: exam id required\n")
		fmt.Fprintf(os.Stderr, "Usage: examcli -exam <exam-id> [-mode exam|study] [-count N] [-topics a,b]\n")
		os.Exit(1)
	}

	var topicList []string
	if *topics != "" {
		for _, t := range strings.Split(*topics, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topicList = append(topicList, t)
			}
		}
	}

	var sess sessionView
	err := c.post("/api/exam/start", map[string]any{
		"exam_id":        *examID,
		"mode":           *mode,
		"topics":         topicList,
		"question_count": *count,
		"candidate":      *candidate,
	}, &sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting session: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session %s started (%s mode, %d questions)\n", sess.SessionID, sess.Mode, len(sess.Questions))
	runSession(c, &sess)
}

func listExams(c *client) {
	var exams []exam
	if err := c.get("/api/exams", &exams); err != nil {
		fmt.Fprintf(os.Stderr, "Error listing exams: %v\n", err)
		os.Exit(1)
	}
	for _, e := range exams {
		fmt.Printf("%-24s %s (%d questions, %d min)\n", e.ID, e.Name, e.TotalQuestions, e.DurationMinutes)
	}
}

func runSession(c *client, sess *sessionView) {
	scanner := bufio.NewScanner(os.Stdin)
	idx := 0

	for idx >= 0 && idx < len(sess.Questions) {
		q := sess.Questions[idx]
		fmt.Printf("\n[%s] Question %d/%d\n%s\n", q.Topic, idx+1, len(sess.Questions), q.Text)
		if q.Type == "multiple_choice" {
			fmt.Println("(select all that apply, comma-separated)")
		}
		for _, a := range q.Answers {
			fmt.Printf("  %s) %s\n", a.ID, a.Text)
		}

		fmt.Print("Answer (or 'n' next, 'p' previous, 's' submit): ")
		if !scanner.Scan() {
			return
		}
		input := strings.ToUpper(strings.TrimSpace(scanner.Text()))

		switch input {
		case "N", "":
			idx++
			continue
		case "P":
			if idx > 0 {
				idx--
			}
			continue
		case "S":
			submit(c, sess.SessionID)
			return
		}

		var selected []string
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part != "" {
				selected = append(selected, part)
			}
		}
		err := c.post("/api/exam/"+sess.SessionID+"/answer", map[string]any{
			"question_id":      q.ID,
			"selected_answers": selected,
		}, nil)
		if err != nil {
			fmt.Printf("Invalid answer: %v\n", err)
			continue
		}
		idx++
	}

	fmt.Print("\nEnd of questions. Submit for grading? (y/n): ")
	if scanner.Scan() && strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
		submit(c, sess.SessionID)
	}
}

func submit(c *client, sessionID string) {
	var r result
	if err := c.post("/api/exam/"+sessionID+"/submit", map[string]any{}, &r); err != nil {
		fmt.Fprintf(os.Stderr, "Error submitting exam: %v\n", err)
		os.Exit(1)
	}

	verdict := "FAILED"
	if r.Passed {
		verdict = "PASSED"
	}
	fmt.Printf("\nScore: %.1f%% (%d/%d correct) - %s\n", r.ScorePercentage, r.CorrectAnswers, r.TotalQuestions, verdict)
	fmt.Printf("Time taken: %d min\n", r.TimeTakenMinutes)

	fmt.Println("\nTopic breakdown:")
	for _, tp := range r.TopicPerformance {
		mark := ""
		if tp.IsWeakArea {
			mark = "  <- weak area"
		}
		fmt.Printf("  %-28s %5.1f%% (%d/%d)%s\n", tp.Topic, tp.Percentage, tp.CorrectAnswers, tp.TotalQuestions, mark)
	}
}
