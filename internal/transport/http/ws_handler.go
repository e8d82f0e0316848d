package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"image-quiz/internal/app"
	"image-quiz/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	quizID   string
	defaultN int
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler serves quizID over websockets; defaultN applies when a
// client does not ask for a question count.
func NewWSHandler(service *app.QuizService, quizID string, defaultN int, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		service:  service,
		quizID:   quizID,
		defaultN: defaultN,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Text string `json:"text"`
}

type questionPayload struct {
	SessionID string `json:"sessionId"`
	Number    int    `json:"number"`
	Total     int    `json:"total"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl"`
}

type answerResult struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
	Message  string `json:"message"`
}

type resultRow struct {
	Number  int    `json:"number"`
	Answer  string `json:"answer"`
	Correct string `json:"correct"`
}

type resultsPayload struct {
	Title    string      `json:"title"`
	Rate     float64     `json:"rate"`
	RateText string      `json:"rateText"`
	Grade    string      `json:"grade"`
	Rows     []resultRow `json:"rows"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz session per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	n := h.defaultN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "n must be an integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}
	pool, err := h.service.QuestionCount(r.Context(), h.quizID)
	if err != nil {
		http.Error(w, "quiz unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := app.ValidateQuestionCount(n, pool); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sessionID, err := h.service.Start(ctx, h.quizID, n)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(ctx, sessionID)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue // drain so the read loop never blocks
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				failed = true
			}
		}
	}()

	presenter := &wsPresenter{send: send}
	if err := h.service.Present(ctx, sessionID, presenter); err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}

	// Answers are handled one at a time, in this loop only.
	for !presenter.done {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			outcome, err := h.service.SubmitAnswer(ctx, sessionID, payload.Text)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
				Correct:  outcome.Correct,
				Expected: app.DisplayAnswer(outcome.Expected),
				Message:  app.Feedback(outcome),
			}}
			if err := h.service.Present(ctx, sessionID, presenter); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}

// ServeImage writes the image of the question a session is waiting on.
func (h *WSHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.service.CurrentImage(r.Context(), r.URL.Query().Get("session"))
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionFinished):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img.Data)
}

// wsPresenter queues presentations for the connection's writer goroutine.
type wsPresenter struct {
	send chan<- outboundMessage[any]
	done bool
}

func (p *wsPresenter) PresentQuestion(_ context.Context, view app.QuestionView) error {
	p.send <- outboundMessage[any]{Type: "question", Payload: questionPayload{
		SessionID: view.SessionID,
		Number:    view.Number,
		Total:     view.Total,
		Title:     view.Title,
		ImageURL:  imageURL(view),
	}}
	return nil
}

func (p *wsPresenter) PresentResults(_ context.Context, summary app.Summary) error {
	rows := make([]resultRow, 0, len(summary.Results))
	for i, r := range summary.Results {
		rows = append(rows, resultRow{Number: i + 1, Answer: app.DisplayAnswer(r.Answer), Correct: app.YesNo(r.Correct)})
	}
	p.send <- outboundMessage[any]{Type: "results", Payload: resultsPayload{
		Title:    summary.Title,
		Rate:     summary.Rate,
		RateText: app.FormatRate(summary.Rate),
		Grade:    summary.Grade,
		Rows:     rows,
	}}
	p.done = true
	return nil
}

// imageURL includes the question number so browsers never reuse the previous image.
func imageURL(view app.QuestionView) string {
	q := url.Values{}
	q.Set("session", view.SessionID)
	q.Set("q", strconv.Itoa(view.Number))
	return "/image?" + q.Encode()
}
