package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
)

// Handler wires the quiz use cases into a REST surface.
type Handler struct {
	submissions *app.SubmissionService
	catalog     *app.CatalogService
	auth        *app.Authenticator
	feed        *app.StatsFeed
	logger      *slog.Logger
}

func NewHandler(submissions *app.SubmissionService, catalog *app.CatalogService, auth *app.Authenticator, feed *app.StatsFeed, logger *slog.Logger) *Handler {
	return &Handler{
		submissions: submissions,
		catalog:     catalog,
		auth:        auth,
		feed:        feed,
		logger:      logger,
	}
}

// Routes builds the full middleware-wrapped handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	authed := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(h.auth, fn)
	}
	mux.Handle("GET /quizzes", authed(h.listQuizzes))
	mux.Handle("POST /quizzes", authed(h.createQuiz))
	mux.Handle("GET /quizzes/{id}", authed(h.quizDetail))
	mux.Handle("DELETE /quizzes/{id}", authed(h.deleteQuiz))
	mux.Handle("POST /quizzes/{id}/submit", authed(h.submitQuiz))
	mux.Handle("POST /questions", authed(h.createQuestion))
	mux.Handle("POST /answers", authed(h.createAnswer))
	mux.Handle("GET /user-statistics", authed(h.userStatistics))
	mux.Handle("GET /ws/results", authed(h.resultsFeed))

	return RequestID(Logging(h.logger, mux))
}

func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.catalog.ListQuizzes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) quizDetail(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r)
	if !ok {
		return
	}
	quiz, err := h.catalog.GetQuizDetail(r.Context(), quizID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteQuiz(r.Context(), quizID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	Answers          []domain.SubmittedAnswer `json:"answers"`
	TimeTakenSeconds int64                    `json:"time_taken_seconds"`
}

type submitResponse struct {
	Message        string `json:"message"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r)
	if !ok {
		return
	}
	user, ok := UserFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "authentication required"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, domain.ErrAnswerFormat) {
			h.writeError(w, r, domain.NewValidationError("answers", "Answers must be integers or lists of integers"))
		} else {
			h.writeError(w, r, domain.NewValidationError("body", "Invalid request body"))
		}
		return
	}

	elapsed := time.Duration(req.TimeTakenSeconds) * time.Second
	result, err := h.submissions.Submit(r.Context(), quizID, user, domain.Submission{Answers: req.Answers}, elapsed)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Message:        "Quiz submitted successfully",
		Score:          result.Score,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
	})
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var in app.CreateQuizInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, domain.NewValidationError("body", "Invalid request body"))
		return
	}
	quiz, err := h.catalog.CreateQuiz(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var in app.CreateQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, domain.NewValidationError("body", "Invalid request body"))
		return
	}
	question, err := h.catalog.CreateQuestion(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) createAnswer(w http.ResponseWriter, r *http.Request) {
	var in app.CreateAnswerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, domain.NewValidationError("body", "Invalid request body"))
		return
	}
	answer, err := h.catalog.CreateAnswer(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, answer)
}

type userStatResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user"`
	QuizID           int64     `json:"quiz"`
	Score            int       `json:"score"`
	TimeTakenSeconds int64     `json:"time_taken_seconds"`
	DateTaken        time.Time `json:"date_taken"`
}

func (h *Handler) userStatistics(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "authentication required"})
		return
	}
	stats, err := h.submissions.UserStats(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]userStatResponse, 0, len(stats))
	for _, st := range stats {
		out = append(out, userStatResponse{
			ID:               st.ID,
			UserID:           st.UserID,
			QuizID:           st.QuizID,
			Score:            st.Score,
			TimeTakenSeconds: int64(st.TimeTaken / time.Second),
			DateTaken:        st.DateTaken,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// pathID parses the {id} path segment, answering 404 for garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "quiz not found"})
		return 0, false
	}
	return id, true
}
