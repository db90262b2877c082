package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/application/usecase"
	"github.com/phonerisk/phonerisk/internal/domain/model"
)

// maxBodyBytes bounds request bodies on the JSON endpoints.
const maxBodyBytes = 1 << 20

// QueryTimeout bounds the store-backed endpoints. Analyze has no request
// timeout; its providers carry their own.
const QueryTimeout = 30 * time.Second

// UseCases groups the application operations served over HTTP.
type UseCases struct {
	Analyze    *usecase.AnalyzePhone
	Get        *usecase.GetAnalysis
	Breakdown  *usecase.ScoreBreakdown
	Report     *usecase.GenerateReport
	Delete     *usecase.DeleteAnalysis
	History    *usecase.ListHistory
	Search     *usecase.SearchAnalyses
	Clear      *usecase.ClearHistory
	Statistics *usecase.GetStatistics
}

// AnalysisHandler serves the /api analysis endpoints.
type AnalysisHandler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(uc UseCases, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{uc: uc, logger: logger}
}

// RegisterRoutes mounts the analysis endpoints on r.
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(QueryTimeout))

			r.Post("/search", h.Search)
			r.Get("/statistics", h.Statistics)

			r.Route("/history", func(r chi.Router) {
				r.Get("/", h.History)
				r.Delete("/clear", h.ClearHistory)
			})

			r.Route("/report/{id}", func(r chi.Router) {
				r.Get("/", h.GetAnalysis)
				r.Delete("/", h.DeleteAnalysis)
				r.Get("/breakdown", h.Breakdown)
				r.Get("/summary", h.Report)
			})
		})
	})
}

// Analyze runs or reuses an analysis. New analyses answer 201, cached ones 200.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.Analyze.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	code := http.StatusCreated
	if resp.Cached {
		code = http.StatusOK
	}
	writeJSON(w, code, resp)
}

func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	req, err := analysisIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.Get.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	req, err := analysisIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.Breakdown.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) Report(w http.ResponseWriter, r *http.Request) {
	req, err := analysisIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.Report.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	req, err := analysisIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.Delete.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// History lists one page of analyses, taken from the page and per_page
// query parameters.
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	perPage, err := intQuery(r, "per_page")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.History.Execute(r.Context(), dto.HistoryRequest{Page: page, PerPage: perPage})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.Search.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Clear.Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalysisHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Statistics.Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrValidation), errors.Is(err, model.ErrInvalidPhoneNumber):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAnalysisNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *AnalysisHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		msg = "internal server error"
	}
	writeJSON(w, code, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", dto.ErrValidation, err)
	}
	return nil
}

func analysisIDParam(r *http.Request) (dto.GetAnalysisRequest, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return dto.GetAnalysisRequest{}, fmt.Errorf("%w: invalid analysis id", dto.ErrValidation)
	}
	return dto.GetAnalysisRequest{AnalysisID: id}, nil
}

func intQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", dto.ErrValidation, key)
	}
	return n, nil
}
