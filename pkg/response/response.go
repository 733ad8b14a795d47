package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	customError "github.com/segyhp/loan-ledger/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error"`
	Code      string      `json:"code,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// Success sends a successful JSON response
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a created JSON response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, statusCode int, message string, err error) {
	writeError(w, statusCode, ErrorResponse{Message: message}, err)
}

func writeError(w http.ResponseWriter, statusCode int, response ErrorResponse, err error) {
	response.Success = false
	response.Timestamp = time.Now()
	if err != nil {
		response.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}

// BadRequest sends a 400 bad request response
func BadRequest(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusBadRequest, message, err)
}

// StatusOf maps a business error code to an HTTP status. Anything that is
// not a business error is a 500.
func StatusOf(err error) int {
	switch customError.CodeOf(err) {
	case customError.ErrCodeBorrowerNotFound, customError.ErrCodeLoanNotFound, customError.ErrCodePaymentNotFound:
		return http.StatusNotFound
	case customError.ErrCodeValidation, customError.ErrCodeImportFailed:
		return http.StatusBadRequest
	case customError.ErrCodeBorrowerHasLoans, customError.ErrCodeConfirmationRequired:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err with the status its code maps to. Internal errors
// are reported without their details.
func FromError(w http.ResponseWriter, err error) {
	FromErrorWithData(w, err, nil)
}

// FromErrorWithData is FromError with a payload the client needs to act on
// the error, such as a pending confirmation.
func FromErrorWithData(w http.ResponseWriter, err error, data interface{}) {
	status := StatusOf(err)

	var be *customError.BusinessError
	if status == http.StatusInternalServerError || !errors.As(err, &be) {
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"}, nil)
		return
	}

	writeError(w, status, ErrorResponse{Code: be.Code, Message: be.Message, Data: data}, err)
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs one line per request with its status and duration.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response recorder to capture the status code
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.InfoContext(r.Context(), "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
