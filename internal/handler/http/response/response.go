package response

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// statusCodes is the error code used when the caller supplies none.
var statusCodes = map[int]string{
	http.StatusBadRequest:          "BAD_REQUEST",
	http.StatusUnauthorized:        "UNAUTHORIZED",
	http.StatusForbidden:           "FORBIDDEN",
	http.StatusNotFound:            "NOT_FOUND",
	http.StatusConflict:            "CONFLICT",
	http.StatusPreconditionFailed:  "PRECONDITION_FAILED",
	http.StatusUnprocessableEntity: "VALIDATION_ERROR",
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		_ = json.NewEncoder(w).Encode(Response{
			Error: &ErrorDetail{Code: "ENCODING_ERROR", Message: "Failed to encode response"},
		})
	}
}

func Success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func SuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// File writes a downloadable attachment.
func File(w http.ResponseWriter, filename, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// Fail writes an error envelope. An empty code falls back to the status default.
func Fail(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	if code == "" {
		code = statusCodes[statusCode]
	}
	if code == "" {
		code = "INTERNAL_SERVER_ERROR"
	}
	writeJSON(w, statusCode, Response{
		Error: &ErrorDetail{Code: code, Message: message, Details: details},
	})
}

func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Fail(w, http.StatusBadRequest, "", message, details)
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	Fail(w, http.StatusUnprocessableEntity, "", "Validation failed", details)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, "", message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	Fail(w, http.StatusForbidden, "", message, nil)
}
