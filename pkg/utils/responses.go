package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusOK, Response{Status: StatusSuccess, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusCreated, Response{Status: StatusSuccess, Data: data})
}

// returns 200 OK with a results count
func ResponseList(w http.ResponseWriter, results int, data any) {
	ResponseJSON(w, http.StatusOK, Response{Status: StatusSuccess, Results: &results, Data: data})
}

// returns the given code with a token
func ResponseToken(w http.ResponseWriter, code int, token string, data any) {
	ResponseJSON(w, code, Response{Status: StatusSuccess, Token: token, Data: data})
}

// returns 200 OK with a message only
func ResponseMessage(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusOK, Response{Status: StatusSuccess, Message: message})
}

// ------------- Error responses -------------

// ResponseFailure writes {status, message}; 4xx are "fail", 5xx are "error".
func ResponseFailure(w http.ResponseWriter, code int, message string) {
	status := StatusFail
	if code >= http.StatusInternalServerError {
		status = StatusError
	}
	ResponseJSON(w, code, Response{Status: status, Message: message})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string) {
	ResponseFailure(w, http.StatusBadRequest, message)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseFailure(w, http.StatusUnauthorized, message)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseFailure(w, http.StatusForbidden, message)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseFailure(w, http.StatusNotFound, message)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseFailure(w, http.StatusInternalServerError, message)
}

// ErrorResponder renders every error that reaches a handler. Operational
// errors keep their code and message; anything else is a 500 whose detail is
// only shown in development.
type ErrorResponder struct {
	log         *zap.Logger
	development bool
}

func NewErrorResponder(log *zap.Logger, development bool) *ErrorResponder {
	return &ErrorResponder{log: log, development: development}
}

func (er *ErrorResponder) Respond(w http.ResponseWriter, err error, operation string) {
	if appErr, ok := AsAppError(err); ok {
		if appErr.Code >= http.StatusInternalServerError {
			er.log.Error(operation+" failed", zap.Error(err), zap.Int("code", appErr.Code))
		} else {
			er.log.Warn(operation+" failed", zap.Error(err), zap.Int("code", appErr.Code))
		}
		ResponseFailure(w, appErr.Code, appErr.Message)
		return
	}

	er.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))

	if er.development {
		ResponseInternalError(w, err.Error())
		return
	}
	ResponseInternalError(w, "Something went very wrong!")
}
