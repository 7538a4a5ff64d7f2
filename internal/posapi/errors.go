package posapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is a response the client did not accept: any non-2xx status, or a
// status other than the one an endpoint signals success with.
type Error struct {
	StatusCode int
	// Message is the server's explanation, empty when it gave none.
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// errorBody covers both error shapes the server uses: {"error": "..."} and
// the framework's {"detail": ...}, where detail is a string or a list of
// validation problems.
type errorBody struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

type validationProblem struct {
	Msg string `json:"msg"`
}

func (b errorBody) message() string {
	if b.Error != "" {
		return b.Error
	}

	if len(b.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(b.Detail, &detail); err == nil {
		return detail
	}

	var problems []validationProblem
	if err := json.Unmarshal(b.Detail, &problems); err == nil && len(problems) > 0 {
		return problems[0].Msg
	}

	return ""
}

func newError(status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	return &Error{StatusCode: status, Message: eb.message()}
}
