package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a business error reported by the delivery API. The upstream
// "message" field may be a bare string or an array of strings; both are kept
// verbatim for display.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return e.Message()
}

// Message joins the upstream messages the way the console shows them.
func (e *APIError) Message() string {
	return strings.Join(e.Messages, ", ")
}

type messageList []string

func (m *messageList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = messageList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*m = messageList(many)
		return nil
	}
	return errors.New("message is neither string nor array")
}

func parseAPIError(status int, data []byte) error {
	var body struct {
		Message messageList `json:"message"`
		Error   string      `json:"error"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(data, &body); err == nil {
		if len(body.Message) > 0 {
			apiErr.Messages = body.Message
			return apiErr
		}
		if body.Error != "" {
			apiErr.Messages = []string{body.Error}
			return apiErr
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && len(text) < 256 {
		apiErr.Messages = []string{text}
		return apiErr
	}
	apiErr.Messages = []string{http.StatusText(status)}
	return apiErr
}
