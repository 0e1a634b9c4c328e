package newsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// rawItem is one provider result. Every field is optional.
type rawItem struct {
	UUID        *string    `json:"uuid"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Snippet     *string    `json:"snippet"`
	URL         *string    `json:"url"`
	ImageURL    *string    `json:"image_url"`
	PublishedAt *string    `json:"published_at"`
	Source      *rawSource `json:"source"`
	Categories  rawList    `json:"categories"`
	Keywords    rawList    `json:"keywords"`
	Language    *string    `json:"language"`
	Locale      *string    `json:"locale"`
}

// rawSource accepts either a bare domain string or an object with a name.
type rawSource struct {
	Name string
}

func (s *rawSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}
	var obj struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = firstNonEmpty(obj.Name, obj.ID)
	return nil
}

// rawList accepts either a JSON array of strings or a comma separated string.
type rawList []string

func (l *rawList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = cleanList([]string{s})
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*l = cleanList(arr)
	return nil
}

// rawErrorEnvelope covers the error payload shapes providers use:
// {"error": {"code", "message"}}, {"error": "message"} and
// {"status": "error", "code", "message"}. A null, false or blank "error"
// is not an error.
type rawErrorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

// errorDetail extracts a provider error code and message from body.
// ok is false when body carries no recognizable error payload.
func errorDetail(body []byte) (code, message string, ok bool) {
	var env rawErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", "", false
	}

	errRaw := bytes.TrimSpace(env.Error)
	switch {
	case len(errRaw) == 0, bytes.Equal(errRaw, []byte("null")), bytes.Equal(errRaw, []byte("false")):
	case errRaw[0] == '"':
		var msg string
		_ = json.Unmarshal(errRaw, &msg)
		if msg = strings.TrimSpace(msg); msg != "" {
			return env.Code, msg, true
		}
	default:
		var obj struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(errRaw, &obj); err == nil {
			return firstNonEmpty(obj.Code, env.Code), firstNonEmpty(obj.Message, env.Message), true
		}
		return env.Code, firstNonEmpty(env.Message, string(errRaw)), true
	}

	if strings.EqualFold(strings.TrimSpace(env.Status), "error") {
		return env.Code, env.Message, true
	}
	return "", "", false
}

// decodeCollection locates the result collection in a success response.
// The collection is either the top-level array or an array nested one level
// under unwrapKey. A success status carrying an error payload, or no
// collection at all, yields a *ProviderError.
func decodeCollection(status int, body []byte, unwrapKey string) ([]rawItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &ProviderError{Status: status, Message: "empty response body", Body: responseSnippet(body)}
	}

	switch trimmed[0] {
	case '[':
		return decodeItems(status, trimmed)
	case '{':
	default:
		return nil, &ProviderError{Status: status, Message: "response is not a JSON object or array", Body: responseSnippet(body)}
	}

	if code, msg, ok := errorDetail(trimmed); ok {
		return nil, &ProviderError{Status: status, Code: code, Message: msg, Body: responseSnippet(body)}
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, &ProviderError{Status: status, Message: fmt.Sprintf("decode response: %v", err), Body: responseSnippet(body)}
	}

	nested, ok := wrapper[unwrapKey]
	if !ok {
		return nil, &ProviderError{Status: status, Message: fmt.Sprintf("response has no %q collection", unwrapKey), Body: responseSnippet(body)}
	}
	nested = bytes.TrimSpace(nested)
	if len(nested) == 0 || bytes.Equal(nested, []byte("null")) {
		return []rawItem{}, nil
	}
	return decodeItems(status, nested)
}

func decodeItems(status int, data []byte) ([]rawItem, error) {
	items := []rawItem{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ProviderError{Status: status, Message: fmt.Sprintf("decode result collection: %v", err), Body: responseSnippet(data)}
	}
	return items, nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
