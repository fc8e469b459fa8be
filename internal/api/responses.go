package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"laborctl/internal/models"
)

// Error is returned for every failed backend call.
type Error struct {
	// StatusCode is 0 when the request never got a response.
	StatusCode int
	// Message is human readable: the server's message/error field when it
	// sent one, a fallback otherwise.
	Message string
	// Body is the raw response body, if any.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status code = %d)", e.Message, e.StatusCode)
}

func (e *Error) Unwrap() error { return e.Err }

// MessageOf extracts the message to show an admin for err, or fallback when
// err carries nothing readable.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// StatusCodeOf returns the HTTP status behind err, or 0.
func StatusCodeOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    "cannot read server response",
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fallback := http.StatusText(resp.StatusCode)
		if fallback == "" {
			fallback = "Request failed"
		}
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    firstMessage(body, fallback),
			Body:       body,
			Err:        sentinelFor(resp.StatusCode),
		}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "json") && !json.Valid(body) {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    "unexpected non-JSON response",
			Body:       body,
		}
	}
	if err := json.Unmarshal(unwrapData(body), out); err != nil {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected response shape: %s", err.Error()),
			Body:       body,
			Err:        err,
		}
	}
	return nil
}

// unwrapData returns the value under "data" when body is {"data": ...}, and
// body itself otherwise.
func unwrapData(body []byte) []byte {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}
	if data, ok := envelope["data"]; ok && len(bytes.TrimSpace(data)) > 0 && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return data
	}
	return body
}

// firstMessage reads the message or error field of an error body.
func firstMessage(body []byte, fallback string) string {
	var msg struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return fallback
	}
	for _, raw := range []json.RawMessage{msg.Message, msg.Error} {
		var s string
		if len(raw) > 0 && json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			return s
		}
		// {"error": {"message": "..."}}
		var nested struct {
			Message string `json:"message"`
		}
		if len(raw) > 0 && json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return fallback
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusConflict:
		return models.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return models.ErrValidation
	}
	return nil
}

// decodePage reads the {<key>: [...], pagination: {...}} shape of list endpoints.
func decodePage[T any](raw map[string]json.RawMessage, key string) (models.Page[T], error) {
	page := models.Page[T]{}
	for _, k := range []string{key, "items"} {
		if items, ok := raw[k]; ok {
			if err := json.Unmarshal(items, &page.Items); err != nil {
				return page, fmt.Errorf("decode %s: %w", k, err)
			}
			break
		}
	}
	if p, ok := raw["pagination"]; ok {
		if err := json.Unmarshal(p, &page.Pagination); err != nil {
			return page, fmt.Errorf("decode pagination: %w", err)
		}
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
