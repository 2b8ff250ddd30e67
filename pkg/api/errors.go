package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FallbackMessage is shown when a failed response carries no usable detail.
const FallbackMessage = "Something going wrong!"

type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend status %d: %s", e.StatusCode, e.Detail)
}

// StatusCode returns the backend status of err, or 0 when err did not come
// from a backend response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// detailOf extracts the detail field of an error body. FastAPI reports
// validation failures as a list of objects with a msg field; the first
// message is used then.
func detailOf(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(eb.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &list); err == nil {
		for _, item := range list {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func messageOf(detail string) string {
	if detail == "" {
		return FallbackMessage
	}
	return detail
}
