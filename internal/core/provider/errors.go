// Package provider holds the failure taxonomy shared by every OCR and
// translation backend.
package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Code classifies why a remote call failed.
type Code string

const (
	CodeAuth         Code = "auth"          // invalid or missing credentials
	CodeQuota        Code = "quota"         // rate limit or quota exhausted
	CodeInvalidInput Code = "invalid_input" // malformed or oversized payload
	CodeEmptyResult  Code = "empty_result"  // provider answered with nothing usable
	CodeUpstream     Code = "upstream"      // any other non-success answer
	CodeTransport    Code = "transport"     // request never got an answer
)

// Error is returned by adapters when a remote call fails.
type Error struct {
	Provider   string
	Code       Code
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with a fixed message.
func New(provider string, code Code, message string) *Error {
	return &Error{Provider: provider, Code: code, Message: message}
}

// Wrap builds an Error around an underlying cause.
func Wrap(provider string, code Code, message string, err error) *Error {
	return &Error{Provider: provider, Code: code, Message: message, Err: err}
}

// Transport wraps a failure that happened before any response arrived.
func Transport(provider string, err error) *Error {
	return &Error{
		Provider: provider,
		Code:     CodeTransport,
		Message:  fmt.Sprintf("request failed: %v", err),
		Err:      err,
	}
}

// Empty reports a successful call that produced no usable output.
func Empty(provider string, what string) *Error {
	return New(provider, CodeEmptyResult, fmt.Sprintf("empty %s", what))
}

// FromStatus classifies a non-success HTTP answer. The message is taken from
// the usual JSON error envelopes when present, else from the raw body.
func FromStatus(provider string, status int, body []byte) *Error {
	msg := messageFromBody(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &Error{
		Provider:   provider,
		Code:       classify(status, msg),
		Message:    fmt.Sprintf("%s (status: %d)", msg, status),
		StatusCode: status,
	}
}

// FromMessage classifies an error that only carries text, such as an error
// object embedded in a 200 response.
func FromMessage(provider string, message string) *Error {
	return &Error{
		Provider: provider,
		Code:     classify(0, message),
		Message:  message,
	}
}

// CodeOf returns the Code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}

func classify(status int, msg string) Code {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "api key not valid"), strings.Contains(lower, "invalid api key"), strings.Contains(lower, "unauthenticated"):
		return CodeAuth
	case status == http.StatusTooManyRequests, strings.Contains(lower, "quota"), strings.Contains(lower, "rate limit"):
		return CodeQuota
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return CodeAuth
	case status == http.StatusBadRequest, status == http.StatusRequestEntityTooLarge,
		status == http.StatusUnsupportedMediaType, status == http.StatusUnprocessableEntity:
		return CodeInvalidInput
	default:
		return CodeUpstream
	}
}

type errorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type errorObject struct {
	Message string `json:"message"`
}

func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Error) > 0 {
			var obj errorObject
			if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
				return obj.Message
			}
			var s string
			if err := json.Unmarshal(env.Error, &s); err == nil && s != "" {
				return s
			}
		}
		if env.Message != "" {
			return env.Message
		}
	}

	return truncate(trimmed, maxBodyMessage)
}

// maxBodyMessage caps how much of a non-JSON error body ends up in a message.
const maxBodyMessage = 300

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
