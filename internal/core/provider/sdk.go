package provider

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/googleapis/gax-go/v2/apierror"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/grpc/codes"
)

// FromOpenAI maps go-openai failures onto the taxonomy.
func FromOpenAI(name string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		perr := FromStatus(name, apiErr.HTTPStatusCode, []byte(apiErr.Message))
		perr.Err = err
		return perr
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		perr := FromStatus(name, reqErr.HTTPStatusCode, nil)
		perr.Err = err
		return perr
	}

	return Transport(name, err)
}

// FromAnthropic maps anthropic-sdk-go failures onto the taxonomy.
func FromAnthropic(name string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		perr := FromStatus(name, apiErr.StatusCode, []byte(apiErr.RawJSON()))
		perr.Err = err
		return perr
	}
	return Transport(name, err)
}

// FromGoogleAPI maps errors from Google's generated clients onto the taxonomy.
func FromGoogleAPI(name string, err error) error {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return Transport(name, err)
	}

	if status := apiErr.HTTPCode(); status > 0 {
		perr := FromStatus(name, status, []byte(apiErr.Error()))
		perr.Err = err
		return perr
	}

	code := CodeUpstream
	if st := apiErr.GRPCStatus(); st != nil {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			code = CodeAuth
		case codes.ResourceExhausted:
			code = CodeQuota
		case codes.InvalidArgument, codes.FailedPrecondition:
			code = CodeInvalidInput
		}
	}
	return Wrap(name, code, apiErr.Error(), err)
}

// FromRPCCode maps a google.rpc.Status code embedded in a JSON body.
func FromRPCCode(name string, code int, message string) *Error {
	c := CodeUpstream
	switch codes.Code(code) {
	case codes.Unauthenticated, codes.PermissionDenied:
		c = CodeAuth
	case codes.ResourceExhausted:
		c = CodeQuota
	case codes.InvalidArgument:
		c = CodeInvalidInput
	}
	return New(name, c, message)
}
