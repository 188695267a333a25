// Package domain contains the canonical intermediate representation used
// by the format-integration pipeline.
package domain

import (
	"context"
	"errors"
)

// Record is the internal format: the converter pipeline's canonical
// representation of an entry-creation request. Identifier fields stay
// strings on this side of the boundary; Extra carries unrecognized
// payload fields through untouched.
type Record struct {
	QueueID              string         `json:"queueId" xml:"queueId" yaml:"queueId"`
	UserID               string         `json:"userId" xml:"userId" yaml:"userId"`
	Date                 string         `json:"date,omitempty" xml:"date,omitempty" yaml:"date,omitempty"`
	Time                 string         `json:"time,omitempty" xml:"time,omitempty" yaml:"time,omitempty"`
	NotificationMinutes  *int           `json:"notificationMinutes,omitempty" xml:"notificationMinutes,omitempty" yaml:"notificationMinutes,omitempty"`
	NotificationPosition *int           `json:"notificationPosition,omitempty" xml:"notificationPosition,omitempty" yaml:"notificationPosition,omitempty"`
	Extra                map[string]any `json:"-" xml:"-" yaml:"-"`
}

// ErrorPayload is the structured failure body of the integration surface.
type ErrorPayload struct {
	StatusCode int    `json:"statusCode" xml:"statusCode" yaml:"statusCode"`
	Message    string `json:"message" xml:"message" yaml:"message"`
	Error      string `json:"error" xml:"error" yaml:"error"`
}

// Result is an encoded response body with the media type it was encoded in.
type Result struct {
	Body      string
	MediaType string
}

type Service interface {
	// Process runs the whole pipeline as a single best-effort pass:
	// decode, map, create, encode. Every failure propagates unchanged.
	Process(ctx context.Context, raw, contentType, accept string) (*Result, error)
}

var (
	ErrUnsupportedMediaType = errors.New("unsupported_media_type")
	ErrMalformedPayload     = errors.New("malformed_payload")
	ErrInvalidRecord        = errors.New("invalid_record")
)
