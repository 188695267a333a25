// Package converter maps media types to decode/encode strategies for the
// integration pipeline.
package converter

import (
	"strings"

	"github.com/qline-io/qline/internal/integration/domain"
)

const (
	MediaJSON    = "application/json"
	MediaXML     = "application/xml"
	MediaTextXML = "text/xml"
	MediaYAML    = "application/yaml"
)

// Converter decodes an external payload into the internal record and
// encodes records and error payloads back into its target syntax.
type Converter interface {
	MediaType() string
	Decode(raw string) (domain.Record, error)
	Encode(rec domain.Record) (string, error)
	EncodeError(payload domain.ErrorPayload) (string, error)
}

// Registry resolves media-type strings to converters. Matching is
// case-insensitive and exact after trimming; parameter suffixes and
// wildcard patterns are not recognized.
type Registry struct {
	converters map[string]Converter
}

func NewRegistry() *Registry {
	jsonConv := &jsonConverter{}
	return &Registry{
		converters: map[string]Converter{
			MediaJSON:    jsonConv,
			MediaXML:     &xmlConverter{mediaType: MediaXML},
			MediaTextXML: &xmlConverter{mediaType: MediaTextXML},
			MediaYAML:    &yamlConverter{},
		},
	}
}

// Inbound resolves the converter for a Content-Type header.
func (r *Registry) Inbound(contentType string) (Converter, error) {
	conv, ok := r.converters[normalize(contentType)]
	if !ok {
		return nil, domain.ErrUnsupportedMediaType
	}
	return conv, nil
}

// Outbound resolves the converter for an Accept header. An absent, empty
// or wildcard accept defaults to JSON; on a comma-separated list the
// first recognized candidate wins.
func (r *Registry) Outbound(accept string) (Converter, error) {
	accept = strings.TrimSpace(accept)
	if accept == "" || accept == "*/*" {
		return r.converters[MediaJSON], nil
	}

	for _, candidate := range strings.Split(accept, ",") {
		key := normalize(candidate)
		if key == "*/*" {
			return r.converters[MediaJSON], nil
		}
		if conv, ok := r.converters[key]; ok {
			return conv, nil
		}
	}
	return nil, domain.ErrUnsupportedMediaType
}

func normalize(mediaType string) string {
	return strings.ToLower(strings.TrimSpace(mediaType))
}
