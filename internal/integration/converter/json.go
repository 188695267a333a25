package converter

import (
	"encoding/json"
	"strings"

	"github.com/qline-io/qline/internal/integration/domain"
)

type jsonConverter struct{}

func (c *jsonConverter) MediaType() string { return MediaJSON }

func (c *jsonConverter) Decode(raw string) (domain.Record, error) {
	// UseNumber keeps large numeric identifiers intact; float64 would
	// round anything above 2^53.
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return domain.Record{}, domain.ErrMalformedPayload
	}
	return recordFromMap(fields)
}

func (c *jsonConverter) Encode(rec domain.Record) (string, error) {
	out, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *jsonConverter) EncodeError(payload domain.ErrorPayload) (string, error) {
	out, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
