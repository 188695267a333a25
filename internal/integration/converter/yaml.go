package converter

import (
	"github.com/qline-io/qline/internal/integration/domain"
	"gopkg.in/yaml.v3"
)

type yamlConverter struct{}

func (c *yamlConverter) MediaType() string { return MediaYAML }

func (c *yamlConverter) Decode(raw string) (domain.Record, error) {
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return domain.Record{}, domain.ErrMalformedPayload
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return recordFromMap(fields)
}

func (c *yamlConverter) Encode(rec domain.Record) (string, error) {
	out, err := yaml.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *yamlConverter) EncodeError(payload domain.ErrorPayload) (string, error) {
	out, err := yaml.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
