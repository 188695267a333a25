package converter

import (
	"encoding/xml"

	"github.com/qline-io/qline/internal/integration/domain"
)

type xmlConverter struct {
	mediaType string
}

type xmlEntry struct {
	XMLName              xml.Name `xml:"entry"`
	QueueID              string   `xml:"queueId"`
	UserID               string   `xml:"userId"`
	Date                 string   `xml:"date,omitempty"`
	Time                 string   `xml:"time,omitempty"`
	NotificationMinutes  *int     `xml:"notificationMinutes,omitempty"`
	NotificationPosition *int     `xml:"notificationPosition,omitempty"`
}

type xmlError struct {
	XMLName    xml.Name `xml:"error"`
	StatusCode int      `xml:"statusCode"`
	Message    string   `xml:"message"`
	Error      string   `xml:"error"`
}

func (c *xmlConverter) MediaType() string { return c.mediaType }

func (c *xmlConverter) Decode(raw string) (domain.Record, error) {
	var wire struct {
		XMLName              xml.Name
		QueueID              string `xml:"queueId"`
		UserID               string `xml:"userId"`
		Date                 string `xml:"date"`
		Time                 string `xml:"time"`
		NotificationMinutes  *int   `xml:"notificationMinutes"`
		NotificationPosition *int   `xml:"notificationPosition"`
	}
	if err := xml.Unmarshal([]byte(raw), &wire); err != nil {
		return domain.Record{}, domain.ErrMalformedPayload
	}

	return domain.Record{
		QueueID:              wire.QueueID,
		UserID:               wire.UserID,
		Date:                 wire.Date,
		Time:                 wire.Time,
		NotificationMinutes:  wire.NotificationMinutes,
		NotificationPosition: wire.NotificationPosition,
	}, nil
}

func (c *xmlConverter) Encode(rec domain.Record) (string, error) {
	out, err := xml.Marshal(xmlEntry{
		QueueID:              rec.QueueID,
		UserID:               rec.UserID,
		Date:                 rec.Date,
		Time:                 rec.Time,
		NotificationMinutes:  rec.NotificationMinutes,
		NotificationPosition: rec.NotificationPosition,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *xmlConverter) EncodeError(payload domain.ErrorPayload) (string, error) {
	out, err := xml.Marshal(xmlError{
		StatusCode: payload.StatusCode,
		Message:    payload.Message,
		Error:      payload.Error,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
