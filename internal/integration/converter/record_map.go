package converter

import (
	"encoding/json"
	"strconv"

	"github.com/qline-io/qline/internal/integration/domain"
)

// recordFromMap extracts the known record fields from a decoded map and
// carries everything else through in Extra. JSON and YAML share this path;
// XML decodes against the struct directly.
func recordFromMap(fields map[string]any) (domain.Record, error) {
	rec := domain.Record{}
	extra := map[string]any{}

	for key, value := range fields {
		switch key {
		case "queueId":
			rec.QueueID = asString(value)
		case "userId":
			rec.UserID = asString(value)
		case "date":
			rec.Date = asString(value)
		case "time":
			rec.Time = asString(value)
		case "notificationMinutes":
			rec.NotificationMinutes = asIntPtr(value)
		case "notificationPosition":
			rec.NotificationPosition = asIntPtr(value)
		default:
			extra[key] = value
		}
	}

	if len(extra) > 0 {
		rec.Extra = extra
	}
	return rec, nil
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func asIntPtr(value any) *int {
	switch v := value.(type) {
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return &n
		}
	case float64:
		n := int(v)
		return &n
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}
