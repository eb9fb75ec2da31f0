// Package models provides data structures and operations for activity data
// stored in the webhooks table. Payloads arrive from the Garmin push API and
// are stored as JSONB, sometimes double-encoded as a JSON string, so all
// decoding here is deliberately tolerant.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tracefit/activity-metrics-api/internal/constants"
)

// Activity represents a row of the webhooks table holding an
// activity-details payload.
type Activity struct {
	// ID is the unique identifier for this webhook row
	ID int64 `json:"id" db:"id"`

	// UserID references the Garmin user the payload belongs to
	UserID string `json:"user_id" db:"user_id"`

	// Type is the webhook payload type, activity-details for activity data
	Type string `json:"type" db:"type"`

	// Data is the raw JSONB payload as delivered by the push API
	Data json.RawMessage `json:"data" db:"data"`

	// CreatedAt records when the webhook row was stored
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the Activity model.
func (a *Activity) TableName() string {
	return constants.TableWebhooks
}

// Payload decodes the stored payload into a generic map. Payloads stored as
// a JSON-encoded string (older rows) are unwrapped one level first. A nil
// map is returned when the payload cannot be decoded as an object.
func (a *Activity) Payload() map[string]interface{} {
	if len(a.Data) == 0 {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(a.Data, &decoded); err != nil {
		return nil
	}

	// Older rows store the payload double-encoded as a JSON string.
	if s, ok := decoded.(string); ok {
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil
		}
	}

	payload, ok := decoded.(map[string]interface{})
	if !ok {
		return nil
	}
	return payload
}

// Detail returns the activity detail object. Payloads wrap the detail in an
// activityDetails array; the first element is used. Payloads that are
// themselves the detail structure are returned as-is.
func (a *Activity) Detail() map[string]interface{} {
	payload := a.Payload()
	if payload == nil {
		return nil
	}

	if wrapped, ok := payload["activityDetails"].([]interface{}); ok && len(wrapped) > 0 {
		if detail, ok := wrapped[0].(map[string]interface{}); ok {
			return detail
		}
	}

	return payload
}

// ActivityName extracts a human-friendly activity name from the payload,
// trying the key variants seen across payload versions.
func (a *Activity) ActivityName() string {
	detail := a.Detail()
	if detail == nil {
		return ""
	}

	for _, key := range []string{"activityName", "activity_name", "name"} {
		if name, ok := detail[key].(string); ok && name != "" {
			return name
		}
	}

	// Some payloads keep the name on the summary object.
	if summary, ok := detail["summary"].(map[string]interface{}); ok {
		for _, key := range []string{"activityName", "activityType"} {
			if name, ok := summary[key].(string); ok && name != "" {
				return name
			}
		}
	}

	return ""
}

// Label builds a display label for the activity, preferring
// "created - activityName" and falling back to the row ID when the payload
// carries no name.
func (a *Activity) Label() string {
	created := a.CreatedAt.Format(time.RFC3339)
	if name := a.ActivityName(); name != "" {
		return fmt.Sprintf("%s - %s", created, name)
	}
	return fmt.Sprintf("%d - %s", a.ID, created)
}

// PayloadField describes one top-level key of the payload without exposing
// its contents.
type PayloadField struct {
	Key  string `json:"key"`
	Type string `json:"type"`
	Len  int    `json:"len,omitempty"`
}

// PayloadSummary lists the top-level payload keys with their JSON type and
// length. The dashboard shows this instead of the full JSON, which can run
// to megabytes for long activities.
func (a *Activity) PayloadSummary() []PayloadField {
	payload := a.Payload()
	if payload == nil {
		return nil
	}

	fields := make([]PayloadField, 0, len(payload))
	for key, value := range payload {
		field := PayloadField{Key: key, Type: jsonTypeName(value)}
		switch v := value.(type) {
		case []interface{}:
			field.Len = len(v)
		case map[string]interface{}:
			field.Len = len(v)
		case string:
			field.Len = len(v)
		}
		fields = append(fields, field)
	}
	return fields
}

// jsonTypeName names the JSON type of a decoded value.
func jsonTypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ActivitySummary is the listing view of an activity: row metadata plus the
// derived label, without the payload.
type ActivitySummary struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	ActivityName string    `json:"activity_name,omitempty"`
	Label        string    `json:"label"`
}

// Summarize builds the listing view for this activity.
func (a *Activity) Summarize() ActivitySummary {
	return ActivitySummary{
		ID:           a.ID,
		UserID:       a.UserID,
		Type:         a.Type,
		CreatedAt:    a.CreatedAt,
		ActivityName: a.ActivityName(),
		Label:        a.Label(),
	}
}
