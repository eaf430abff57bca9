package events

import "reflect"

// Event is the interface that all run events must implement.
type Event interface {
	EventName() string // Returns a unique name for the event type
}

// GetRunID returns the RunID field of an event, or "" when it has none.
func GetRunID(event Event) string {
	val := reflect.ValueOf(event)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return ""
	}
	field := val.FieldByName("RunID")
	if field.IsValid() && field.Kind() == reflect.String {
		return field.String()
	}
	return ""
}
