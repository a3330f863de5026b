package events

import "time"

func newEvent(t EventType, endpoint string, op Operation, message string) Event {
	return Event{
		Type:      t,
		Endpoint:  endpoint,
		Message:   message,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"operation": string(op),
		},
	}
}

func Success(endpoint string, op Operation, message string) Event {
	return newEvent(EventTypeSuccess, endpoint, op, message)
}

func Error(endpoint string, op Operation, message string, err error) Event {
	event := newEvent(EventTypeError, endpoint, op, message)
	if err != nil {
		event.Error = err.Error()
	}
	return event
}

func Info(endpoint string, op Operation, message string) Event {
	return newEvent(EventTypeInfo, endpoint, op, message)
}

func Warning(endpoint string, op Operation, message string) Event {
	return newEvent(EventTypeWarning, endpoint, op, message)
}

// With returns a copy of the event carrying an extra detail.
func (e Event) With(key string, value interface{}) Event {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}
