package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Entity groups an entity reference under the key "entity".
func Entity(entityType, entityID string) slog.Attr {
	return Group("entity",
		slog.String("type", entityType),
		slog.String("id", entityID),
	)
}

// Field records the tracked state field under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// FromState records the source state under the key "from_state".
func FromState(name string) slog.Attr {
	return slog.String("from_state", name)
}

// ToState records the target state under the key "to_state".
func ToState(name string) slog.Attr {
	return slog.String("to_state", name)
}

// Performer records the performer identifier under the key "performer_id".
// If id is empty, it returns an empty Attr.
func Performer(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("performer_id", id)
}

// ErrorCode records a transition error code under the key "error_code".
func ErrorCode(code string) slog.Attr {
	return slog.String("error_code", code)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Handler records the handler name under the key "handler".
func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
