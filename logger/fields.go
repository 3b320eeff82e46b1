package logger

import (
	"time"
)

// Standard field keys for structured logging.
const (
	FieldService       = "service"
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldSessionID     = "session_id"
	FieldParticipantID = "participant_id"
	FieldChannelID     = "channel_id"
	FieldEventType     = "event_type"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("joined", logger.Fields("session_id", id, "participants", n))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// ChannelFields identifies one live channel and, when bound, its session seat.
func ChannelFields(channelID, sessionID, participantID string) map[string]interface{} {
	m := map[string]interface{}{FieldChannelID: channelID}
	if sessionID != "" {
		m[FieldSessionID] = sessionID
	}
	if participantID != "" {
		m[FieldParticipantID] = participantID
	}
	return m
}
