package events

import "time"

// Session lifecycle event codes.
const (
	TypeSessionAdmitted = "SESSION_ADMITTED" // gate check accepted the first input
	TypeSpecCompleted   = "SPEC_COMPLETED"   // all sections reached the threshold
	TypeSpecDetailed    = "SPEC_DETAILED"    // elaboration finished
	TypeSpecRefined     = "SPEC_REFINED"     // a refinement pass ran
	TypeSessionReset    = "SESSION_RESET"    // state recreated from initial values
)

// NewSessionEvent builds a session-scoped event.
func NewSessionEvent(eventType, sessionID string, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{"session_id": sessionID}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
