package domain

// Connection status is the single canonical enumeration; every call site uses
// these values (never "accepted").
const (
	ConnectionPending  = "pending"
	ConnectionApproved = "approved"
	ConnectionRejected = "rejected"
)

// Connection status relative to a viewing user.
const (
	StatusConnected       = "connected"
	StatusRequestSent     = "request_sent"
	StatusRequestReceived = "request_received"
	StatusNotConnected    = "not_connected"
)

const (
	MessageTypeText      = "text"
	MessageTypeNote      = "note"
	MessageTypeChallenge = "challenge"
)

const (
	NotificationConnectionRequest  = "connection_request"
	NotificationConnectionAccepted = "connection_accepted"
	NotificationMessage            = "message"
)

const (
	ChallengeActive    = "active"
	ChallengeCompleted = "completed"
	ChallengeAbandoned = "abandoned"
)

// MaxMessageLength is the largest accepted chat message body.
const MaxMessageLength = 1000

// DefaultLevel is assigned to profiles that don't specify one.
const DefaultLevel = "Beginner"
