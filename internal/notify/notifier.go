package notify

// Topic names. One topic per user for events addressed to an individual, plus
// role-group topics for oversight events. Delivery is at-most-once and
// unordered across topics.
const (
	TopicSupervisors = "timeclock.role.supervisors.v1"
	TopicAdmins      = "timeclock.role.admins.v1"

	userTopicPrefix = "timeclock.user."
)

func UserTopic(userID string) string {
	return userTopicPrefix + userID + ".v1"
}

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock

// Notifier is the injected publish capability. Implementations must be safe
// for concurrent use. Callers treat publishing as fire-and-forget: a failed
// publish is logged by the caller and never fails the primary operation.
type Notifier interface {
	Publish(topic string, eventType string, key string, payload any) error
}

// Nop drops every event. Used when the fanout transport is not configured.
type Nop struct{}

func (Nop) Publish(topic string, eventType string, key string, payload any) error {
	return nil
}
