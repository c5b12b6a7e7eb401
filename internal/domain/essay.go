package domain

// EssayStatus is the lifecycle state of an essay assignment.
type EssayStatus string

const (
	EssayAssigned  EssayStatus = "assigned"
	EssayCompleted EssayStatus = "completed"
	EssayExpired   EssayStatus = "expired"
)

func ParseEssayStatus(s string) (EssayStatus, bool) {
	switch EssayStatus(s) {
	case EssayAssigned, EssayCompleted, EssayExpired:
		return EssayStatus(s), true
	}
	return "", false
}

// EssayTopic is one essay assignment. EssayID values are never reused.
type EssayTopic struct {
	EssayID int64
	UserID  int64
	Topic   string
	Status  EssayStatus
}
