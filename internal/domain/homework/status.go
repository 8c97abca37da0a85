// internal/domain/homework/status.go
package homework

// Status is the review state reported by the homework status API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Verdict returns the human-readable text for the status.
// Unknown values yield an *UnexpectedStatusError.
func (s Status) Verdict() (string, error) {
	switch s {
	case StatusApproved:
		return "Работа проверена: ревьюеру всё понравилось. Ура!", nil
	case StatusReviewing:
		return "Работа взята на проверку ревьюером.", nil
	case StatusRejected:
		return "Работа проверена, в ней нашлись ошибки.", nil
	default:
		return "", &UnexpectedStatusError{Status: string(s)}
	}
}

// Known reports whether the status belongs to the enumerated set.
func (s Status) Known() bool {
	_, err := s.Verdict()
	return err == nil
}

// Report is a single homework entry of the API answer.
type Report struct {
	HomeworkName string
	Status       Status
}

// StatusResponse is a validated answer of the status API.
// Homeworks are ordered newest first, as the server returns them.
type StatusResponse struct {
	Homeworks      []Report
	CurrentDate    int64
	HasCurrentDate bool
}

// Latest returns the newest report, or false when nothing changed since the cursor.
func (r *StatusResponse) Latest() (Report, bool) {
	if r == nil || len(r.Homeworks) == 0 {
		return Report{}, false
	}
	return r.Homeworks[0], true
}
