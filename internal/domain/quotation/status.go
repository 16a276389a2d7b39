package quotation

// Status represents the lifecycle state of a quotation request
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusQuoted     Status = "quoted"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusExpired    Status = "expired"
	StatusCancelled  Status = "cancelled"
)

// transitions lists the statuses reachable from each status
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusQuoted, StatusPending, StatusCancelled},
	StatusQuoted:     {StatusAccepted, StatusRejected, StatusExpired, StatusProcessing, StatusCancelled},
}

// IsValid returns true if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusQuoted, StatusAccepted,
		StatusRejected, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that allow no further transition
func (s Status) IsTerminal() bool {
	_, ok := transitions[s]
	return s.IsValid() && !ok
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Source records who submitted a quotation request
type Source string

const (
	SourceCustomer Source = "customer"
	SourceStaff    Source = "staff"
	SourceIntake   Source = "intake"
)

// IsValid returns true if the source is known
func (s Source) IsValid() bool {
	return s == SourceCustomer || s == SourceStaff || s == SourceIntake
}
