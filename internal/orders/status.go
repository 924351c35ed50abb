package orders

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusPaid       Status = "paid"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusInProgress: true, StatusPaid: true, StatusCancelled: true},
	StatusPaid:       {StatusInProgress: true, StatusDelivered: true, StatusCancelled: true},
	StatusInProgress: {StatusReady: true, StatusCancelled: true},
	StatusReady:      {StatusPaid: true, StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Open reports whether staff still has work to do on the order.
func (s Status) Open() bool {
	return s != StatusDelivered && s != StatusCancelled
}
