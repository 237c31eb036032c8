package order

import "strings"

// Status represents the lifecycle status of an order
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCanceled   Status = "Canceled"
)

// Statuses returns every status an administrator may assign
func Statuses() []Status {
	return []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled}
}

// IsValid checks if the status is one of the four known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanBeCanceledByCustomer reports whether a customer may cancel an order in this status
func (s Status) CanBeCanceledByCustomer() bool {
	return s == StatusProcessing
}

// ParseStatus converts user input into a Status.
// Matching ignores surrounding whitespace and letter case.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}
