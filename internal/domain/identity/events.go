package identity

import "github.com/smarthomes/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeUser = "User"

// EventTypeUserRegistered is raised when a storefront account is created
const EventTypeUserRegistered = "UserRegistered"

// UserRegisteredEvent is published when a user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.Email),
		Name:            u.Name,
		Email:           u.Email,
	}
}
