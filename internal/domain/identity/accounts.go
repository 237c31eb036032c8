package identity

import (
	"encoding/json"

	"github.com/smarthomes/backend/internal/domain/shared"
)

// Accounts is the collection of storefront users, keyed by email
type Accounts struct {
	shared.EventRecorder
	users []User
}

// NewAccounts creates a collection holding the given users
func NewAccounts(users ...User) *Accounts {
	a := &Accounts{}
	a.users = append(a.users, users...)
	return a
}

// Profiles returns every user without password material
func (a *Accounts) Profiles() []Profile {
	out := make([]Profile, len(a.users))
	for i, u := range a.users {
		out[i] = u.Public()
	}
	return out
}

// Len returns the number of users
func (a *Accounts) Len() int {
	return len(a.users)
}

// Register adds a new user. Emails are unique, compared case-insensitively.
func (a *Accounts) Register(name, email, password string) (Profile, error) {
	u, err := NewUser(name, email, password)
	if err != nil {
		return Profile{}, err
	}
	if a.indexOf(u.Email) >= 0 {
		return Profile{}, shared.NewDomainError(shared.CodeAlreadyExists, "An account with this email already exists.")
	}
	a.users = append(a.users, *u)
	a.AddDomainEvent(NewUserRegisteredEvent(*u))
	return u.Public(), nil
}

// Login checks the credentials. When the stored password is legacy
// plaintext and matches, it is replaced by a hash and upgraded is true.
func (a *Accounts) Login(email, password string) (profile Profile, upgraded bool, err error) {
	i := a.indexOf(normalizeEmail(email))
	if i < 0 || password == "" || !a.users[i].VerifyPassword(password) {
		return Profile{}, false, shared.NewDomainError(shared.CodeUnauthorized, "Invalid email or password.")
	}
	u := &a.users[i]
	if u.HasLegacyPassword() {
		if err := u.SetPassword(password); err != nil {
			return Profile{}, false, err
		}
		upgraded = true
	}
	return u.Public(), upgraded, nil
}

// Clone returns a copy without pending events
func (a *Accounts) Clone() *Accounts {
	return NewAccounts(a.users...)
}

func (a *Accounts) indexOf(email string) int {
	for i, u := range a.users {
		if normalizeEmail(u.Email) == email {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the users array
func (a *Accounts) MarshalJSON() ([]byte, error) {
	if a.users == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.users)
}

// UnmarshalJSON reads the users array
func (a *Accounts) UnmarshalJSON(data []byte) error {
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return shared.NewValidationError("users document must be a JSON array of users")
	}
	a.users = users
	return nil
}
