package identity

import (
	"crypto/subtle"
	"strings"

	"github.com/smarthomes/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = bcrypt.DefaultCost

// User is a storefront account. Password holds a bcrypt hash; records
// written before hashing was introduced hold the plaintext password.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewUser validates the input and creates a user with a hashed password
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, shared.NewValidationError("name is required")
	}
	if email == "" {
		return nil, shared.NewValidationError("email is required")
	}
	if password == "" {
		return nil, shared.NewValidationError("password is required")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{Name: name, Email: email, Password: hash}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.HasLegacyPassword() {
		return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// HasLegacyPassword reports whether the stored password is not a bcrypt hash
func (u *User) HasLegacyPassword() bool {
	_, err := bcrypt.Cost([]byte(u.Password))
	return err != nil
}

// SetPassword replaces the stored password with a hash of password
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// Public returns the user without password material
func (u User) Public() Profile {
	return Profile{Name: u.Name, Email: u.Email}
}

// Profile is the password-free view of a user
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewValidationError("invalid password: %v", err)
	}
	return string(hash), nil
}
