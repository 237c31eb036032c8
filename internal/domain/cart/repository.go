package cart

import (
	"context"
	"regexp"
	"strings"

	"github.com/smarthomes/backend/internal/domain/shared"
)

// DefaultSession is the session used when the client does not name one
const DefaultSession = "default"

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NormalizeSession maps an empty session to DefaultSession and rejects
// names that cannot be used as a storage key
func NormalizeSession(session string) (string, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return DefaultSession, nil
	}
	if !sessionPattern.MatchString(session) {
		return "", shared.NewValidationError("invalid cart session %q", session)
	}
	return session, nil
}

// Saver writes a session's cart lines to storage
type Saver interface {
	Save(ctx context.Context, session string, lines []Line) error
}

// Repository loads and saves carts per session
type Repository interface {
	Saver

	// Load returns the stored lines for a session; an unknown session has no lines
	Load(ctx context.Context, session string) ([]Line, error)
}
