package auth

import "context"

var _ Checker = (*TestChecker)(nil)

// TestChecker maps tokens to user ids, used in handler and middleware tests.
type TestChecker struct {
	LoggedSessions map[string]string
}

func NewTestChecker() *TestChecker {
	return &TestChecker{
		LoggedSessions: map[string]string{},
	}
}

func (c *TestChecker) IsLogged(_ context.Context, token string) (string, error) {
	userID, ok := c.LoggedSessions[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	return userID, nil
}
