package model

// Principal is the authenticated identity resolved from a verified token.
// It is derived once by the auth middleware and lives for a single request;
// it is never persisted.
type Principal struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
