package domain

import "time"

// ProgressEvent is emitted after each unit of work of a batch driver.
// Current is 1-based and grows by one per event until it reaches Total.
type ProgressEvent struct {
	Current int
	Total   int
	Label   string
	Product string
	Success *bool
	Error   string
}

// ProgressFunc receives progress events synchronously; it must not block for long.
type ProgressFunc func(ProgressEvent)

// Token is an OAuth access token issued by the catalog platform.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	IssuedAt    time.Time
}

// ExpiresAt returns the absolute expiry time, or zero when the lifetime is unknown.
func (t Token) ExpiresAt() time.Time {
	if t.ExpiresIn <= 0 || t.IssuedAt.IsZero() {
		return time.Time{}
	}
	return t.IssuedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}
