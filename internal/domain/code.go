package domain

import "time"

// VerificationCode is a one-time code exchanged for bonus download credits
// after ad-session completion. PK: code (uppercase hex). Single-use: deleted
// on successful redemption and on expiry detection.
type VerificationCode struct {
	Code      string    `json:"code" dynamodbav:"code"`
	UserID    int64     `json:"user_id" dynamodbav:"user_id"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
