package domain

import "time"

// AdSession is a short-lived token proving a user was redirected to an ad
// placement. PK: session_id. Used transitions false→true exactly once via a
// conditional update; ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type AdSession struct {
	SessionID string    `json:"session_id" dynamodbav:"session_id"`
	UserID    int64     `json:"user_id" dynamodbav:"user_id"`
	Used      bool      `json:"used" dynamodbav:"used"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
