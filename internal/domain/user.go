package domain

import "time"

// Account tiers. Privileged tiers never see sponsored impressions.
const (
	TierFree    = "free"
	TierPaid    = "paid"
	TierPremium = "premium"
	TierAdmin   = "admin"
)

type User struct {
	UserID      int64     `json:"user_id" dynamodbav:"user_id"`
	Tier        string    `json:"tier" dynamodbav:"tier"`
	AdDownloads int       `json:"ad_downloads" dynamodbav:"ad_downloads"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Privileged reports whether a tier is exempt from sponsored impressions.
func Privileged(tier string) bool {
	switch tier {
	case TierPaid, TierPremium, TierAdmin:
		return true
	}
	return false
}
