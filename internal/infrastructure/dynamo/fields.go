package dynamo

// DynamoDB attribute names used in update and condition expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUsed        = "used"
	fieldTier        = "tier"
	fieldAdDownloads = "ad_downloads"
	fieldUpdatedAt   = "updated_at"
)
