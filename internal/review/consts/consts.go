package consts

const (
	// SessionKeyPrefix prefixes the Redis key holding a live session token.
	SessionKeyPrefix = "draftpad:session:"

	// ContinuationKeyPrefix prefixes the Redis key holding a pending
	// cross-navigation continuation (redirect target plus invite token).
	ContinuationKeyPrefix = "draftpad:continuation:"
)
