package cache

import "fmt"

// claimKeyVersion is bumped whenever the cached result format changes, which
// invalidates all prior entries without touching Redis.
const claimKeyVersion = "v1"

func ClaimKey(contentHash string) string {
	return fmt.Sprintf("check:%s:%s", claimKeyVersion, contentHash)
}

func RateLimitKey(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s", clientKey)
}
