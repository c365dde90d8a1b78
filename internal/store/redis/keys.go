package redis

import "strings"

const (
	// KeyPrefix namespaces every key written by the backend
	KeyPrefix = "kdbplan:"
)

// Key returns the Redis key for a store key
func Key(key string) string {
	return KeyPrefix + key
}

// StoreKey strips the namespace from a Redis key
func StoreKey(redisKey string) (string, bool) {
	if !strings.HasPrefix(redisKey, KeyPrefix) || len(redisKey) == len(KeyPrefix) {
		return "", false
	}
	return redisKey[len(KeyPrefix):], true
}
