package constant

// Online status
const (
	StatusOffline = 0
	StatusOnline  = 1
)

// Redis key patterns (without prefix, use RedisKey*() to get full key)
const (
	redisKeyOnline = "online:%d" // online:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "inkchat:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// RedisKeyOnline returns the online-flag key pattern with prefix
func RedisKeyOnline() string { return redisKeyPrefix + redisKeyOnline }
