package common

const (
	CacheKeyStats    = "stats"
	CacheKeyTrending = "trending"

	CacheProviderMemory = "memory"
	CacheProviderRedis  = "redis"

	DefaultTrendingLimit = 5
)
