package common

// Cache keys. Arguments are upper-cased by the callers.
const (
	KEY_VIN_HISTORY = "vin:%s"
)

const (
	CACHE_DRIVER_MEMORY = "memory"
	CACHE_DRIVER_REDIS  = "redis"
)

func GetCacheDriverList() []string {
	return []string{
		CACHE_DRIVER_MEMORY,
		CACHE_DRIVER_REDIS,
	}
}
