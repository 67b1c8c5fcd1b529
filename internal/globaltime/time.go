package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc()
}

func UTC() time.Time {
	return Now().UTC()
}

// Stamp returns the current UTC time as an ISO-8601 string, the format all
// record timestamps (crawled_at, cleaned_at) use.
func Stamp() string {
	return UTC().Format(time.RFC3339)
}

// Date returns the current UTC calendar date as YYYY-MM-DD, the key daily
// snapshots and reports are filed under.
func Date() string {
	return UTC().Format("2006-01-02")
}

func SetMockTime(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = func() time.Time { return t }
}

func ResetTime() {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = time.Now
}
