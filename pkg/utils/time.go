package utils

import "time"

// NowUnixMillis is the timestamp unit of every stored record.
func NowUnixMillis() int64 {
	return time.Now().UnixMilli()
}
