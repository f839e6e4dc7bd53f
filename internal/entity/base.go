package entity

import "time"

// NowUnixMilli returns current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// NormalizePair orders a participant pair so that the smaller id comes first.
// The conversations table keys its uniqueness constraint on this normal form.
func NormalizePair(userA, userB int64) (int64, int64) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}
