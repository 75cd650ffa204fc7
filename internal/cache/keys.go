package cache

import "fmt"

// Key builders, one per logical resource. Two logically distinct requests
// must never share a key, so every parameterized resource folds its
// parameters into the key.

func ProfileKey(userID string) string {
	return "profile:" + userID
}

func ContentKey() string {
	return "content:list"
}

func ProgramKey(id string) string {
	return "program:" + id
}

func ExerciseKey(id string) string {
	return "exercise:" + id
}

func CalendarKey(userID string, year, month int) string {
	return fmt.Sprintf("calendar:%s:%04d-%02d", userID, year, month)
}

func HistoryKey(userID string) string {
	return "history:" + userID
}
