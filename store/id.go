package store

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewID returns an opaque identifier unique with overwhelming
// probability across the process lifetime: a random UUID joined with a
// base-36 nanosecond timestamp. IDs are immutable once assigned.
func NewID() string {
	return uuid.NewString() + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}
