package calsync

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource hands out ids for synced appointments that have no external UID.
type IDSource interface {
	Next() string
}

// Counter yields prefix1, prefix2, ...
type Counter struct {
	Prefix string
	n      atomic.Uint64
}

func NewCounter(prefix string) *Counter {
	return &Counter{Prefix: prefix}
}

func (c *Counter) Next() string {
	return c.Prefix + strconv.FormatUint(c.n.Add(1), 10)
}

// UUIDs yields prefix<random uuid>.
type UUIDs struct {
	Prefix string
}

func (u UUIDs) Next() string {
	return u.Prefix + uuid.NewString()
}
