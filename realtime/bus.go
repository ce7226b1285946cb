package realtime

import "context"

// AccessEvent is published whenever an admin changes a student's surah access.
type AccessEvent struct {
	KeyID      string `json:"key_id"`
	SurahID    int    `json:"surah_id"`
	IsUnlocked bool   `json:"is_unlocked"`
}

// Bus fans access events out to live student connections. Delivery is
// at-most-once per subscriber; clients own the resync backstop.
type Bus interface {
	Publish(ctx context.Context, event AccessEvent) error
	// Subscribe returns a channel of events and a cancel function that must
	// be called when the subscriber goes away.
	Subscribe() (<-chan AccessEvent, func())
	Close() error
}

// NewBus returns a Redis-backed bus when addr is set, otherwise an
// in-process bus suitable for single-node deployments and tests.
func NewBus(addr, channel string) (Bus, error) {
	if addr == "" {
		return NewMemoryBus(), nil
	}
	return NewRedisBus(addr, channel)
}
