package queue

import (
	"time"

	"arvan/inquiry-queue/internal/domain"
)

// LeaseTTL is how long a claim hides an inquiry from other dispatchers.
const LeaseTTL = 5000 * time.Millisecond

type LeaseManager struct {
	ttl time.Duration
}

func NewLeaseManager() LeaseManager {
	return LeaseManager{ttl: LeaseTTL}
}

func (lm LeaseManager) TTL() time.Duration {
	return lm.ttl
}

// StaleBefore is the newest lockedAt that no longer protects an inquiry.
func (lm LeaseManager) StaleBefore(now time.Time) time.Time {
	return now.Add(-lm.ttl)
}

// IsClaimable mirrors the store's claim predicate. A locked inquiry without
// lockedAt is not claimable; only RecoverAll frees it.
func (lm LeaseManager) IsClaimable(inquiry domain.Inquiry, now time.Time) bool {
	if inquiry.Locked == nil || !*inquiry.Locked {
		return true
	}
	if inquiry.LockedAt == nil {
		return false
	}
	return !inquiry.LockedAt.After(lm.StaleBefore(now))
}

func (lm LeaseManager) Acquire(now time.Time) domain.Lease {
	locked := true
	at := now
	return domain.Lease{Locked: &locked, LockedAt: &at}
}

func (lm LeaseManager) Release() domain.Lease {
	return domain.Lease{}
}
