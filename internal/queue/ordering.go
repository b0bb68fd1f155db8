package queue

import (
	"strings"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/pkg/errors"
)

var orderings = map[domain.SortMode]domain.SortSpec{
	domain.SortModeTimestamp: {
		{Key: domain.SortKeyTimestamp},
		{Key: domain.SortKeyID},
	},
	domain.SortModePriority: {
		{Key: domain.SortKeyPriorityWeight},
		{Key: domain.SortKeyTimestamp},
		{Key: domain.SortKeyID},
	},
	domain.SortModeSLAs: {
		{Key: domain.SortKeyEstimatedWaitingTime},
		{Key: domain.SortKeyPriorityWeight},
		{Key: domain.SortKeyTimestamp},
		{Key: domain.SortKeyID},
	},
}

// OrderingFor returns the sort keys of a mode. Every ordering ends with the id
// so equal timestamps still rank the same way on every call.
func OrderingFor(mode domain.SortMode) (domain.SortSpec, error) {
	spec, ok := orderings[mode]
	if !ok {
		return nil, errors.Wrapf(constant.ErrInvalidArgument, "unknown sort mode %q", mode)
	}
	out := make(domain.SortSpec, len(spec))
	copy(out, spec)
	return out, nil
}

func ParseSortMode(s string) (domain.SortMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.SortModeTimestamp, nil
	}
	for mode := range orderings {
		if strings.EqualFold(s, string(mode)) {
			return mode, nil
		}
	}
	return "", errors.Wrapf(constant.ErrInvalidArgument, "unknown sort mode %q", s)
}
