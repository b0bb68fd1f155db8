package domain

// SortMode is the configured queue ordering policy.
type SortMode string

const (
	SortModeTimestamp SortMode = "Timestamp"
	SortModePriority  SortMode = "Priority"
	SortModeSLAs      SortMode = "SLAs"
)

// SortKey names an orderable inquiry attribute. The store maps keys to
// columns, so no caller-supplied text reaches an ORDER BY clause.
type SortKey int

const (
	SortKeyTimestamp SortKey = iota
	SortKeyPriorityWeight
	SortKeyEstimatedWaitingTime
	SortKeyID
)

type SortField struct {
	Key  SortKey
	Desc bool
}

// SortSpec is an ordered list of keys, most significant first.
type SortSpec []SortField
