package request

type SetDepartment struct {
	// Department may be empty to move the inquiry to the public lane.
	Department string `json:"department"`
}

type SetPriority struct {
	ID     string `json:"id" binding:"required"`
	Weight int    `json:"weight" binding:"min=0"`
}

type SetSla struct {
	ID                        string `json:"id" binding:"required"`
	EstimatedWaitingTimeQueue int    `json:"estimated_waiting_time_queue" binding:"min=0"`
}

type BulkUnsetSla struct {
	RoomIDs []string `json:"room_ids" binding:"required,min=1"`
}

type SetSortMode struct {
	SortMode string `json:"sort_mode" binding:"required"`
}
