package model

// StatusCount is one row of the complaints-by-status aggregate.
type StatusCount struct {
	Status ComplaintStatus `json:"status"`
	Count  int64           `json:"count"`
}

// TypeCount is one row of the complaints-by-type aggregate.
type TypeCount struct {
	ComplaintType string `json:"complaint_type"`
	Count         int64  `json:"count"`
}

// BranchCount is one row of the complaints-by-branch aggregate.
type BranchCount struct {
	Branch string `json:"branch"`
	Count  int64  `json:"count"`
}

// Statistics is the admin dashboard summary over the whole complaints table.
type Statistics struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"byStatus"`
	ByType   []TypeCount   `json:"byType"`
	ByBranch []BranchCount `json:"byBranch"`
	Recent   int64         `json:"recent"`
}
