package lead

import "github.com/google/uuid"

// UpdateStatusRequest moves a lead to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=64"`
}

// ListFilter narrows a lead listing.
type ListFilter struct {
	Status     string
	CampaignID *uuid.UUID
	Limit      int
	Offset     int
}

type ListResponse struct {
	Leads []Lead `json:"leads"`
	Total int64  `json:"total"`
}

type StatsResponse struct {
	ByStatus map[string]int64 `json:"by_status"`
	Total    int64            `json:"total"`
}
