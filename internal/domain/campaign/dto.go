package campaign

type CreateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	IsActive *bool  `json:"is_active"`
}

type UpdateRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
