package fieldconfig

type FieldRequest struct {
	FieldName  string `json:"field_name" validate:"required,max=128"`
	IsRequired bool   `json:"is_required"`
	IsUnique   bool   `json:"is_unique"`
}

// ReplaceRequest replaces the whole field set of a tenant.
type ReplaceRequest struct {
	Fields []FieldRequest `json:"fields" validate:"dive"`
}

type ListResponse struct {
	Fields         []FieldConfig `json:"fields"`
	RequiredFields []string      `json:"required_fields"`
	KeyFields      []string      `json:"key_fields"`
	KeyFallback    bool          `json:"key_fallback"`
}
