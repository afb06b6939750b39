package ingest

// Record is one submitted lead. Keys are tenant field names.
type Record struct {
	Fields map[string]any `json:"fields"`
}

type BulkImportRequest struct {
	Records []Record `json:"records"`
}

// Result reports how a batch was reconciled. It is returned on every exit.
type Result struct {
	Uploaded int `json:"uploaded"`
	Skipped  int `json:"skipped"`
	Added    int `json:"added"`

	// KeyFields is the identity used for deduplication. KeyFallback is set when the
	// tenant configured none and the display name was used instead.
	KeyFields   []string `json:"-"`
	KeyFallback bool     `json:"-"`
}

func (r *Result) rejectAll() {
	r.Skipped = r.Uploaded
	r.Added = 0
}
