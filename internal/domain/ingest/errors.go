package ingest

import (
	"errors"
	"net/http"
)

// Stage is a step of one import run.
type Stage string

const (
	StageReceived         Stage = "received"
	StageValidated        Stage = "validated"
	StageCampaignResolved Stage = "campaign_resolved"
	StageDeduplicated     Stage = "deduplicated"
	StageEnriched         Stage = "enriched"
	StageInserted         Stage = "inserted"
	StageRejected         Stage = "rejected"
)

// Kind classifies why a batch was rejected.
type Kind string

const (
	KindNoTenant         Kind = "no_tenant"
	KindTenantRequired   Kind = "tenant_required"
	KindEmptyBatch       Kind = "empty_batch"
	KindTooManyRecords   Kind = "too_many_records"
	KindMissingFields    Kind = "missing_fields"
	KindInvalidCampaign  Kind = "invalid_campaign"
	KindDeadline         Kind = "deadline"
	KindImportInProgress Kind = "import_in_progress"
	KindNothingToInsert  Kind = "nothing_to_insert"
	KindStore            Kind = "store_failure"
)

// Status is the HTTP status a rejection of this kind answers with.
func (k Kind) Status() int {
	switch k {
	case KindNoTenant, KindTenantRequired:
		return http.StatusForbidden
	case KindEmptyBatch, KindTooManyRecords, KindMissingFields:
		return http.StatusBadRequest
	case KindInvalidCampaign, KindDeadline:
		return http.StatusUnprocessableEntity
	case KindImportInProgress, KindNothingToInsert:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a rejected batch. Result always carries the counters.
type Error struct {
	Kind    Kind
	Stage   Stage
	Message string
	Result  Result

	RequiredFields   []string
	AllowedCampaigns []string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var ie *Error
	ok := errors.As(err, &ie)
	return ie, ok
}
