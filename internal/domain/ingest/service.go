package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"leadengage/internal/domain/campaign"
	"leadengage/internal/domain/fieldconfig"
	"leadengage/internal/domain/lead"
	"leadengage/internal/pkg/lock"
	"leadengage/internal/tenant"
)

type fieldSource interface {
	Load(ctx context.Context, s *tenant.Scoped) (*fieldconfig.Snapshot, error)
}

type campaignSource interface {
	ListActive(ctx context.Context, s *tenant.Scoped) ([]campaign.Campaign, error)
	OwnedIDs(ctx context.Context, s *tenant.Scoped, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type leadStore interface {
	ExistingFields(ctx context.Context, s *tenant.Scoped) ([]datatypes.JSONMap, error)
	InsertBatch(ctx context.Context, s *tenant.Scoped, leads []*lead.Lead) (int64, error)
}

// Options bound one import run.
type Options struct {
	// RequestTimeout bounds each read made before the insert.
	RequestTimeout time.Duration
	InsertTimeout  time.Duration
	LockTTL        time.Duration
	MaxRecords     int
	// LegacyKeyFields join the identity whenever the tenant configures them.
	LegacyKeyFields []string
}

type Service struct {
	store     *tenant.Store
	fields    fieldSource
	campaigns campaignSource
	leads     leadStore
	locker    lock.Locker
	opts      Options
	log       *zap.Logger
	now       func() time.Time
}

func NewService(
	store *tenant.Store,
	fields fieldSource,
	campaigns campaignSource,
	leads leadStore,
	locker lock.Locker,
	opts Options,
	log *zap.Logger,
) *Service {
	if locker == nil {
		locker = lock.Nop{}
	}
	return &Service{
		store:     store,
		fields:    fields,
		campaigns: campaigns,
		leads:     leads,
		locker:    locker,
		opts:      opts,
		log:       log.Named("ingest"),
		now:       time.Now,
	}
}

// run carries the state of one Import call.
type run struct {
	res    Result
	scoped *tenant.Scoped
	tenant uuid.UUID
	log    *zap.Logger
	stage  Stage
}

func (r *run) enter(stage Stage) {
	r.stage = stage
	r.log.Debug("ingest stage", zap.String("stage", string(stage)))
}

func (r *run) reject(kind Kind, msg string, err error) *Error {
	r.res.rejectAll()
	e := &Error{Kind: kind, Stage: r.stage, Message: msg, Result: r.res, Err: err}
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("stage", string(r.stage)),
		zap.Int("uploaded", r.res.Uploaded),
		zap.Int("skipped", r.res.Skipped),
		zap.Int("added", r.res.Added),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if kind.Status() >= 500 {
		r.log.Error("ingest rejected", fields...)
	} else {
		r.log.Warn("ingest rejected", fields...)
	}
	return e
}

// Import runs records through validation, campaign resolution, deduplication and
// enrichment, then inserts the survivors in one transaction. Every exit returns
// the counters.
func (s *Service) Import(ctx context.Context, rc *tenant.RequestContext, records []Record) (Result, error) {
	r := &run{res: Result{Uploaded: len(records)}, log: s.log, stage: StageReceived}

	scoped, err := s.store.Scoped(rc)
	if err != nil {
		return r.res, r.reject(KindNoTenant, "No tenant access configured", err)
	}
	tenantID, ok := scoped.Filter().TenantID()
	if !ok {
		return r.res, r.reject(KindTenantRequired, "A target tenant_id is required for global administrators", tenant.ErrTenantRequired)
	}
	r.scoped, r.tenant = scoped, tenantID
	r.log = s.log.With(zap.String("tenant", tenantID.String()), zap.Int("uploaded", len(records)))
	r.enter(StageReceived)

	if len(records) == 0 {
		return r.res, r.reject(KindEmptyBatch, "No records provided", nil)
	}
	if s.opts.MaxRecords > 0 && len(records) > s.opts.MaxRecords {
		return r.res, r.reject(KindTooManyRecords, fmt.Sprintf("Batch exceeds the limit of %d records", s.opts.MaxRecords), nil)
	}

	snap, err := s.loadFields(ctx, r)
	if err != nil {
		return r.res, err
	}
	candidates, err := s.validate(r, records, snap.Required())
	if err != nil {
		return r.res, err
	}

	if err := s.resolveCampaigns(ctx, r, candidates); err != nil {
		return r.res, err
	}

	release, err := s.locker.Acquire(ctx, "import:"+tenantID.String(), s.opts.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			return r.res, r.reject(KindImportInProgress, "Another import is running for this tenant", err)
		}
		return r.res, s.readError(r, "Failed to acquire import lock", err)
	}
	defer release()

	keyFields, fallback := snap.KeyFields(s.opts.LegacyKeyFields)
	r.res.KeyFields, r.res.KeyFallback = keyFields, fallback
	accepted, err := s.dedupe(ctx, r, candidates, keyFields)
	if err != nil {
		return r.res, err
	}

	r.enter(StageEnriched)
	if len(accepted) == 0 {
		return r.res, r.reject(KindNothingToInsert, "All records are duplicates or invalid", nil)
	}
	rows := s.enrich(r, accepted)

	added, err := s.insert(ctx, r, rows)
	if err != nil {
		return r.res, r.reject(KindStore, "Failed to insert leads", err)
	}
	if added == 0 {
		return r.res, r.reject(KindNothingToInsert, "All records are duplicates or invalid", nil)
	}

	r.enter(StageInserted)
	r.res.Added = int(added)
	r.res.Skipped = r.res.Uploaded - r.res.Added
	r.log.Info("ingest completed",
		zap.Int("skipped", r.res.Skipped),
		zap.Int("added", r.res.Added),
		zap.Strings("key_fields", keyFields),
		zap.Bool("key_fallback", fallback))
	return r.res, nil
}

func (s *Service) loadFields(ctx context.Context, r *run) (*fieldconfig.Snapshot, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	snap, err := s.fields.Load(ctx, r.scoped)
	if err != nil {
		return nil, s.readError(r, "Failed to load field configuration", err)
	}
	return snap, nil
}

// validate drops records missing a required field. The batch fails only when none
// survive.
func (s *Service) validate(r *run, records []Record, required []string) ([]Candidate, error) {
	r.enter(StageValidated)
	candidates := make([]Candidate, 0, len(records))
	for i, rec := range records {
		if miss := missing(rec, required); len(miss) > 0 {
			r.log.Debug("record missing required fields", zap.Int("index", i), zap.Strings("fields", miss))
			continue
		}
		candidates = append(candidates, newCandidate(rec))
	}
	if len(candidates) == 0 {
		e := r.reject(KindMissingFields, "No records contain all required fields", nil)
		e.RequiredFields = nonNil(required)
		return nil, e
	}
	return candidates, nil
}

// resolveCampaigns maps campaign names and raw ids to campaigns of the tenant. One
// unresolvable reference rejects the whole batch.
func (s *Service) resolveCampaigns(ctx context.Context, r *run, candidates []Candidate) error {
	r.enter(StageCampaignResolved)

	referenced := false
	for _, c := range candidates {
		if c.CampaignName != "" || c.CampaignRef != "" {
			referenced = true
			break
		}
	}
	if !referenced {
		return nil
	}

	readCtx, cancel := s.bound(ctx)
	defer cancel()

	active, err := s.campaigns.ListActive(readCtx, r.scoped)
	if err != nil {
		return s.readError(r, "Failed to load campaigns", err)
	}
	v := campaign.NewValidator(active)

	invalid := make(map[string]struct{})
	var rawIDs []uuid.UUID
	for i := range candidates {
		c := &candidates[i]
		switch {
		case c.CampaignName != "":
			id, err := v.Resolve(c.CampaignName)
			if err != nil {
				invalid[c.CampaignName] = struct{}{}
				continue
			}
			c.CampaignID = &id
		case c.CampaignRef != "":
			id, err := uuid.Parse(c.CampaignRef)
			if err != nil {
				invalid[c.CampaignRef] = struct{}{}
				continue
			}
			c.CampaignID = &id
			rawIDs = append(rawIDs, id)
		}
	}

	if len(rawIDs) > 0 {
		owned, err := s.campaigns.OwnedIDs(readCtx, r.scoped, rawIDs)
		if err != nil {
			return s.readError(r, "Failed to verify campaigns", err)
		}
		for _, c := range candidates {
			if c.CampaignRef == "" || c.CampaignName != "" || c.CampaignID == nil {
				continue
			}
			if _, ok := owned[*c.CampaignID]; !ok {
				invalid[c.CampaignRef] = struct{}{}
			}
		}
	}

	if len(invalid) == 0 {
		return nil
	}
	names := make([]string, 0, len(invalid))
	for name := range invalid {
		names = append(names, name)
	}
	sort.Strings(names)
	e := r.reject(KindInvalidCampaign, "Unknown campaign: "+strings.Join(names, ", "), campaign.ErrUnknownCampaign)
	e.AllowedCampaigns = v.AllowedNames()
	return e
}

func (s *Service) dedupe(ctx context.Context, r *run, candidates []Candidate, keyFields []string) ([]Candidate, error) {
	r.enter(StageDeduplicated)

	readCtx, cancel := s.bound(ctx)
	defer cancel()
	stored, err := s.leads.ExistingFields(readCtx, r.scoped)
	if err != nil {
		return nil, s.readError(r, "Failed to read existing leads", err)
	}
	rows := make([]map[string]any, len(stored))
	for i, m := range stored {
		rows[i] = m
	}

	accepted := Dedupe(candidates, ExistingKeys(rows, keyFields), keyFields)
	r.log.Debug("deduplicated",
		zap.Int("candidates", len(candidates)),
		zap.Int("accepted", len(accepted)),
		zap.Int("existing", len(stored)))
	return accepted, nil
}

// enrich builds the rows to insert. The tenant is stamped from the scope by the
// store, never from the payload.
func (s *Service) enrich(r *run, accepted []Candidate) []*lead.Lead {
	now := s.now()
	rows := make([]*lead.Lead, 0, len(accepted))
	for _, c := range accepted {
		status := c.Status
		if status == "" {
			status = lead.StatusNewLead
		}
		rows = append(rows, &lead.Lead{
			TenantID:      r.tenant,
			CampaignID:    c.CampaignID,
			Name:          c.text("name"),
			Email:         c.text("email"),
			Phone:         c.text("phone"),
			Status:        status,
			StatusHistory: lead.HistoryEntry(now, status),
			Fields:        datatypes.JSONMap(c.Fields),
			DedupKey:      storedKey(c.Key),
		})
	}
	return rows
}

// insert writes rows in one transaction. It runs detached from the caller's
// cancellation so a disconnect cannot interrupt it halfway; InsertTimeout bounds it.
func (s *Service) insert(ctx context.Context, r *run, rows []*lead.Lead) (int64, error) {
	ctx = context.WithoutCancel(ctx)
	if s.opts.InsertTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.InsertTimeout)
		defer cancel()
	}

	var added int64
	err := r.scoped.Transaction(ctx, func(tx *tenant.Scoped) error {
		n, err := s.leads.InsertBatch(ctx, tx, rows)
		added = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// readError classifies a failed pre-insert read. A deadline is a rejection of the
// input, anything else is a store failure.
func (s *Service) readError(r *run, msg string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return r.reject(KindDeadline, msg, err)
	}
	return r.reject(KindStore, msg, err)
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.RequestTimeout)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
