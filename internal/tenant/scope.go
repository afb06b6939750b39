package tenant

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is the tenant ownership column every scoped table carries.
const Column = "tenant_id"

// WithScope returns a gorm scope applying f to one table. NoFilter leaves the query
// untouched, Restricted adds tenant_id = ?, and the invalid filter fails the statement.
func WithScope(f Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch f.kind {
		case filterNone:
			return db
		case filterRestricted:
			return db.Where(clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: Column},
				Value:  f.tenantID,
			})
		default:
			_ = db.AddError(ErrNoTenantConfigured)
			return db
		}
	}
}

// Store owns the database handle. Tenant tables are only reachable through Scoped.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Scoped binds the store to the filter of rc.
func (s *Store) Scoped(rc *RequestContext) (*Scoped, error) {
	if rc == nil {
		return nil, ErrNoRequestContext
	}
	if !rc.filter.Valid() {
		return nil, ErrNoTenantConfigured
	}
	return &Scoped{db: s.db, filter: rc.filter}, nil
}

// Bootstrap exposes the raw handle for identity lookups that run before any
// RequestContext exists (profile by subject id) and for migrations.
func (s *Store) Bootstrap() *gorm.DB {
	return s.db
}

// Scoped is a store handle whose every query carries the tenant predicate.
type Scoped struct {
	db     *gorm.DB
	filter Filter
}

func (s *Scoped) Filter() Filter { return s.filter }

// Query starts a statement against the table of model with the scope applied.
func (s *Scoped) Query(ctx context.Context, model any) *gorm.DB {
	return s.db.WithContext(ctx).Model(model).Scopes(WithScope(s.filter))
}

// Transaction runs fn with a Scoped bound to one database transaction.
func (s *Scoped) Transaction(ctx context.Context, fn func(tx *Scoped) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Scoped{db: tx, filter: s.filter})
	})
}

// Owned is implemented by rows that carry a tenant id.
type Owned interface {
	AssignTenant(id uuid.UUID)
}

// Insert stamps the scoped tenant on every row and writes them in batches. Only a
// restricted scope can write: the tenant always comes from the RequestContext.
func Insert[T Owned](ctx context.Context, s *Scoped, rows []T, batchSize int, exprs ...clause.Expression) (int64, error) {
	tenantID, ok := s.filter.TenantID()
	if !ok {
		if !s.filter.Valid() {
			return 0, ErrNoTenantConfigured
		}
		return 0, ErrTenantRequired
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, row := range rows {
		row.AssignTenant(tenantID)
	}
	if batchSize <= 0 {
		batchSize = len(rows)
	}

	tx := s.db.WithContext(ctx)
	if len(exprs) > 0 {
		tx = tx.Clauses(exprs...)
	}
	res := tx.CreateInBatches(rows, batchSize)
	return res.RowsAffected, res.Error
}
