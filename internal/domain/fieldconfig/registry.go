package fieldconfig

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"leadengage/internal/tenant"
)

// DefaultKeyField is the dedup identity used when a tenant marks no field unique.
// Display names are not reliably unique, so callers surface KeyFallback.
const DefaultKeyField = "name"

// Reserved names are system fields a tenant cannot declare.
var Reserved = map[string]struct{}{
	"id":             {},
	"tenant_id":      {},
	"status_history": {},
	"dedup_key":      {},
	"created_at":     {},
	"updated_at":     {},
}

// Unkeyable names are read into dedicated lead columns on ingestion and never
// reach the stored field set, so they cannot identify a lead.
var Unkeyable = map[string]struct{}{
	"status":        {},
	"campaign":      {},
	"campaign_name": {},
	"campaign_id":   {},
}

// NormalizeName lower-cases and trims a field name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Snapshot is a read-only view of one tenant's field configuration.
type Snapshot struct {
	fields   map[string]FieldConfig
	required []string
	unique   []string
}

func NewSnapshot(rows []FieldConfig) *Snapshot {
	s := &Snapshot{fields: make(map[string]FieldConfig, len(rows))}
	for _, row := range rows {
		name := NormalizeName(row.FieldName)
		if name == "" {
			continue
		}
		row.FieldName = name
		s.fields[name] = row
	}
	for name, row := range s.fields {
		if row.IsRequired {
			s.required = append(s.required, name)
		}
		if row.IsUnique {
			s.unique = append(s.unique, name)
		}
	}
	sort.Strings(s.required)
	sort.Strings(s.unique)
	return s
}

// Required returns the sorted required field names. Empty means no requirement
// beyond system defaults.
func (s *Snapshot) Required() []string {
	return append([]string(nil), s.required...)
}

func (s *Snapshot) Unique() []string {
	return append([]string(nil), s.unique...)
}

func (s *Snapshot) Has(name string) bool {
	_, ok := s.fields[NormalizeName(name)]
	return ok
}

// KeyFields returns the dedup identity fields in a fixed order. legacy names are
// included when the tenant configures them. With nothing selected the identity
// falls back to DefaultKeyField and fallback is true.
func (s *Snapshot) KeyFields(legacy []string) (fields []string, fallback bool) {
	set := make(map[string]struct{}, len(s.unique)+len(legacy))
	for _, name := range s.unique {
		if _, skip := Unkeyable[name]; !skip {
			set[name] = struct{}{}
		}
	}
	for _, name := range legacy {
		name = NormalizeName(name)
		if _, skip := Unkeyable[name]; skip {
			continue
		}
		if s.Has(name) {
			set[name] = struct{}{}
		}
	}
	if len(set) == 0 {
		return []string{DefaultKeyField}, true
	}
	for name := range set {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields, false
}

type lister interface {
	List(ctx context.Context, s *tenant.Scoped) ([]FieldConfig, error)
}

// Registry loads tenant field configuration through the scoped store.
type Registry struct {
	repo lister
}

func NewRegistry(repo lister) *Registry {
	return &Registry{repo: repo}
}

func (r *Registry) Load(ctx context.Context, s *tenant.Scoped) (*Snapshot, error) {
	rows, err := r.repo.List(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("load field config: %w", err)
	}
	return NewSnapshot(rows), nil
}

func (r *Registry) RequiredFields(ctx context.Context, s *tenant.Scoped) ([]string, error) {
	snap, err := r.Load(ctx, s)
	if err != nil {
		return nil, err
	}
	return snap.Required(), nil
}

func (r *Registry) UniqueFields(ctx context.Context, s *tenant.Scoped) ([]string, error) {
	snap, err := r.Load(ctx, s)
	if err != nil {
		return nil, err
	}
	return snap.Unique(), nil
}

// BuildRows validates a replacement request and converts it to rows.
func BuildRows(req ReplaceRequest) ([]*FieldConfig, error) {
	seen := make(map[string]struct{}, len(req.Fields))
	rows := make([]*FieldConfig, 0, len(req.Fields))
	for _, f := range req.Fields {
		name := NormalizeName(f.FieldName)
		if name == "" {
			return nil, ErrEmptyFieldName
		}
		if _, ok := Reserved[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrReservedField, name)
		}
		if _, ok := Unkeyable[name]; ok && f.IsUnique {
			return nil, fmt.Errorf("%w: %s", ErrUnkeyableField, name)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, name)
		}
		seen[name] = struct{}{}
		rows = append(rows, &FieldConfig{FieldName: name, IsRequired: f.IsRequired, IsUnique: f.IsUnique})
	}
	return rows, nil
}
