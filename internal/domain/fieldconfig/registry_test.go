package fieldconfig

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadengage/internal/database"
	"leadengage/internal/tenant"
)

func TestSnapshot_EmptyConfig(t *testing.T) {
	snap := NewSnapshot(nil)

	assert.Empty(t, snap.Required())
	assert.Empty(t, snap.Unique())

	fields, fallback := snap.KeyFields(nil)
	assert.Equal(t, []string{DefaultKeyField}, fields)
	assert.True(t, fallback)
}

func TestSnapshot_RequiredAndUnique(t *testing.T) {
	snap := NewSnapshot([]FieldConfig{
		{FieldName: "Property_Address ", IsRequired: true, IsUnique: true},
		{FieldName: "owner_name", IsRequired: true},
		{FieldName: "email", IsUnique: true},
		{FieldName: "notes"},
	})

	assert.Equal(t, []string{"owner_name", "property_address"}, snap.Required())
	assert.Equal(t, []string{"email", "property_address"}, snap.Unique())
	assert.True(t, snap.Has("NOTES"))
	assert.False(t, snap.Has("desired_salary"))

	fields, fallback := snap.KeyFields(nil)
	assert.Equal(t, []string{"email", "property_address"}, fields)
	assert.False(t, fallback)
}

func TestSnapshot_LegacyKeyFieldsOnlyWhenConfigured(t *testing.T) {
	snap := NewSnapshot([]FieldConfig{{FieldName: "name"}, {FieldName: "phone", IsUnique: true}})

	fields, fallback := snap.KeyFields([]string{"name", "email", "property_address"})
	assert.Equal(t, []string{"name", "phone"}, fields)
	assert.False(t, fallback)
}

func TestBuildRows(t *testing.T) {
	rows, err := BuildRows(ReplaceRequest{Fields: []FieldRequest{
		{FieldName: " Email ", IsUnique: true},
		{FieldName: "owner_name", IsRequired: true},
	}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "email", rows[0].FieldName)

	_, err = BuildRows(ReplaceRequest{Fields: []FieldRequest{{FieldName: "email"}, {FieldName: "EMAIL"}}})
	assert.ErrorIs(t, err, ErrDuplicateField)

	_, err = BuildRows(ReplaceRequest{Fields: []FieldRequest{{FieldName: "tenant_id"}}})
	assert.ErrorIs(t, err, ErrReservedField)

	_, err = BuildRows(ReplaceRequest{Fields: []FieldRequest{{FieldName: "   "}}})
	assert.ErrorIs(t, err, ErrEmptyFieldName)

	_, err = BuildRows(ReplaceRequest{Fields: []FieldRequest{{FieldName: "Campaign_ID", IsUnique: true}}})
	assert.ErrorIs(t, err, ErrUnkeyableField)

	rows, err = BuildRows(ReplaceRequest{Fields: []FieldRequest{{FieldName: "status", IsRequired: true}}})
	require.NoError(t, err)
	assert.Equal(t, "status", rows[0].FieldName)
}

func TestSnapshot_UnkeyableFieldsNeverJoinKey(t *testing.T) {
	snap := NewSnapshot([]FieldConfig{{FieldName: "status", IsUnique: true}, {FieldName: "campaign"}})

	fields, fallback := snap.KeyFields([]string{"campaign"})
	assert.Equal(t, []string{DefaultKeyField}, fields)
	assert.True(t, fallback)

	snap = NewSnapshot([]FieldConfig{{FieldName: "status", IsUnique: true}, {FieldName: "email", IsUnique: true}})
	fields, fallback = snap.KeyFields(nil)
	assert.Equal(t, []string{"email"}, fields)
	assert.False(t, fallback)
}

func TestRepository_ReplaceIsTenantScoped(t *testing.T) {
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &FieldConfig{}))
	store := tenant.NewStore(db)
	repo := NewRepository()
	registry := NewRegistry(repo)
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	scopedA := scopedFor(t, store, a)
	scopedB := scopedFor(t, store, b)

	require.NoError(t, repo.Replace(ctx, scopedB, []*FieldConfig{{FieldName: "desired_salary", IsRequired: true}}))
	require.NoError(t, repo.Replace(ctx, scopedA, []*FieldConfig{{FieldName: "property_address", IsRequired: true}}))
	require.NoError(t, repo.Replace(ctx, scopedA, []*FieldConfig{
		{FieldName: "owner_name", IsRequired: true},
		{FieldName: "email", IsUnique: true},
	}))

	required, err := registry.RequiredFields(ctx, scopedA)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner_name"}, required)

	unique, err := registry.UniqueFields(ctx, scopedA)
	require.NoError(t, err)
	assert.Equal(t, []string{"email"}, unique)

	required, err = registry.RequiredFields(ctx, scopedB)
	require.NoError(t, err)
	assert.Equal(t, []string{"desired_salary"}, required)
}

func TestRepository_ReplaceNeedsTenant(t *testing.T) {
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &FieldConfig{}))
	rc, err := tenant.NewRequestContext(tenant.Principal{Role: tenant.RoleGlobalAdmin})
	require.NoError(t, err)
	scoped, err := tenant.NewStore(db).Scoped(rc)
	require.NoError(t, err)

	err = NewRepository().Replace(context.Background(), scoped, []*FieldConfig{{FieldName: "x"}})
	assert.ErrorIs(t, err, tenant.ErrTenantRequired)
}

func scopedFor(t *testing.T, store *tenant.Store, id uuid.UUID) *tenant.Scoped {
	t.Helper()
	rc, err := tenant.NewRequestContext(tenant.Principal{Role: tenant.RoleBusinessAdmin, TenantID: &id})
	require.NoError(t, err)
	scoped, err := store.Scoped(rc)
	require.NoError(t, err)
	return scoped
}
