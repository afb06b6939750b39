package campaign

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

func setupRepo(t *testing.T) (*tenant.Store, *Repository) {
	t.Helper()
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &Campaign{}))
	return tenant.NewStore(db), NewRepository()
}

func scopedFor(t *testing.T, store *tenant.Store, p tenant.Principal) *tenant.Scoped {
	t.Helper()
	rc, err := tenant.NewRequestContext(p)
	require.NoError(t, err)
	s, err := store.Scoped(rc)
	require.NoError(t, err)
	return s
}

func TestRepository_CampaignsAreTenantScoped(t *testing.T) {
	store, repo := setupRepo(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	sa := scopedFor(t, store, tenant.Principal{Role: tenant.RoleBusinessAdmin, TenantID: &a})
	sb := scopedFor(t, store, tenant.Principal{Role: tenant.RoleBusinessAdmin, TenantID: &b})

	q1 := &Campaign{Name: "Q1", IsActive: true}
	require.NoError(t, repo.Create(ctx, sa, q1))
	require.NoError(t, repo.Create(ctx, sa, &Campaign{Name: "Paused", IsActive: false}))
	theirs := &Campaign{Name: "Q1", IsActive: true}
	require.NoError(t, repo.Create(ctx, sb, theirs))

	active, err := repo.ListActive(ctx, sa)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, q1.ID, active[0].ID)
	assert.Equal(t, a, active[0].TenantID)

	all, err := repo.List(ctx, sa, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	owned, err := repo.OwnedIDs(ctx, sa, []uuid.UUID{q1.ID, theirs.ID})
	require.NoError(t, err)
	assert.Contains(t, owned, q1.ID)
	assert.NotContains(t, owned, theirs.ID)
}

func TestRepository_DuplicateName(t *testing.T) {
	store, repo := setupRepo(t)
	ctx := context.Background()
	a := uuid.New()
	sa := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})

	require.NoError(t, repo.Create(ctx, sa, &Campaign{Name: "Q1", IsActive: true}))
	err := repo.Create(ctx, sa, &Campaign{Name: "Q1", IsActive: true})
	assert.ErrorIs(t, err, ErrNameExists)
}

func TestRepository_SetActiveOutsideScope(t *testing.T) {
	store, repo := setupRepo(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	sa := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})
	sb := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &b})

	camp := &Campaign{Name: "Q1", IsActive: true}
	require.NoError(t, repo.Create(ctx, sa, camp))

	_, err := repo.SetActive(ctx, sb, camp.ID, false)
	assert.ErrorIs(t, err, ErrCampaignNotFound)

	updated, err := repo.SetActive(ctx, sa, camp.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	global := scopedFor(t, store, tenant.Principal{Role: tenant.RoleGlobalAdmin})
	all, err := repo.List(ctx, global, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
