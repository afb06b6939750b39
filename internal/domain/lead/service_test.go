package lead

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"leadengage/internal/database"
	"leadengage/internal/tenant"
)

func setupService(t *testing.T) (*tenant.Store, *Service) {
	t.Helper()
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &Lead{}))
	return tenant.NewStore(db), NewService(NewRepository(), time.Second)
}

func scopedFor(t *testing.T, store *tenant.Store, p tenant.Principal) *tenant.Scoped {
	t.Helper()
	rc, err := tenant.NewRequestContext(p)
	require.NoError(t, err)
	s, err := store.Scoped(rc)
	require.NoError(t, err)
	return s
}

func newLead(name, status string, key *string) *Lead {
	return &Lead{
		Name:          name,
		Status:        status,
		StatusHistory: HistoryEntry(time.Now(), status),
		Fields:        datatypes.JSONMap{"name": name},
		DedupKey:      key,
	}
}

func strPtr(s string) *string { return &s }

func TestInsertBatch_SkipsExistingKeys(t *testing.T) {
	store, svc := setupService(t)
	ctx := context.Background()
	a := uuid.New()
	s := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})

	added, err := svc.repo.InsertBatch(ctx, s, []*Lead{
		newLead("Ann", StatusNewLead, strPtr("ann")),
		newLead("Bob", StatusNewLead, strPtr("bob")),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), added)

	added, err = svc.repo.InsertBatch(ctx, s, []*Lead{
		newLead("Ann", StatusNewLead, strPtr("ann")),
		newLead("Carl", StatusNewLead, strPtr("carl")),
		newLead("", StatusNewLead, nil),
		newLead("", StatusNewLead, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), added)

	out, err := svc.List(ctx, s, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Total)
}

func TestInsertBatch_SameKeyOtherTenant(t *testing.T) {
	store, svc := setupService(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	sa := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})
	sb := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &b})

	_, err := svc.repo.InsertBatch(ctx, sa, []*Lead{newLead("Ann", StatusNewLead, strPtr("ann"))})
	require.NoError(t, err)
	added, err := svc.repo.InsertBatch(ctx, sb, []*Lead{newLead("Ann", StatusNewLead, strPtr("ann"))})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)
}

func TestUpdateStatus_AppendsHistoryOnChange(t *testing.T) {
	store, svc := setupService(t)
	ctx := context.Background()
	a := uuid.New()
	s := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})

	l := newLead("Ann", StatusNewLead, strPtr("ann"))
	_, err := svc.repo.InsertBatch(ctx, s, []*Lead{l})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }

	updated, err := svc.UpdateStatus(ctx, s, l.ID, "Contacted")
	require.NoError(t, err)
	assert.Equal(t, "Contacted", updated.Status)
	assert.Equal(t, "Contacted", LastStatus(updated.StatusHistory))

	again, err := svc.UpdateStatus(ctx, s, l.ID, "Contacted")
	require.NoError(t, err)
	assert.Equal(t, updated.StatusHistory, again.StatusHistory)

	stored, err := svc.Get(ctx, s, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contacted", stored.Status)
	assert.Contains(t, stored.StatusHistory, "\n2024-05-06: Contacted")
	assert.Equal(t, stored.Status, LastStatus(stored.StatusHistory))
}

func TestUpdateStatus_StalePreviousStatus(t *testing.T) {
	store, svc := setupService(t)
	ctx := context.Background()
	a := uuid.New()
	s := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})

	l := newLead("Ann", StatusNewLead, nil)
	_, err := svc.repo.InsertBatch(ctx, s, []*Lead{l})
	require.NoError(t, err)

	err = svc.repo.UpdateStatus(ctx, s, l.ID, "Qualified", "Lost", "x", time.Now())
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestUpdateStatus_EmptyStatus(t *testing.T) {
	store, svc := setupService(t)
	a := uuid.New()
	s := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})

	_, err := svc.UpdateStatus(context.Background(), s, uuid.New(), "  ")
	assert.ErrorIs(t, err, ErrEmptyStatus)
}

func TestLeadsInvisibleAcrossTenants(t *testing.T) {
	store, svc := setupService(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	sa := scopedFor(t, store, tenant.Principal{Role: tenant.RoleBusinessAdmin, TenantID: &a})
	sb := scopedFor(t, store, tenant.Principal{Role: tenant.RoleBusinessAdmin, TenantID: &b})

	l := newLead("Ann", StatusNewLead, nil)
	_, err := svc.repo.InsertBatch(ctx, sa, []*Lead{l})
	require.NoError(t, err)

	_, err = svc.Get(ctx, sb, l.ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)
	_, err = svc.UpdateStatus(ctx, sb, l.ID, "Lost")
	assert.ErrorIs(t, err, ErrLeadNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, sb, l.ID), ErrLeadNotFound)

	out, err := svc.List(ctx, sb, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, out.Leads)

	require.NoError(t, svc.Delete(ctx, sa, l.ID))
}

func TestListAndStats(t *testing.T) {
	store, svc := setupService(t)
	ctx := context.Background()
	a := uuid.New()
	s := scopedFor(t, store, tenant.Principal{Role: tenant.RoleUser, TenantID: &a})
	camp := uuid.New()

	withCampaign := newLead("Ann", "Qualified", nil)
	withCampaign.CampaignID = &camp
	_, err := svc.repo.InsertBatch(ctx, s, []*Lead{
		withCampaign,
		newLead("Bob", StatusNewLead, nil),
		newLead("Cy", StatusNewLead, nil),
	})
	require.NoError(t, err)

	out, err := svc.List(ctx, s, ListFilter{Status: StatusNewLead})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)

	out, err = svc.List(ctx, s, ListFilter{CampaignID: &camp})
	require.NoError(t, err)
	require.Len(t, out.Leads, 1)
	assert.Equal(t, "Ann", out.Leads[0].Name)

	out, err = svc.List(ctx, s, ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, out.Leads, 1)
	assert.Equal(t, int64(3), out.Total)

	stats, err := svc.Stats(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus[StatusNewLead])
	assert.Equal(t, int64(1), stats.ByStatus["Qualified"])
}
