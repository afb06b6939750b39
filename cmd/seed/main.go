package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"leadengage/internal/config"
	"leadengage/internal/database"
	"leadengage/internal/domain/campaign"
	"leadengage/internal/domain/fieldconfig"
	"leadengage/internal/domain/lead"
	"leadengage/internal/domain/session"
	jwtsvc "leadengage/internal/pkg/jwt"
	"leadengage/internal/pkg/logger"
	"leadengage/internal/tenant"
)

var (
	realtyID   = uuid.MustParse("6f1c2f1e-0000-4000-8000-000000000001")
	staffingID = uuid.MustParse("6f1c2f1e-0000-4000-8000-000000000002")
)

type seedProfile struct {
	id     uuid.UUID
	email  string
	role   tenant.Role
	tenant *uuid.UUID
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zlog, err := logger.New(cfg.LogLevel, "console", "leadengage-seed")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("DB connection failed", zap.Error(err))
	}
	if err := database.Migrate(db,
		&session.Organization{},
		&session.Profile{},
		&fieldconfig.FieldConfig{},
		&campaign.Campaign{},
		&lead.Lead{},
	); err != nil {
		zlog.Fatal("AutoMigrate failed", zap.Error(err))
	}

	ctx := context.Background()
	store := tenant.NewStore(db)

	// ================== TENANTS ==================
	orgs := []session.Organization{
		{ID: realtyID, Name: "Harbor Realty"},
		{ID: staffingID, Name: "Northwind Staffing"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&orgs).Error; err != nil {
		zlog.Fatal("create organizations", zap.Error(err))
	}

	// ================== PROFILES ==================
	profiles := []seedProfile{
		{uuid.MustParse("6f1c2f1e-0000-4000-8000-000000000010"), "root@leadengage.dev", tenant.RoleGlobalAdmin, nil},
		{uuid.MustParse("6f1c2f1e-0000-4000-8000-000000000011"), "owner@harbor.dev", tenant.RoleEnterpriseAdmin, &realtyID},
		{uuid.MustParse("6f1c2f1e-0000-4000-8000-000000000012"), "agent@harbor.dev", tenant.RoleUser, &realtyID},
		{uuid.MustParse("6f1c2f1e-0000-4000-8000-000000000013"), "admin@northwind.dev", tenant.RoleBusinessAdmin, &staffingID},
		{uuid.MustParse("6f1c2f1e-0000-4000-8000-000000000014"), "orphan@northwind.dev", tenant.RoleBusinessAdmin, nil},
	}
	for _, p := range profiles {
		row := session.Profile{ID: p.id, Email: p.email, Role: string(p.role), TenantID: p.tenant}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			zlog.Fatal("create profile", zap.String("email", p.email), zap.Error(err))
		}
	}

	// ================== TENANT CONFIG ==================
	seedTenant(ctx, zlog, store, realtyID,
		[]string{"Spring Open House", "Q1", "Q2"},
		[]*fieldconfig.FieldConfig{
			{FieldName: "name", IsRequired: true},
			{FieldName: "email", IsUnique: true},
			{FieldName: "property_address", IsRequired: true},
		})
	seedTenant(ctx, zlog, store, staffingID,
		[]string{"Career Fair"},
		[]*fieldconfig.FieldConfig{
			{FieldName: "name", IsRequired: true},
			{FieldName: "desired_salary", IsRequired: true},
		})

	// ================== TOKENS ==================
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTIssuer, 30*24*time.Hour)
	fmt.Println("Development bearer tokens:")
	for _, p := range profiles {
		tok, err := tokens.GenerateToken(p.id.String(), p.email)
		if err != nil {
			zlog.Fatal("sign token", zap.Error(err))
		}
		fmt.Printf("  %-22s %-16s %s\n", p.email, p.role, tok)
	}
	zlog.Info("seed completed")
}

func seedTenant(ctx context.Context, zlog *zap.Logger, store *tenant.Store, id uuid.UUID, campaigns []string, fields []*fieldconfig.FieldConfig) {
	rc, err := tenant.NewRequestContext(tenant.Principal{Role: tenant.RoleBusinessAdmin, TenantID: &id})
	if err != nil {
		zlog.Fatal("seed context", zap.Error(err))
	}
	scoped, err := store.Scoped(rc)
	if err != nil {
		zlog.Fatal("seed scope", zap.Error(err))
	}

	repo := campaign.NewRepository()
	for _, name := range campaigns {
		err := repo.Create(ctx, scoped, &campaign.Campaign{Name: name, IsActive: true})
		if err != nil && !errors.Is(err, campaign.ErrNameExists) {
			zlog.Fatal("create campaign", zap.String("name", name), zap.Error(err))
		}
	}
	if err := fieldconfig.NewRepository().Replace(ctx, scoped, fields); err != nil {
		zlog.Fatal("replace field config", zap.Error(err))
	}
	zlog.Info("tenant seeded", zap.String("tenant", id.String()), zap.Int("campaigns", len(campaigns)))
}
