package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/clock"
	"github.com/hudumahub/huduma/internal/quota/domain"
	"github.com/hudumahub/huduma/internal/quota/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRecordViewIdempotent(t *testing.T) {
	node := mustNode(t)
	clientID := node.Generate()
	providerID := node.Generate()

	svc, db, _ := setupQuotaService(t, node)
	ctx := context.Background()

	first, err := svc.RecordView(ctx, clientID, providerID)
	if err != nil {
		t.Fatalf("record first view: %v", err)
	}
	if !first.IsNewView {
		t.Fatalf("expected first view to be new")
	}

	second, err := svc.RecordView(ctx, clientID, providerID)
	if err != nil {
		t.Fatalf("record second view: %v", err)
	}
	if second.IsNewView {
		t.Fatalf("expected repeat view to not be new")
	}
	if first.Record.ID != second.Record.ID {
		t.Fatalf("expected stored record to be returned, got %s vs %s", first.Record.ID, second.Record.ID)
	}

	if count := countViewRecords(t, db); count != 1 {
		t.Fatalf("expected 1 view record, got %d", count)
	}

	views, err := svc.CountDistinctViewsToday(ctx, clientID)
	if err != nil {
		t.Fatalf("count views: %v", err)
	}
	if views != 1 {
		t.Fatalf("expected 1 distinct view, got %d", views)
	}
}

func TestRecordViewDistinctProviders(t *testing.T) {
	node := mustNode(t)
	clientID := node.Generate()

	svc, _, _ := setupQuotaService(t, node)
	ctx := context.Background()

	providers := []snowflake.ID{node.Generate(), node.Generate(), node.Generate()}
	for _, providerID := range providers {
		if _, err := svc.RecordView(ctx, clientID, providerID); err != nil {
			t.Fatalf("record view: %v", err)
		}
	}
	// Re-view each provider; none should consume more quota.
	for _, providerID := range providers {
		result, err := svc.RecordView(ctx, clientID, providerID)
		if err != nil {
			t.Fatalf("repeat view: %v", err)
		}
		if result.IsNewView {
			t.Fatalf("expected repeat view of %s to not be new", providerID)
		}
	}

	views, err := svc.CountDistinctViewsToday(ctx, clientID)
	if err != nil {
		t.Fatalf("count views: %v", err)
	}
	if views != 3 {
		t.Fatalf("expected 3 distinct views, got %d", views)
	}
}

func TestRecordViewConcurrent(t *testing.T) {
	node := mustNode(t)
	clientID := node.Generate()
	providerID := node.Generate()

	svc, db, _ := setupQuotaService(t, node)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan domain.RecordViewResult, 20)
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.RecordView(ctx, clientID, providerID)
			results <- result
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent record view: %v", err)
		}
	}

	newViews := 0
	for result := range results {
		if result.IsNewView {
			newViews++
		}
	}
	if newViews != 1 {
		t.Fatalf("expected exactly 1 new view across concurrent calls, got %d", newViews)
	}
	if count := countViewRecords(t, db); count != 1 {
		t.Fatalf("expected 1 view record, got %d", count)
	}
}

func TestQuotaResetsAcrossDayBoundary(t *testing.T) {
	node := mustNode(t)
	clientID := node.Generate()
	providerID := node.Generate()

	svc, db, clk := setupQuotaService(t, node)
	ctx := context.Background()

	if _, err := svc.RecordView(ctx, clientID, providerID); err != nil {
		t.Fatalf("record view: %v", err)
	}

	clk.Advance(24 * time.Hour)

	result, err := svc.RecordView(ctx, clientID, providerID)
	if err != nil {
		t.Fatalf("record view next day: %v", err)
	}
	if !result.IsNewView {
		t.Fatalf("expected next-day view to be new")
	}
	if count := countViewRecords(t, db); count != 2 {
		t.Fatalf("expected 2 view records across days, got %d", count)
	}

	views, err := svc.CountDistinctViewsToday(ctx, clientID)
	if err != nil {
		t.Fatalf("count views: %v", err)
	}
	if views != 1 {
		t.Fatalf("expected quota to reset to 1 distinct view, got %d", views)
	}
}

func TestHasViewedToday(t *testing.T) {
	node := mustNode(t)
	clientID := node.Generate()
	providerID := node.Generate()

	svc, _, clk := setupQuotaService(t, node)
	ctx := context.Background()

	viewed, err := svc.HasViewedToday(ctx, clientID, providerID)
	if err != nil {
		t.Fatalf("has viewed: %v", err)
	}
	if viewed {
		t.Fatalf("expected no view yet")
	}

	if _, err := svc.RecordView(ctx, clientID, providerID); err != nil {
		t.Fatalf("record view: %v", err)
	}

	viewed, err = svc.HasViewedToday(ctx, clientID, providerID)
	if err != nil {
		t.Fatalf("has viewed: %v", err)
	}
	if !viewed {
		t.Fatalf("expected view to be visible today")
	}

	clk.Advance(24 * time.Hour)
	viewed, err = svc.HasViewedToday(ctx, clientID, providerID)
	if err != nil {
		t.Fatalf("has viewed: %v", err)
	}
	if viewed {
		t.Fatalf("expected yesterday's view to not count today")
	}
}

func setupQuotaService(t *testing.T, node *snowflake.Node) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error
	prepareQuotaSchema(t, db)

	clk := clock.NewFakeClock(time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC))
	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})

	return svc, db, clk
}

func prepareQuotaSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE view_records (
		id BIGINT PRIMARY KEY,
		client_id BIGINT NOT NULL,
		provider_id BIGINT NOT NULL,
		view_day TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create view_records: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX uidx_view_records_day
		ON view_records (client_id, provider_id, view_day)`).Error; err != nil {
		t.Fatalf("create view_records index: %v", err)
	}
}

func countViewRecords(t *testing.T, db *gorm.DB) int {
	t.Helper()
	var count int
	if err := db.Raw(`SELECT COUNT(1) FROM view_records`).Scan(&count).Error; err != nil {
		t.Fatalf("count view records: %v", err)
	}
	return count
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}
