//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
	"hospital-asset/backend/pkg/database"
	pkgerrors "hospital-asset/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var (
	testDB   *gorm.DB
	testRepo *repository.Repository
)

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=hospital_asset_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	testRepo = repository.NewRepository(testDB)

	code := m.Run()
	os.Exit(code)
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func createUser(t *testing.T, dept string) *model.User {
	t.Helper()
	name := uniq("user")
	u := &model.User{
		Username:   name,
		Email:      name + "@hospital.test",
		Role:       model.RoleRegular,
		Department: dept,
	}
	if err := testRepo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	t.Cleanup(func() { testDB.Where("id = ?", u.ID).Delete(&model.User{}) })
	return u
}

func createAsset(t *testing.T, dept string, assignee *int64) *model.Asset {
	t.Helper()
	a := &model.Asset{
		Name:           "Infusion Pump",
		Type:           model.AssetTypeMedicalEquipment,
		Department:     dept,
		Location:       "Bay 3",
		SerialNumber:   uniq("SN"),
		PurchaseDate:   time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:         model.AssetStatusActive,
		AssignedUserID: assignee,
	}
	if err := testRepo.Asset.Create(context.Background(), a); err != nil {
		t.Fatalf("创建资产失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("asset_id = ?", a.ID).Delete(&model.RepairRequest{})
		testDB.Where("asset_id = ?", a.ID).Delete(&model.RepairHistory{})
		testDB.Where("asset_id = ?", a.ID).Delete(&model.MaintenanceSchedule{})
		testDB.Where("id = ?", a.ID).Delete(&model.Asset{})
	})
	return a
}

// ═══════════════════════════════════════════════════════════
// Asset
// ═══════════════════════════════════════════════════════════

func TestAssetRepo_DuplicateSerial(t *testing.T) {
	ctx := context.Background()
	a := createAsset(t, uniq("ICU"), nil)

	dup := *a
	dup.ID = 0
	err := testRepo.Asset.Create(ctx, &dup)

	var dupErr *pkgerrors.DuplicateKeyError
	if !errors.As(err, &dupErr) {
		t.Fatalf("期望 DuplicateKeyError，实际=%v", err)
	}
	if dupErr.Constraint != model.ConstraintAssetsSerialNumber {
		t.Errorf("期望约束=%s，实际=%s", model.ConstraintAssetsSerialNumber, dupErr.Constraint)
	}
}

func TestAssetRepo_UpdateClearsAssignment(t *testing.T) {
	ctx := context.Background()
	dept := uniq("ICU")
	u := createUser(t, dept)
	a := createAsset(t, dept, &u.ID)

	err := testRepo.Asset.Update(ctx, a.ID, map[string]interface{}{
		"assigned_user_id": nil,
		"updated_at":       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	got, err := testRepo.Asset.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got.AssignedUserID != nil {
		t.Errorf("期望 assigned_user_id=nil，实际=%d", *got.AssignedUserID)
	}
	if !got.UpdatedAt.After(a.UpdatedAt) {
		t.Error("updated_at 应前进")
	}
}

func TestAssetRepo_UpdateMissing(t *testing.T) {
	err := testRepo.Asset.Update(context.Background(), -1, map[string]interface{}{"name": "x"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际=%v", err)
	}
}

func TestAssetRepo_DeleteMissingReturnsFalse(t *testing.T) {
	removed, err := testRepo.Asset.Delete(context.Background(), -1)
	if err != nil {
		t.Fatalf("删除不存在的记录不应报错: %v", err)
	}
	if removed {
		t.Error("期望 removed=false")
	}
}

func TestAssetRepo_DeleteReferenced(t *testing.T) {
	ctx := context.Background()
	a := createAsset(t, uniq("ICU"), nil)

	ms := &model.MaintenanceSchedule{
		AssetID:         a.ID,
		ScheduledDate:   time.Now().UTC(),
		MaintenanceType: "calibration",
		Status:          model.MaintenanceScheduled,
	}
	if err := testRepo.MaintenanceSchedule.Create(ctx, ms); err != nil {
		t.Fatalf("创建保养计划失败: %v", err)
	}

	_, err := testRepo.Asset.Delete(ctx, a.ID)
	var fkErr *pkgerrors.ForeignKeyError
	if !errors.As(err, &fkErr) {
		t.Fatalf("期望 ForeignKeyError，实际=%v", err)
	}
}

func TestAssetRepo_ListAndGroup(t *testing.T) {
	ctx := context.Background()
	dept := uniq("Radiology")
	u := createUser(t, dept)
	createAsset(t, dept, &u.ID)
	createAsset(t, dept, nil)

	byDept, err := testRepo.Asset.List(ctx, repository.AssetFilter{Department: &dept})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(byDept) != 2 {
		t.Errorf("期望部门下 2 条，实际=%d", len(byDept))
	}

	byUser, err := testRepo.Asset.List(ctx, repository.AssetFilter{AssignedUserID: &u.ID})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(byUser) != 1 {
		t.Errorf("期望分配给用户 1 条，实际=%d", len(byUser))
	}

	groups, err := testRepo.Asset.CountGroupedBy(ctx, repository.AssetGroupByDepartment)
	if err != nil {
		t.Fatalf("CountGroupedBy 失败: %v", err)
	}
	if groups[dept] != 2 {
		t.Errorf("期望 %s=2，实际=%d", dept, groups[dept])
	}
}

// ═══════════════════════════════════════════════════════════
// Maintenance / RepairHistory / RepairRequest
// ═══════════════════════════════════════════════════════════

func TestMaintenanceRepo_CountDue(t *testing.T) {
	ctx := context.Background()
	a := createAsset(t, uniq("ICU"), nil)
	now := time.Now().UTC()

	before, err := testRepo.MaintenanceSchedule.CountDue(ctx, now)
	if err != nil {
		t.Fatalf("CountDue 失败: %v", err)
	}

	ms := &model.MaintenanceSchedule{
		AssetID:         a.ID,
		ScheduledDate:   now.Add(-48 * time.Hour),
		MaintenanceType: "filter change",
		Status:          model.MaintenanceScheduled,
	}
	if err := testRepo.MaintenanceSchedule.Create(ctx, ms); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	after, _ := testRepo.MaintenanceSchedule.CountDue(ctx, now)
	if after != before+1 {
		t.Errorf("期望 due 增加 1，before=%d after=%d", before, after)
	}

	err = testRepo.MaintenanceSchedule.Update(ctx, ms.ID, map[string]interface{}{
		"status":         model.MaintenanceCompleted,
		"completed_date": now,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	final, _ := testRepo.MaintenanceSchedule.CountDue(ctx, now)
	if final != before {
		t.Errorf("完成后不应计入 due，before=%d final=%d", before, final)
	}
}

func TestRepairHistoryRepo_OrderAndPrecision(t *testing.T) {
	ctx := context.Background()
	a := createAsset(t, uniq("ICU"), nil)

	older := &model.RepairHistory{
		AssetID: a.ID, RepairDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "seal", Cost: decimal.RequireFromString("12.50"), Technician: "lee",
	}
	newer := &model.RepairHistory{
		AssetID: a.ID, RepairDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: "motor", Cost: decimal.RequireFromString("300.05"), Technician: "kim",
	}
	for _, rec := range []*model.RepairHistory{older, newer} {
		if err := testRepo.RepairHistory.Create(ctx, rec); err != nil {
			t.Fatalf("创建失败: %v", err)
		}
	}

	list, err := testRepo.RepairHistory.ListByAsset(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByAsset 失败: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Fatalf("期望最新记录在前，实际=%+v", list)
	}
	if !list[0].Cost.Equal(decimal.RequireFromString("300.05")) {
		t.Errorf("金额精度丢失: %s", list[0].Cost)
	}
}

func TestRepairRequestRepo_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	dept := uniq("ICU")
	u := createUser(t, dept)
	a := createAsset(t, dept, nil)

	notes := "waiting for parts"
	req := &model.RepairRequest{
		AssetID:           a.ID,
		RequestedByUserID: u.ID,
		Description:       "leaking",
		Priority:          "high",
		Status:            model.RepairPending,
		RequestedDate:     time.Now().UTC(),
		AdminNotes:        &notes,
	}
	if err := testRepo.RepairRequest.Create(ctx, req); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := testRepo.RepairRequest.Update(ctx, req.ID, map[string]interface{}{"status": model.RepairInProgress}); err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	got, err := testRepo.RepairRequest.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got.Status != model.RepairInProgress {
		t.Errorf("期望 in_progress，实际=%s", got.Status)
	}
	if got.AdminNotes == nil || *got.AdminNotes != notes {
		t.Errorf("admin_notes 不应被改动: %v", got.AdminNotes)
	}

	mine, err := testRepo.RepairRequest.ListByUser(ctx, u.ID)
	if err != nil || len(mine) != 1 {
		t.Errorf("期望用户工单 1 条，实际=%d err=%v", len(mine), err)
	}
}

func TestRepairRequestRepo_MissingUserForeignKey(t *testing.T) {
	ctx := context.Background()
	a := createAsset(t, uniq("ICU"), nil)

	err := testRepo.RepairRequest.Create(ctx, &model.RepairRequest{
		AssetID:           a.ID,
		RequestedByUserID: -1,
		Description:       "x",
		Priority:          "low",
		Status:            model.RepairPending,
		RequestedDate:     time.Now().UTC(),
	})
	var fkErr *pkgerrors.ForeignKeyError
	if !errors.As(err, &fkErr) {
		t.Fatalf("期望 ForeignKeyError，实际=%v", err)
	}
}
