package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
)

// ── 报表模块业务错误 ──

var ErrReportGenerateFail = errors.New("生成报表文件失败")

// ReportService 运行报表接口
//
// 所有计数在每次调用时从当前数据实时聚合，不缓存、不维护写时计数器。
// 分组键为原始存储值，区分大小写，不做归一化。
type ReportService interface {
	BuildAssetReport(ctx context.Context) (*dto.AssetReportResponse, error)
	// ExportAssetReport 导出为 Excel，返回文件内容与建议文件名
	ExportAssetReport(ctx context.Context) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger, now: utcNow}
}

// ═══════════════════════════════════════════════════════════
// BuildAssetReport
// ═══════════════════════════════════════════════════════════

func (s *reportService) BuildAssetReport(ctx context.Context) (*dto.AssetReportResponse, error) {
	now := s.now()

	total, err := s.repo.Asset.Count(ctx)
	if err != nil {
		s.logger.Error("统计资产总数失败", zap.Error(err))
		return nil, err
	}

	byStatus, err := s.repo.Asset.CountGroupedBy(ctx, repository.AssetGroupByStatus)
	if err != nil {
		s.logger.Error("按状态统计资产失败", zap.Error(err))
		return nil, err
	}
	byDepartment, err := s.repo.Asset.CountGroupedBy(ctx, repository.AssetGroupByDepartment)
	if err != nil {
		s.logger.Error("按部门统计资产失败", zap.Error(err))
		return nil, err
	}
	byType, err := s.repo.Asset.CountGroupedBy(ctx, repository.AssetGroupByType)
	if err != nil {
		s.logger.Error("按类型统计资产失败", zap.Error(err))
		return nil, err
	}

	due, err := s.repo.MaintenanceSchedule.CountDue(ctx, now)
	if err != nil {
		s.logger.Error("统计待保养计划失败", zap.Error(err))
		return nil, err
	}
	pending, err := s.repo.RepairRequest.CountByStatus(ctx, model.RepairPending)
	if err != nil {
		s.logger.Error("统计待处理工单失败", zap.Error(err))
		return nil, err
	}

	return &dto.AssetReportResponse{
		TotalAssets:           total,
		AssetsByStatus:        byStatus,
		AssetsByDepartment:    byDepartment,
		AssetsByType:          byType,
		MaintenanceDue:        due,
		RepairRequestsPending: pending,
		GeneratedAt:           now,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportAssetReport
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "汇总"：总数、待保养、待处理工单、生成时间
//   - Sheet "按状态" / "按部门" / "按类型"：分组键 + 数量，按键排序

func (s *reportService) ExportAssetReport(ctx context.Context) (*bytes.Buffer, string, error) {
	report, err := s.BuildAssetReport(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 汇总
	summary := "汇总"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		s.logger.Error("初始化报表 Sheet 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}
	f.SetColWidth(summary, "A", "A", 24)
	f.SetColWidth(summary, "B", "B", 24)
	f.SetCellValue(summary, "A1", "指标")
	f.SetCellValue(summary, "B1", "数值")
	f.SetCellStyle(summary, "A1", "B1", headerStyle)

	summaryRows := []struct {
		label string
		value interface{}
	}{
		{"total_assets", report.TotalAssets},
		{"maintenance_due", report.MaintenanceDue},
		{"repair_requests_pending", report.RepairRequestsPending},
		{"generated_at", report.GeneratedAt.Format(time.RFC3339)},
	}
	for i, r := range summaryRows {
		f.SetCellValue(summary, cell("A", i+2), r.label)
		f.SetCellValue(summary, cell("B", i+2), r.value)
	}

	// 分组
	groups := []struct {
		sheet  string
		header string
		counts map[string]int64
	}{
		{"按状态", "status", report.AssetsByStatus},
		{"按部门", "department", report.AssetsByDepartment},
		{"按类型", "type", report.AssetsByType},
	}
	for _, g := range groups {
		if _, err := f.NewSheet(g.sheet); err != nil {
			s.logger.Error("创建报表 Sheet 失败", zap.String("sheet", g.sheet), zap.Error(err))
			return nil, "", ErrReportGenerateFail
		}
		writeGroupSheet(f, g.sheet, g.header, g.counts, headerStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	filename := fmt.Sprintf("asset_report_%s.xlsx", report.GeneratedAt.Format("20060102_150405"))
	return buf, filename, nil
}

func writeGroupSheet(f *excelize.File, sheet, header string, counts map[string]int64, headerStyle int) {
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 12)
	f.SetCellValue(sheet, "A1", header)
	f.SetCellValue(sheet, "B1", "count")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		f.SetCellValue(sheet, cell("A", i+2), k)
		f.SetCellValue(sheet, cell("B", i+2), counts[k])
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
