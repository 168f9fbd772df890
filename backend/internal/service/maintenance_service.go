package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
	pkgerrors "hospital-asset/backend/pkg/errors"
)

// ── 保养计划模块业务错误 ──

var (
	ErrMaintenanceNotFound   = pkgerrors.Wrap(pkgerrors.ErrNotFound, "保养计划不存在")
	ErrCompletedDateRequired = pkgerrors.Wrap(pkgerrors.ErrInvalidState, "状态为 completed 时必须提供 completed_date")
)

// MaintenanceScheduleService 保养计划接口
type MaintenanceScheduleService interface {
	// Create 创建计划，status 固定为 scheduled，completed_date 为空
	Create(ctx context.Context, req *dto.CreateMaintenanceScheduleRequest) (*dto.MaintenanceScheduleResponse, error)
	// List 返回全部计划，is_overdue 按读取时刻派生，不回写
	List(ctx context.Context) ([]dto.MaintenanceScheduleResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateMaintenanceScheduleRequest) (*dto.MaintenanceScheduleResponse, error)
}

type maintenanceScheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewMaintenanceScheduleService 创建 MaintenanceScheduleService 实例
func NewMaintenanceScheduleService(repo *repository.Repository, logger *zap.Logger) MaintenanceScheduleService {
	return &maintenanceScheduleService{repo: repo, logger: logger, now: utcNow}
}

// ────────────────────── Create ──────────────────────

func (s *maintenanceScheduleService) Create(ctx context.Context, req *dto.CreateMaintenanceScheduleRequest) (*dto.MaintenanceScheduleResponse, error) {
	exists, err := s.repo.Asset.Exists(ctx, req.AssetID)
	if err != nil {
		s.logger.Error("查询资产失败", zap.Int64("asset_id", req.AssetID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrReferencedAssetNotFound
	}

	ms := &model.MaintenanceSchedule{
		AssetID:         req.AssetID,
		ScheduledDate:   req.ScheduledDate.UTC(),
		MaintenanceType: req.MaintenanceType,
		Status:          model.MaintenanceScheduled,
		Notes:           req.Notes,
	}
	if err := s.repo.MaintenanceSchedule.Create(ctx, ms); err != nil {
		var fkErr *pkgerrors.ForeignKeyError
		if errors.As(err, &fkErr) {
			return nil, ErrReferencedAssetNotFound
		}
		s.logger.Error("创建保养计划失败", zap.Int64("asset_id", req.AssetID), zap.Error(err))
		return nil, err
	}

	return toMaintenanceResponse(ms, s.now()), nil
}

// ────────────────────── List ──────────────────────

func (s *maintenanceScheduleService) List(ctx context.Context) ([]dto.MaintenanceScheduleResponse, error) {
	schedules, err := s.repo.MaintenanceSchedule.List(ctx)
	if err != nil {
		s.logger.Error("列出保养计划失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	result := make([]dto.MaintenanceScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *toMaintenanceResponse(&schedules[i], now))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *maintenanceScheduleService) Update(ctx context.Context, id int64, req *dto.UpdateMaintenanceScheduleRequest) (*dto.MaintenanceScheduleResponse, error) {
	ms, err := s.repo.MaintenanceSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		s.logger.Error("查询保养计划失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	fields := make(map[string]interface{})
	if v, err := req.Status.Get(); err == nil {
		ms.Status = v
		fields["status"] = v
	}
	if v, err := req.ScheduledDate.Get(); err == nil {
		ms.ScheduledDate = v.UTC()
		fields["scheduled_date"] = ms.ScheduledDate
	}
	if req.CompletedDate.IsSpecified() {
		ms.CompletedDate = dto.PtrOf(req.CompletedDate)
		if ms.CompletedDate != nil {
			utc := ms.CompletedDate.UTC()
			ms.CompletedDate = &utc
		}
		fields["completed_date"] = ms.CompletedDate
	}
	if req.Notes.IsSpecified() {
		ms.Notes = dto.PtrOf(req.Notes)
		fields["notes"] = ms.Notes
	}

	// 以更新后的结果判断，既覆盖本次置为 completed，也覆盖对已完成计划清空 completed_date
	if ms.Status == model.MaintenanceCompleted && ms.CompletedDate == nil {
		return nil, ErrCompletedDateRequired
	}

	if len(fields) > 0 {
		if err := s.repo.MaintenanceSchedule.Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMaintenanceNotFound
			}
			s.logger.Error("更新保养计划失败", zap.Int64("id", id), zap.Error(err))
			return nil, err
		}
	}

	return toMaintenanceResponse(ms, s.now()), nil
}

func toMaintenanceResponse(m *model.MaintenanceSchedule, now time.Time) *dto.MaintenanceScheduleResponse {
	return &dto.MaintenanceScheduleResponse{
		ID:              m.ID,
		AssetID:         m.AssetID,
		ScheduledDate:   m.ScheduledDate,
		MaintenanceType: m.MaintenanceType,
		Status:          string(m.Status),
		Notes:           m.Notes,
		CompletedDate:   m.CompletedDate,
		IsOverdue:       m.IsOverdueAt(now),
		CreatedAt:       m.CreatedAt,
	}
}
