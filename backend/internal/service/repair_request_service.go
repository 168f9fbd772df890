package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-asset/backend/config"
	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
	pkgerrors "hospital-asset/backend/pkg/errors"
)

// ── 维修工单模块业务错误 ──

var (
	ErrRepairRequestNotFound = pkgerrors.Wrap(pkgerrors.ErrNotFound, "维修工单不存在")
	ErrRequesterNotFound     = pkgerrors.Wrap(pkgerrors.ErrReferenceNotFound, "提交人不存在")
	ErrIllegalTransition     = pkgerrors.Wrap(pkgerrors.ErrInvalidState, "工单状态流转不合法")
)

// RepairRequestService 维修工单流程接口
type RepairRequestService interface {
	// Create 提交工单，状态固定为 pending
	Create(ctx context.Context, req *dto.CreateRepairRequestRequest, requesterID int64) (*dto.RepairRequestResponse, error)
	// Update 稀疏更新 status / completed_date / admin_notes，未提供的字段保持不变
	Update(ctx context.Context, id int64, req *dto.UpdateRepairRequestRequest) (*dto.RepairRequestResponse, error)
	List(ctx context.Context) ([]dto.RepairRequestResponse, error)
	ListByUser(ctx context.Context, userID int64) ([]dto.RepairRequestResponse, error)
}

type repairRequestService struct {
	repo   *repository.Repository
	strict bool
	events EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewRepairRequestService 创建 RepairRequestService 实例
func NewRepairRequestService(
	repo *repository.Repository,
	workflow config.WorkflowConfig,
	events EventPublisher,
	logger *zap.Logger,
) RepairRequestService {
	if events == nil {
		events = nopPublisher{}
	}
	return &repairRequestService{
		repo:   repo,
		strict: workflow.StrictRepairTransitions,
		events: events,
		logger: logger,
		now:    utcNow,
	}
}

// ────────────────────── Create ──────────────────────

func (s *repairRequestService) Create(ctx context.Context, req *dto.CreateRepairRequestRequest, requesterID int64) (*dto.RepairRequestResponse, error) {
	// 1. 校验资产与提交人存在
	assetExists, err := s.repo.Asset.Exists(ctx, req.AssetID)
	if err != nil {
		s.logger.Error("查询资产失败", zap.Int64("asset_id", req.AssetID), zap.Error(err))
		return nil, err
	}
	if !assetExists {
		return nil, ErrReferencedAssetNotFound
	}

	userExists, err := s.repo.User.Exists(ctx, requesterID)
	if err != nil {
		s.logger.Error("查询提交人失败", zap.Int64("user_id", requesterID), zap.Error(err))
		return nil, err
	}
	if !userExists {
		return nil, ErrRequesterNotFound
	}

	// 2. 写入：pending、requested_date=当前时间、completed_date 与 admin_notes 为空
	rr := &model.RepairRequest{
		AssetID:           req.AssetID,
		RequestedByUserID: requesterID,
		Description:       req.Description,
		Priority:          req.Priority,
		Status:            model.RepairPending,
		RequestedDate:     s.now(),
	}
	if err := s.repo.RepairRequest.Create(ctx, rr); err != nil {
		var fkErr *pkgerrors.ForeignKeyError
		if errors.As(err, &fkErr) {
			if fkErr.Constraint == model.ConstraintRepairRequestsUser {
				return nil, ErrRequesterNotFound
			}
			return nil, ErrReferencedAssetNotFound
		}
		s.logger.Error("创建维修工单失败", zap.Int64("asset_id", req.AssetID), zap.Error(err))
		return nil, err
	}

	resp := toRepairRequestResponse(rr)
	s.events.Publish(EventRepairRequestCreated, resp)
	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *repairRequestService) Update(ctx context.Context, id int64, req *dto.UpdateRepairRequestRequest) (*dto.RepairRequestResponse, error) {
	rr, err := s.repo.RepairRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRepairRequestNotFound
		}
		s.logger.Error("查询维修工单失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	fields := make(map[string]interface{})
	if next, err := req.Status.Get(); err == nil {
		if s.strict && !rr.Status.CanTransitionTo(next) {
			s.logger.Warn("拒绝非法工单状态流转",
				zap.Int64("id", id),
				zap.String("from", string(rr.Status)),
				zap.String("to", string(next)),
			)
			return nil, ErrIllegalTransition
		}
		rr.Status = next
		fields["status"] = next
	}
	// completed_date 不随 status=completed 自动填充
	if req.CompletedDate.IsSpecified() {
		rr.CompletedDate = dto.PtrOf(req.CompletedDate)
		if rr.CompletedDate != nil {
			utc := rr.CompletedDate.UTC()
			rr.CompletedDate = &utc
		}
		fields["completed_date"] = rr.CompletedDate
	}
	if req.AdminNotes.IsSpecified() {
		rr.AdminNotes = dto.PtrOf(req.AdminNotes)
		fields["admin_notes"] = rr.AdminNotes
	}

	resp := toRepairRequestResponse(rr)
	if len(fields) == 0 {
		return resp, nil
	}

	if err := s.repo.RepairRequest.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRepairRequestNotFound
		}
		s.logger.Error("更新维修工单失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.events.Publish(EventRepairRequestUpdated, resp)
	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *repairRequestService) List(ctx context.Context) ([]dto.RepairRequestResponse, error) {
	reqs, err := s.repo.RepairRequest.List(ctx)
	if err != nil {
		s.logger.Error("列出维修工单失败", zap.Error(err))
		return nil, err
	}
	return toRepairRequestResponses(reqs), nil
}

func (s *repairRequestService) ListByUser(ctx context.Context, userID int64) ([]dto.RepairRequestResponse, error) {
	reqs, err := s.repo.RepairRequest.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出用户维修工单失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toRepairRequestResponses(reqs), nil
}

func toRepairRequestResponses(reqs []model.RepairRequest) []dto.RepairRequestResponse {
	result := make([]dto.RepairRequestResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, *toRepairRequestResponse(&reqs[i]))
	}
	return result
}

func toRepairRequestResponse(r *model.RepairRequest) *dto.RepairRequestResponse {
	return &dto.RepairRequestResponse{
		ID:                r.ID,
		AssetID:           r.AssetID,
		RequestedByUserID: r.RequestedByUserID,
		Description:       r.Description,
		Priority:          r.Priority,
		Status:            string(r.Status),
		RequestedDate:     r.RequestedDate,
		CompletedDate:     r.CompletedDate,
		AdminNotes:        r.AdminNotes,
		CreatedAt:         r.CreatedAt,
	}
}
