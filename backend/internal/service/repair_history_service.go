package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
	pkgerrors "hospital-asset/backend/pkg/errors"
)

// RepairHistoryService 维修记录接口（仅追加，无修改与删除）
type RepairHistoryService interface {
	Create(ctx context.Context, req *dto.CreateRepairHistoryRequest) (*dto.RepairHistoryResponse, error)
	// ListByAsset 按 repair_date 倒序
	ListByAsset(ctx context.Context, assetID int64) ([]dto.RepairHistoryResponse, error)
}

type repairHistoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRepairHistoryService 创建 RepairHistoryService 实例
func NewRepairHistoryService(repo *repository.Repository, logger *zap.Logger) RepairHistoryService {
	return &repairHistoryService{repo: repo, logger: logger}
}

func (s *repairHistoryService) Create(ctx context.Context, req *dto.CreateRepairHistoryRequest) (*dto.RepairHistoryResponse, error) {
	exists, err := s.repo.Asset.Exists(ctx, req.AssetID)
	if err != nil {
		s.logger.Error("查询资产失败", zap.Int64("asset_id", req.AssetID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrReferencedAssetNotFound
	}

	record := &model.RepairHistory{
		AssetID:     req.AssetID,
		RepairDate:  req.RepairDate.UTC(),
		Description: req.Description,
		Cost:        req.Cost.Decimal.Round(2),
		Technician:  req.Technician,
	}
	if err := s.repo.RepairHistory.Create(ctx, record); err != nil {
		var fkErr *pkgerrors.ForeignKeyError
		if errors.As(err, &fkErr) {
			return nil, ErrReferencedAssetNotFound
		}
		s.logger.Error("创建维修记录失败", zap.Int64("asset_id", req.AssetID), zap.Error(err))
		return nil, err
	}

	return toRepairHistoryResponse(record), nil
}

func (s *repairHistoryService) ListByAsset(ctx context.Context, assetID int64) ([]dto.RepairHistoryResponse, error) {
	exists, err := s.repo.Asset.Exists(ctx, assetID)
	if err != nil {
		s.logger.Error("查询资产失败", zap.Int64("asset_id", assetID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrAssetNotFound
	}

	records, err := s.repo.RepairHistory.ListByAsset(ctx, assetID)
	if err != nil {
		s.logger.Error("列出维修记录失败", zap.Int64("asset_id", assetID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.RepairHistoryResponse, 0, len(records))
	for i := range records {
		result = append(result, *toRepairHistoryResponse(&records[i]))
	}
	return result, nil
}

func toRepairHistoryResponse(r *model.RepairHistory) *dto.RepairHistoryResponse {
	return &dto.RepairHistoryResponse{
		ID:          r.ID,
		AssetID:     r.AssetID,
		RepairDate:  r.RepairDate,
		Description: r.Description,
		Cost:        r.Cost,
		Technician:  r.Technician,
		CreatedAt:   r.CreatedAt,
	}
}
