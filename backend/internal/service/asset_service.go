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

// ── 资产模块业务错误 ──

var (
	ErrAssetNotFound           = pkgerrors.Wrap(pkgerrors.ErrNotFound, "资产不存在")
	ErrAssignedUserNotFound    = pkgerrors.Wrap(pkgerrors.ErrReferenceNotFound, "分配的用户不存在")
	ErrReferencedAssetNotFound = pkgerrors.Wrap(pkgerrors.ErrReferenceNotFound, "关联的资产不存在")
	ErrSerialNumberExists      = pkgerrors.Wrap(pkgerrors.ErrUniquenessViolation, "序列号已存在")
	ErrAssetInUse              = pkgerrors.Wrap(pkgerrors.ErrReferenceInUse, "资产仍被其他记录引用，无法删除")
)

// AssetService 资产生命周期管理接口
type AssetService interface {
	Create(ctx context.Context, req *dto.CreateAssetRequest) (*dto.AssetResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.AssetResponse, error)
	List(ctx context.Context) ([]dto.AssetResponse, error)
	ListByDepartment(ctx context.Context, department string) ([]dto.AssetResponse, error)
	ListByAssignedUser(ctx context.Context, userID int64) ([]dto.AssetResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error)
	// Delete 返回是否实际删除；目标不存在时返回 false 而非错误
	Delete(ctx context.Context, id int64) (bool, error)
}

type assetService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAssetService 创建 AssetService 实例
func NewAssetService(repo *repository.Repository, logger *zap.Logger) AssetService {
	return &assetService{repo: repo, logger: logger, now: utcNow}
}

// ────────────────────── Create ──────────────────────

func (s *assetService) Create(ctx context.Context, req *dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	// 1. 校验分配用户存在
	if req.AssignedUserID != nil {
		exists, err := s.repo.User.Exists(ctx, *req.AssignedUserID)
		if err != nil {
			s.logger.Error("查询分配用户失败", zap.Int64("user_id", *req.AssignedUserID), zap.Error(err))
			return nil, err
		}
		if !exists {
			return nil, ErrAssignedUserNotFound
		}
	}

	// 2. 写入；status 按调用方给定值，序列号唯一性交由存储层
	asset := &model.Asset{
		Name:           req.Name,
		Type:           model.AssetType(req.Type),
		Department:     req.Department,
		Location:       req.Location,
		SerialNumber:   req.SerialNumber,
		PurchaseDate:   req.PurchaseDate.UTC(),
		Status:         model.AssetStatus(req.Status),
		AssignedUserID: req.AssignedUserID,
	}
	if err := s.repo.Asset.Create(ctx, asset); err != nil {
		if mapped := s.mapWriteError(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("创建资产失败", zap.String("serial_number", req.SerialNumber), zap.Error(err))
		return nil, err
	}

	return toAssetResponse(asset), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *assetService) GetByID(ctx context.Context, id int64) (*dto.AssetResponse, error) {
	asset, err := s.repo.Asset.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("查询资产失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toAssetResponse(asset), nil
}

// ────────────────────── List ──────────────────────

func (s *assetService) List(ctx context.Context) ([]dto.AssetResponse, error) {
	return s.list(ctx, repository.AssetFilter{})
}

func (s *assetService) ListByDepartment(ctx context.Context, department string) ([]dto.AssetResponse, error) {
	return s.list(ctx, repository.AssetFilter{Department: &department})
}

func (s *assetService) ListByAssignedUser(ctx context.Context, userID int64) ([]dto.AssetResponse, error) {
	return s.list(ctx, repository.AssetFilter{AssignedUserID: &userID})
}

func (s *assetService) list(ctx context.Context, filter repository.AssetFilter) ([]dto.AssetResponse, error) {
	assets, err := s.repo.Asset.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出资产失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		result = append(result, *toAssetResponse(&assets[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *assetService) Update(ctx context.Context, id int64, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	asset, err := s.repo.Asset.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("查询资产失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	// 仅应用请求中出现的字段；updated_at 无论是否有字段变化都刷新
	fields := make(map[string]interface{})
	if v, err := req.Name.Get(); err == nil {
		asset.Name = v
		fields["name"] = v
	}
	if v, err := req.Type.Get(); err == nil {
		asset.Type = v
		fields["type"] = v
	}
	if v, err := req.Department.Get(); err == nil {
		asset.Department = v
		fields["department"] = v
	}
	if v, err := req.Location.Get(); err == nil {
		asset.Location = v
		fields["location"] = v
	}
	if v, err := req.SerialNumber.Get(); err == nil {
		asset.SerialNumber = v
		fields["serial_number"] = v
	}
	if v, err := req.PurchaseDate.Get(); err == nil {
		asset.PurchaseDate = v.UTC()
		fields["purchase_date"] = asset.PurchaseDate
	}
	if v, err := req.Status.Get(); err == nil {
		asset.Status = v
		fields["status"] = v
	}
	if req.AssignedUserID.IsSpecified() {
		asset.AssignedUserID = dto.PtrOf(req.AssignedUserID)
		fields["assigned_user_id"] = asset.AssignedUserID
	}

	asset.UpdatedAt = s.now()
	fields["updated_at"] = asset.UpdatedAt

	if err := s.repo.Asset.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		if mapped := s.mapWriteError(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("更新资产失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return toAssetResponse(asset), nil
}

// ────────────────────── Delete ──────────────────────

func (s *assetService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.repo.Asset.Delete(ctx, id)
	if err != nil {
		var fkErr *pkgerrors.ForeignKeyError
		if errors.As(err, &fkErr) {
			return false, ErrAssetInUse
		}
		s.logger.Error("删除资产失败", zap.Int64("id", id), zap.Error(err))
		return false, err
	}
	if removed {
		s.logger.Info("资产已删除", zap.Int64("id", id))
	}
	return removed, nil
}

// mapWriteError 将存储层约束冲突映射为资产模块错误；无法识别时返回 nil
func (s *assetService) mapWriteError(err error) error {
	var dupErr *pkgerrors.DuplicateKeyError
	if errors.As(err, &dupErr) && dupErr.Constraint == model.ConstraintAssetsSerialNumber {
		return ErrSerialNumberExists
	}
	var fkErr *pkgerrors.ForeignKeyError
	if errors.As(err, &fkErr) && fkErr.Constraint == model.ConstraintAssetsAssignedUser {
		return ErrAssignedUserNotFound
	}
	return nil
}

func toAssetResponse(a *model.Asset) *dto.AssetResponse {
	return &dto.AssetResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Department:     a.Department,
		Location:       a.Location,
		SerialNumber:   a.SerialNumber,
		PurchaseDate:   a.PurchaseDate,
		Status:         string(a.Status),
		AssignedUserID: a.AssignedUserID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
