package repository

import (
	"context"

	"gorm.io/gorm"

	"hospital-asset/backend/internal/model"
)

// AssetGroupColumn 报表分组列，限定为白名单中的列名
type AssetGroupColumn string

const (
	AssetGroupByStatus     AssetGroupColumn = "status"
	AssetGroupByDepartment AssetGroupColumn = "department"
	AssetGroupByType       AssetGroupColumn = "type"
)

// AssetFilter 资产列表过滤条件，均为精确匹配；零值表示不过滤
type AssetFilter struct {
	Department     *string
	AssignedUserID *int64
}

// AssetRepository 资产数据访问接口
type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id int64) (*model.Asset, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter AssetFilter) ([]model.Asset, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountGroupedBy(ctx context.Context, column AssetGroupColumn) (map[string]int64, error)
}

type assetRepo struct {
	db *gorm.DB
}

// NewAssetRepo 创建 AssetRepository 实例
func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, asset *model.Asset) error {
	return translateError(r.db.WithContext(ctx).Create(asset).Error)
}

func (r *assetRepo) GetByID(ctx context.Context, id int64) (*model.Asset, error) {
	var asset model.Asset
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByID(r.db.WithContext(ctx), &model.Asset{}, id)
}

func (r *assetRepo) List(ctx context.Context, filter AssetFilter) ([]model.Asset, error) {
	var assets []model.Asset
	db := r.db.WithContext(ctx)

	if filter.Department != nil {
		db = db.Where("department = ?", *filter.Department)
	}
	if filter.AssignedUserID != nil {
		db = db.Where("assigned_user_id = ?", *filter.AssignedUserID)
	}

	err := db.Order("id ASC").Find(&assets).Error
	return assets, err
}

func (r *assetRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &model.Asset{}, id, fields)
}

func (r *assetRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return deleteByID(r.db.WithContext(ctx), &model.Asset{}, id)
}

func (r *assetRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Asset{}).Count(&count).Error
	return count, err
}

// CountGroupedBy 按原始存储值分组计数（区分大小写，不做归一化）
func (r *assetRepo) CountGroupedBy(ctx context.Context, column AssetGroupColumn) (map[string]int64, error) {
	var rows []struct {
		GroupKey string
		Total    int64
	}
	col := string(column)
	err := r.db.WithContext(ctx).
		Model(&model.Asset{}).
		Select(col + " AS group_key, COUNT(*) AS total").
		Group(col).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Total
	}
	return counts, nil
}
