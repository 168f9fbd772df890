package model

import "time"

// AssetType 资产类型
type AssetType string

const (
	AssetTypeMedicalEquipment AssetType = "medical_equipment"
	AssetTypeFurniture        AssetType = "furniture"
	AssetTypeITDevice         AssetType = "it_device"
	AssetTypeVehicle          AssetType = "vehicle"
)

// Valid 是否为已知资产类型
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeMedicalEquipment, AssetTypeFurniture, AssetTypeITDevice, AssetTypeVehicle:
		return true
	}
	return false
}

// AssetStatus 资产运行状态
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusDamaged     AssetStatus = "damaged"
	AssetStatusUnderRepair AssetStatus = "under_repair"
	AssetStatusInactive    AssetStatus = "inactive"
)

// Valid 是否为已知资产状态
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusActive, AssetStatusDamaged, AssetStatusUnderRepair, AssetStatusInactive:
		return true
	}
	return false
}

// Asset 资产表 — 对应 assets
type Asset struct {
	ID             int64       `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name           string      `gorm:"type:text;not null"        json:"name"`
	Type           AssetType   `gorm:"type:varchar(32);not null" json:"type"`
	Department     string      `gorm:"type:text;not null"        json:"department"`
	Location       string      `gorm:"type:text;not null"        json:"location"`
	SerialNumber   string      `gorm:"type:text;not null" json:"serial_number"`
	PurchaseDate   time.Time   `gorm:"not null"                  json:"purchase_date"`
	Status         AssetStatus `gorm:"type:varchar(32);not null" json:"status"`
	AssignedUserID *int64      `gorm:"index"                     json:"assigned_user_id"`
	BaseModel
}

// TableName 指定表名
func (Asset) TableName() string { return "assets" }
