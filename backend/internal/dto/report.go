package dto

import "time"

// ── 报表模块 DTO ──

// AssetReportResponse 资产运行报表；分组键为原始存储值
type AssetReportResponse struct {
	TotalAssets           int64            `json:"total_assets"`
	AssetsByStatus        map[string]int64 `json:"assets_by_status"`
	AssetsByDepartment    map[string]int64 `json:"assets_by_department"`
	AssetsByType          map[string]int64 `json:"assets_by_type"`
	MaintenanceDue        int64            `json:"maintenance_due"`
	RepairRequestsPending int64            `json:"repair_requests_pending"`
	GeneratedAt           time.Time        `json:"generated_at"`
}
