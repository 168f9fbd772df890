package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hospital-asset/backend/config"
	"hospital-asset/backend/internal/repository"
	"hospital-asset/backend/pkg/jwt"
)

// EventPublisher 业务事件发布（WebSocket Hub 实现）
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

// TokenBlacklist Token 吊销存储（Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// ── 推送事件类型 ──
const (
	EventRepairRequestCreated = "repair_request.created"
	EventRepairRequestUpdated = "repair_request.updated"
)

// utcNow 服务层统一时钟
func utcNow() time.Time { return time.Now().UTC() }

// Service 所有 Service 的聚合入口
type Service struct {
	Auth                AuthService
	User                UserService
	Asset               AssetService
	RepairRequest       RepairRequestService
	MaintenanceSchedule MaintenanceScheduleService
	RepairHistory       RepairHistoryService
	Report              ReportService
}

// NewService 创建 Service 聚合
// blacklist 为 nil 时登出不可用；events 为 nil 时不推送事件
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	events EventPublisher,
	logger *zap.Logger,
) *Service {
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{
		Auth:                NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:                NewUserService(repo, logger),
		Asset:               NewAssetService(repo, logger),
		RepairRequest:       NewRepairRequestService(repo, cfg.Workflow, events, logger),
		MaintenanceSchedule: NewMaintenanceScheduleService(repo, logger),
		RepairHistory:       NewRepairHistoryService(repo, logger),
		Report:              NewReportService(repo, logger),
	}
}
