package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
	pkgerrors "hospital-asset/backend/pkg/errors"
)

// ── Mock 存储 ──
// 各 Mock Repository 共享同一份内存数据，以模拟唯一约束与外键约束（NO ACTION）。

var mockEpoch = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

type mockStore struct {
	nextID    int64
	users     map[int64]*model.User
	assets    map[int64]*model.Asset
	schedules map[int64]*model.MaintenanceSchedule
	history   map[int64]*model.RepairHistory
	requests  map[int64]*model.RepairRequest

	// failErr 非空时所有操作直接返回该错误
	failErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[int64]*model.User),
		assets:    make(map[int64]*model.Asset),
		schedules: make(map[int64]*model.MaintenanceSchedule),
		history:   make(map[int64]*model.RepairHistory),
		requests:  make(map[int64]*model.RepairRequest),
	}
}

func (s *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		User:                &mockUserRepo{s},
		Asset:               &mockAssetRepo{s},
		MaintenanceSchedule: &mockMaintenanceRepo{s},
		RepairHistory:       &mockRepairHistoryRepo{s},
		RepairRequest:       &mockRepairRequestRepo{s},
	}
}

func (s *mockStore) newID() int64 {
	s.nextID++
	return s.nextID
}

func dupErr(constraint string) error {
	return &pkgerrors.DuplicateKeyError{Constraint: constraint, Err: gorm.ErrDuplicatedKey}
}

func fkErr(constraint string) error {
	return &pkgerrors.ForeignKeyError{Constraint: constraint, Err: gorm.ErrForeignKeyViolated}
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) checkUnique(u *model.User, selfID int64) error {
	for id, other := range m.s.users {
		if id == selfID {
			continue
		}
		if other.Username == u.Username {
			return dupErr(model.ConstraintUsersUsername)
		}
		if other.Email == u.Email {
			return dupErr(model.ConstraintUsersEmail)
		}
	}
	return nil
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	if err := m.checkUnique(user, 0); err != nil {
		return err
	}
	user.ID = m.s.newID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = mockEpoch
	}
	cp := *user
	m.s.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	for _, u := range m.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	if m.s.failErr != nil {
		return false, m.s.failErr
	}
	_, ok := m.s.users[id]
	return ok, nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	if m.s.failErr != nil {
		return nil, 0, m.s.failErr
	}
	ids := sortedKeys(m.s.users)
	var result []model.User
	for i, id := range ids {
		if i >= offset && len(result) < limit {
			result = append(result, *m.s.users[id])
		}
	}
	return result, int64(len(ids)), nil
}

func (m *mockUserRepo) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	stored, ok := m.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *stored
	for col, v := range fields {
		switch col {
		case "username":
			next.Username = v.(string)
		case "email":
			next.Email = v.(string)
		case "role":
			next.Role = v.(model.UserRole)
		case "department":
			next.Department = v.(string)
		case "password_hash":
			next.PasswordHash = v.(*string)
		default:
			panic("mockUserRepo: 未知列 " + col)
		}
	}
	if err := m.checkUnique(&next, id); err != nil {
		return err
	}
	m.s.users[id] = &next
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	if m.s.failErr != nil {
		return false, m.s.failErr
	}
	if _, ok := m.s.users[id]; !ok {
		return false, nil
	}
	for _, a := range m.s.assets {
		if a.AssignedUserID != nil && *a.AssignedUserID == id {
			return false, fkErr(model.ConstraintAssetsAssignedUser)
		}
	}
	for _, r := range m.s.requests {
		if r.RequestedByUserID == id {
			return false, fkErr(model.ConstraintRepairRequestsUser)
		}
	}
	delete(m.s.users, id)
	return true, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role model.UserRole) (int64, error) {
	if m.s.failErr != nil {
		return 0, m.s.failErr
	}
	var n int64
	for _, u := range m.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ── Mock AssetRepository ──

type mockAssetRepo struct{ s *mockStore }

func (m *mockAssetRepo) checkConstraints(a *model.Asset, selfID int64) error {
	for id, other := range m.s.assets {
		if id != selfID && other.SerialNumber == a.SerialNumber {
			return dupErr(model.ConstraintAssetsSerialNumber)
		}
	}
	if a.AssignedUserID != nil {
		if _, ok := m.s.users[*a.AssignedUserID]; !ok {
			return fkErr(model.ConstraintAssetsAssignedUser)
		}
	}
	return nil
}

func (m *mockAssetRepo) Create(_ context.Context, asset *model.Asset) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	if err := m.checkConstraints(asset, 0); err != nil {
		return err
	}
	asset.ID = m.s.newID()
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = mockEpoch
	}
	if asset.UpdatedAt.IsZero() {
		asset.UpdatedAt = mockEpoch
	}
	cp := *asset
	m.s.assets[asset.ID] = &cp
	return nil
}

func (m *mockAssetRepo) GetByID(_ context.Context, id int64) (*model.Asset, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	if a, ok := m.s.assets[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssetRepo) Exists(_ context.Context, id int64) (bool, error) {
	if m.s.failErr != nil {
		return false, m.s.failErr
	}
	_, ok := m.s.assets[id]
	return ok, nil
}

func (m *mockAssetRepo) List(_ context.Context, filter repository.AssetFilter) ([]model.Asset, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Asset
	for _, id := range sortedKeys(m.s.assets) {
		a := m.s.assets[id]
		if filter.Department != nil && a.Department != *filter.Department {
			continue
		}
		if filter.AssignedUserID != nil && (a.AssignedUserID == nil || *a.AssignedUserID != *filter.AssignedUserID) {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssetRepo) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	stored, ok := m.s.assets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *stored
	for col, v := range fields {
		switch col {
		case "name":
			next.Name = v.(string)
		case "type":
			next.Type = v.(model.AssetType)
		case "department":
			next.Department = v.(string)
		case "location":
			next.Location = v.(string)
		case "serial_number":
			next.SerialNumber = v.(string)
		case "purchase_date":
			next.PurchaseDate = v.(time.Time)
		case "status":
			next.Status = v.(model.AssetStatus)
		case "assigned_user_id":
			next.AssignedUserID = v.(*int64)
		case "updated_at":
			next.UpdatedAt = v.(time.Time)
		default:
			panic("mockAssetRepo: 未知列 " + col)
		}
	}
	if err := m.checkConstraints(&next, id); err != nil {
		return err
	}
	m.s.assets[id] = &next
	return nil
}

func (m *mockAssetRepo) Delete(_ context.Context, id int64) (bool, error) {
	if m.s.failErr != nil {
		return false, m.s.failErr
	}
	if _, ok := m.s.assets[id]; !ok {
		return false, nil
	}
	for _, ms := range m.s.schedules {
		if ms.AssetID == id {
			return false, fkErr(model.ConstraintMaintenanceAsset)
		}
	}
	for _, h := range m.s.history {
		if h.AssetID == id {
			return false, fkErr(model.ConstraintRepairHistoryAsset)
		}
	}
	for _, r := range m.s.requests {
		if r.AssetID == id {
			return false, fkErr(model.ConstraintRepairRequestsAsset)
		}
	}
	delete(m.s.assets, id)
	return true, nil
}

func (m *mockAssetRepo) Count(_ context.Context) (int64, error) {
	if m.s.failErr != nil {
		return 0, m.s.failErr
	}
	return int64(len(m.s.assets)), nil
}

func (m *mockAssetRepo) CountGroupedBy(_ context.Context, column repository.AssetGroupColumn) (map[string]int64, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	counts := make(map[string]int64)
	for _, a := range m.s.assets {
		switch column {
		case repository.AssetGroupByStatus:
			counts[string(a.Status)]++
		case repository.AssetGroupByDepartment:
			counts[a.Department]++
		case repository.AssetGroupByType:
			counts[string(a.Type)]++
		}
	}
	return counts, nil
}

// ── Mock MaintenanceScheduleRepository ──

type mockMaintenanceRepo struct{ s *mockStore }

func (m *mockMaintenanceRepo) Create(_ context.Context, schedule *model.MaintenanceSchedule) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	if _, ok := m.s.assets[schedule.AssetID]; !ok {
		return fkErr(model.ConstraintMaintenanceAsset)
	}
	schedule.ID = m.s.newID()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = mockEpoch
	}
	cp := *schedule
	m.s.schedules[schedule.ID] = &cp
	return nil
}

func (m *mockMaintenanceRepo) GetByID(_ context.Context, id int64) (*model.MaintenanceSchedule, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	if ms, ok := m.s.schedules[id]; ok {
		cp := *ms
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaintenanceRepo) List(_ context.Context) ([]model.MaintenanceSchedule, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.MaintenanceSchedule
	for _, id := range sortedKeys(m.s.schedules) {
		result = append(result, *m.s.schedules[id])
	}
	return result, nil
}

func (m *mockMaintenanceRepo) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	stored, ok := m.s.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *stored
	for col, v := range fields {
		switch col {
		case "status":
			next.Status = v.(model.MaintenanceStatus)
		case "scheduled_date":
			next.ScheduledDate = v.(time.Time)
		case "completed_date":
			next.CompletedDate = v.(*time.Time)
		case "notes":
			next.Notes = v.(*string)
		default:
			panic("mockMaintenanceRepo: 未知列 " + col)
		}
	}
	m.s.schedules[id] = &next
	return nil
}

func (m *mockMaintenanceRepo) CountDue(_ context.Context, now time.Time) (int64, error) {
	if m.s.failErr != nil {
		return 0, m.s.failErr
	}
	var n int64
	for _, ms := range m.s.schedules {
		if ms.Status == model.MaintenanceScheduled && !ms.ScheduledDate.After(now) {
			n++
		}
	}
	return n, nil
}

// ── Mock RepairHistoryRepository ──

type mockRepairHistoryRepo struct{ s *mockStore }

func (m *mockRepairHistoryRepo) Create(_ context.Context, record *model.RepairHistory) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	if _, ok := m.s.assets[record.AssetID]; !ok {
		return fkErr(model.ConstraintRepairHistoryAsset)
	}
	record.ID = m.s.newID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = mockEpoch
	}
	cp := *record
	m.s.history[record.ID] = &cp
	return nil
}

func (m *mockRepairHistoryRepo) ListByAsset(_ context.Context, assetID int64) ([]model.RepairHistory, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.RepairHistory
	for _, h := range m.s.history {
		if h.AssetID == assetID {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].RepairDate.Equal(result[j].RepairDate) {
			return result[i].RepairDate.After(result[j].RepairDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// ── Mock RepairRequestRepository ──

type mockRepairRequestRepo struct{ s *mockStore }

func (m *mockRepairRequestRepo) Create(_ context.Context, req *model.RepairRequest) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	if _, ok := m.s.assets[req.AssetID]; !ok {
		return fkErr(model.ConstraintRepairRequestsAsset)
	}
	if _, ok := m.s.users[req.RequestedByUserID]; !ok {
		return fkErr(model.ConstraintRepairRequestsUser)
	}
	req.ID = m.s.newID()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = mockEpoch
	}
	cp := *req
	m.s.requests[req.ID] = &cp
	return nil
}

func (m *mockRepairRequestRepo) GetByID(_ context.Context, id int64) (*model.RepairRequest, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	if r, ok := m.s.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepairRequestRepo) List(_ context.Context) ([]model.RepairRequest, error) {
	return m.filter(func(*model.RepairRequest) bool { return true })
}

func (m *mockRepairRequestRepo) ListByUser(_ context.Context, userID int64) ([]model.RepairRequest, error) {
	return m.filter(func(r *model.RepairRequest) bool { return r.RequestedByUserID == userID })
}

// filter 按 id 倒序（与 created_at DESC 一致）
func (m *mockRepairRequestRepo) filter(keep func(*model.RepairRequest) bool) ([]model.RepairRequest, error) {
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	ids := sortedKeys(m.s.requests)
	var result []model.RepairRequest
	for i := len(ids) - 1; i >= 0; i-- {
		if r := m.s.requests[ids[i]]; keep(r) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRepairRequestRepo) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	if m.s.failErr != nil {
		return m.s.failErr
	}
	stored, ok := m.s.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *stored
	for col, v := range fields {
		switch col {
		case "status":
			next.Status = v.(model.RepairStatus)
		case "completed_date":
			next.CompletedDate = v.(*time.Time)
		case "admin_notes":
			next.AdminNotes = v.(*string)
		default:
			panic("mockRepairRequestRepo: 未知列 " + col)
		}
	}
	m.s.requests[id] = &next
	return nil
}

func (m *mockRepairRequestRepo) CountByStatus(_ context.Context, status model.RepairStatus) (int64, error) {
	if m.s.failErr != nil {
		return 0, m.s.failErr
	}
	var n int64
	for _, r := range m.s.requests {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

// ── 辅助 ──

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	events []string
	data   []interface{}
}

func (p *recordingPublisher) Publish(eventType string, data interface{}) {
	p.events = append(p.events, eventType)
	p.data = append(p.data, data)
}

// fakeBlacklist 内存 Token 黑名单
type fakeBlacklist struct {
	entries map[string]time.Duration
	err     error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: make(map[string]time.Duration)}
}

func (b *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if b.err != nil {
		return b.err
	}
	b.entries[jti] = ttl
	return nil
}

func (b *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	_, ok := b.entries[jti]
	return ok, nil
}

// ── 数据构造 ──

func seedUser(s *mockStore, username, dept string, role model.UserRole) *model.User {
	u := &model.User{
		Username:   username,
		Email:      username + "@x.org",
		Role:       role,
		Department: dept,
	}
	if err := (&mockUserRepo{s}).Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func seedAsset(s *mockStore, serial, dept string, status model.AssetStatus, typ model.AssetType) *model.Asset {
	a := &model.Asset{
		Name:         "asset-" + serial,
		Type:         typ,
		Department:   dept,
		Location:     "Bay 1",
		SerialNumber: serial,
		PurchaseDate: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:       status,
	}
	if err := (&mockAssetRepo{s}).Create(context.Background(), a); err != nil {
		panic(err)
	}
	return a
}
