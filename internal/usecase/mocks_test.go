package usecase_test

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（repositoryのinterfaceをtestify mockで実装）
// =====================

type StockRepoMock struct{ mock.Mock }

func (m *StockRepoMock) FindForUpdate(ctx context.Context, variantID, locationID int64) (model.StockRecord, error) {
	args := m.Called(ctx, variantID, locationID)
	s, _ := args.Get(0).(model.StockRecord)
	return s, args.Error(1)
}

func (m *StockRepoMock) FindByVariantLocation(ctx context.Context, variantID, locationID int64) (model.StockRecord, error) {
	args := m.Called(ctx, variantID, locationID)
	s, _ := args.Get(0).(model.StockRecord)
	return s, args.Error(1)
}

func (m *StockRepoMock) ListByVariant(ctx context.Context, variantID int64) ([]model.StockRecord, error) {
	args := m.Called(ctx, variantID)
	records, _ := args.Get(0).([]model.StockRecord)
	return records, args.Error(1)
}

func (m *StockRepoMock) Create(ctx context.Context, s model.StockRecord) (model.StockRecord, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.StockRecord)
	return created, args.Error(1)
}

func (m *StockRepoMock) Save(ctx context.Context, s model.StockRecord) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type BackorderRepoMock struct{ mock.Mock }

func (m *BackorderRepoMock) ListOpenFIFO(ctx context.Context, variantID, locationID int64) ([]model.Backorder, error) {
	args := m.Called(ctx, variantID, locationID)
	backorders, _ := args.Get(0).([]model.Backorder)
	return backorders, args.Error(1)
}

func (m *BackorderRepoMock) Create(ctx context.Context, b model.Backorder) (model.Backorder, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(model.Backorder)
	return created, args.Error(1)
}

func (m *BackorderRepoMock) Save(ctx context.Context, b model.Backorder) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type MovementRepoMock struct{ mock.Mock }

func (m *MovementRepoMock) Create(ctx context.Context, mv model.StockMovement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MovementRepoMock) ListByVariantLocation(ctx context.Context, variantID, locationID int64, limit int) ([]model.StockMovement, error) {
	args := m.Called(ctx, variantID, locationID, limit)
	movements, _ := args.Get(0).([]model.StockMovement)
	return movements, args.Error(1)
}

type LocationRepoMock struct{ mock.Mock }

func (m *LocationRepoMock) FindByID(ctx context.Context, id int64) (model.Location, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(model.Location)
	return l, args.Error(1)
}

func (m *LocationRepoMock) List(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	args := m.Called(ctx, activeOnly)
	locations, _ := args.Get(0).([]model.Location)
	return locations, args.Error(1)
}

func (m *LocationRepoMock) ListByIDs(ctx context.Context, ids []int64) ([]model.Location, error) {
	args := m.Called(ctx, ids)
	locations, _ := args.Get(0).([]model.Location)
	return locations, args.Error(1)
}

func (m *LocationRepoMock) Create(ctx context.Context, l model.Location) (model.Location, error) {
	args := m.Called(ctx, l)
	created, _ := args.Get(0).(model.Location)
	return created, args.Error(1)
}

func (m *LocationRepoMock) Save(ctx context.Context, l model.Location) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

type PickupRepoMock struct{ mock.Mock }

func (m *PickupRepoMock) FindByID(ctx context.Context, id int64) (model.StorePickup, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.StorePickup)
	return p, args.Error(1)
}

func (m *PickupRepoMock) FindForUpdate(ctx context.Context, id int64) (model.StorePickup, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.StorePickup)
	return p, args.Error(1)
}

func (m *PickupRepoMock) Create(ctx context.Context, p model.StorePickup) (model.StorePickup, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.StorePickup)
	return created, args.Error(1)
}

func (m *PickupRepoMock) Save(ctx context.Context, p model.StorePickup) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PickupRepoMock) ListItems(ctx context.Context, pickupID int64) ([]model.PickupItem, error) {
	args := m.Called(ctx, pickupID)
	items, _ := args.Get(0).([]model.PickupItem)
	return items, args.Error(1)
}

func (m *PickupRepoMock) CreateItems(ctx context.Context, pickupID int64, items []model.PickupItem) error {
	args := m.Called(ctx, pickupID, items)
	return args.Error(0)
}

func (m *PickupRepoMock) CodeInUse(ctx context.Context, locationID int64, code string) (bool, error) {
	args := m.Called(ctx, locationID, code)
	return args.Bool(0), args.Error(1)
}

type TransferRepoMock struct{ mock.Mock }

func (m *TransferRepoMock) FindByID(ctx context.Context, id int64) (model.StockTransfer, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.StockTransfer)
	return t, args.Error(1)
}

func (m *TransferRepoMock) FindForUpdate(ctx context.Context, id int64) (model.StockTransfer, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.StockTransfer)
	return t, args.Error(1)
}

func (m *TransferRepoMock) Create(ctx context.Context, t model.StockTransfer) (model.StockTransfer, error) {
	args := m.Called(ctx, t)
	created, _ := args.Get(0).(model.StockTransfer)
	return created, args.Error(1)
}

func (m *TransferRepoMock) Save(ctx context.Context, t model.StockTransfer) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// =====================
// TxReposとTransactionManagerのスタブ
// =====================

type txReposStub struct {
	stock      *StockRepoMock
	backorders *BackorderRepoMock
	movements  *MovementRepoMock
	locations  *LocationRepoMock
	pickups    *PickupRepoMock
	transfers  *TransferRepoMock
}

func newTxRepos() *txReposStub {
	return &txReposStub{
		stock:      new(StockRepoMock),
		backorders: new(BackorderRepoMock),
		movements:  new(MovementRepoMock),
		locations:  new(LocationRepoMock),
		pickups:    new(PickupRepoMock),
		transfers:  new(TransferRepoMock),
	}
}

func (r *txReposStub) Stock() repo.StockRecordRepository       { return r.stock }
func (r *txReposStub) Backorders() repo.BackorderRepository    { return r.backorders }
func (r *txReposStub) Movements() repo.StockMovementRepository { return r.movements }
func (r *txReposStub) Locations() repo.LocationRepository      { return r.locations }
func (r *txReposStub) Pickups() repo.PickupRepository          { return r.pickups }
func (r *txReposStub) Transfers() repo.TransferRepository      { return r.transfers }

// WithinTxを素通しするTransactionManager。
// errsを積んでおくと、その回数分だけfnを呼ばずにエラーを返す（Contention試験用）。
type txManagerStub struct {
	repos *txReposStub
	errs  []error
	calls int
}

func newTxManager(repos *txReposStub) *txManagerStub {
	return &txManagerStub{repos: repos}
}

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return err
	}
	return fn(m.repos)
}
