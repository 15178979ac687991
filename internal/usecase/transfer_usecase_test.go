package usecase_test

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func pendingTransfer() model.StockTransfer {
	return model.StockTransfer{
		ID:                    3,
		SourceLocationID:      1, //Central
		DestinationLocationID: 2, //District1
		VariantID:             7,
		ExpectedQuantity:      30,
		State:                 model.TransferStatePending,
	}
}

func TestTransferUsecase_Create(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	r.locations.On("FindByID", mock.Anything, int64(1)).
		Return(model.Location{ID: 1, Type: model.LocationTypeWarehouse, Active: true}, nil)
	r.locations.On("FindByID", mock.Anything, int64(2)).
		Return(model.Location{ID: 2, Type: model.LocationTypeRetailStore, Active: true}, nil)
	r.transfers.On("Create", mock.Anything, mock.MatchedBy(func(tr model.StockTransfer) bool {
		return tr.State == model.TransferStatePending && tr.ExpectedQuantity == 30
	})).Return(pendingTransfer(), nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	out, err := uc.Create(ctx, usecase.CreateTransferInput{
		SourceLocationID:      1,
		DestinationLocationID: 2,
		VariantID:             7,
		ExpectedQuantity:      30,
	})

	assert.NoError(t, err)
	assert.Equal(t, "PENDING", out.State)
}

func TestTransferUsecase_Create_SameLocation(t *testing.T) {
	uc := usecase.NewTransferUsecase(newTxManager(newTxRepos()))

	_, err := uc.Create(context.Background(), usecase.CreateTransferInput{
		SourceLocationID:      1,
		DestinationLocationID: 1,
		VariantID:             7,
		ExpectedQuantity:      30,
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

// ドロップシップ拠点へは転送できない
func TestTransferUsecase_Create_DropShipDestination(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	r.locations.On("FindByID", mock.Anything, int64(1)).
		Return(model.Location{ID: 1, Type: model.LocationTypeWarehouse, Active: true}, nil)
	r.locations.On("FindByID", mock.Anything, int64(2)).
		Return(model.Location{ID: 2, Type: model.LocationTypeDropShip, Active: true}, nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	_, err := uc.Create(ctx, usecase.CreateTransferInput{
		SourceLocationID:      1,
		DestinationLocationID: 2,
		VariantID:             7,
		ExpectedQuantity:      30,
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	r.transfers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Initiateで転送元on_handが減る（Central 100 → 70）
func TestTransferUsecase_Initiate_DeductsSource(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	r.transfers.On("FindForUpdate", mock.Anything, int64(3)).Return(pendingTransfer(), nil)
	r.stock.On("FindForUpdate", mock.Anything, int64(7), int64(1)).
		Return(model.StockRecord{ID: 11, VariantID: 7, LocationID: 1, QuantityOnHand: 100}, nil)
	r.stock.On("Save", mock.Anything, mock.MatchedBy(func(s model.StockRecord) bool {
		return s.QuantityOnHand == 70
	})).Return(nil)
	r.movements.On("Create", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.Type == model.MovementTypeTransferOut && mv.OnHandAfter == 70
	})).Return(nil)
	r.transfers.On("Save", mock.Anything, mock.MatchedBy(func(tr model.StockTransfer) bool {
		return tr.State == model.TransferStateInTransit && strings.HasPrefix(tr.TrackingNumber, "TRK-")
	})).Return(nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	out, err := uc.Initiate(ctx, 3)

	assert.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", out.State)
	assert.True(t, strings.HasPrefix(out.TrackingNumber, "TRK-"))
	r.stock.AssertExpectations(t)
}

func TestTransferUsecase_Initiate_InsufficientSource(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	r.transfers.On("FindForUpdate", mock.Anything, int64(3)).Return(pendingTransfer(), nil)
	//available = 100 - 80 = 20 < 30
	r.stock.On("FindForUpdate", mock.Anything, int64(7), int64(1)).
		Return(model.StockRecord{ID: 11, VariantID: 7, LocationID: 1, QuantityOnHand: 100, QuantityReserved: 80}, nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	_, err := uc.Initiate(ctx, 3)

	assert.ErrorIs(t, err, usecase.ErrInsufficientSourceStock)
	r.stock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	r.transfers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// Receive(期待値どおり)で転送先on_handが増える（District1 3 → 33）。
// 出庫30・入庫30でシステム全体のon_hand合計は変わらない。
func TestTransferUsecase_Receive_CreditsDestination(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	tr := pendingTransfer()
	tr.State = model.TransferStateInTransit
	tr.TrackingNumber = "TRK-x"

	r.transfers.On("FindForUpdate", mock.Anything, int64(3)).Return(tr, nil)
	r.stock.On("FindForUpdate", mock.Anything, int64(7), int64(2)).
		Return(model.StockRecord{ID: 12, VariantID: 7, LocationID: 2, QuantityOnHand: 3}, nil)
	r.stock.On("Save", mock.Anything, mock.MatchedBy(func(s model.StockRecord) bool {
		return s.QuantityOnHand == 33
	})).Return(nil)
	r.movements.On("Create", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.Type == model.MovementTypeTransferIn && mv.OnHandAfter == 33
	})).Return(nil)
	r.transfers.On("Save", mock.Anything, mock.MatchedBy(func(tr model.StockTransfer) bool {
		return tr.State == model.TransferStateReceived &&
			tr.ReceivedQuantity != nil && *tr.ReceivedQuantity == 30
	})).Return(nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	out, err := uc.Receive(ctx, 3, 30)

	assert.NoError(t, err)
	assert.Equal(t, "RECEIVED", out.State)
	assert.Equal(t, int64(0), out.Discrepancy)
	r.stock.AssertExpectations(t)
}

// 差異があっても完了し、差異が記録される
func TestTransferUsecase_Receive_Discrepancy(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	tr := pendingTransfer()
	tr.State = model.TransferStateInTransit

	r.transfers.On("FindForUpdate", mock.Anything, int64(3)).Return(tr, nil)
	r.stock.On("FindForUpdate", mock.Anything, int64(7), int64(2)).
		Return(model.StockRecord{ID: 12, VariantID: 7, LocationID: 2, QuantityOnHand: 3}, nil)
	r.stock.On("Save", mock.Anything, mock.MatchedBy(func(s model.StockRecord) bool {
		return s.QuantityOnHand == 31
	})).Return(nil)
	r.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.transfers.On("Save", mock.Anything, mock.MatchedBy(func(tr model.StockTransfer) bool {
		return tr.State == model.TransferStateReceived
	})).Return(nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	out, err := uc.Receive(ctx, 3, 28)

	assert.NoError(t, err)
	assert.Equal(t, "RECEIVED", out.State)
	assert.Equal(t, int64(-2), out.Discrepancy)
}

// 転送先に在庫レコードが無ければ作る
func TestTransferUsecase_Receive_CreatesDestinationRecord(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	tr := pendingTransfer()
	tr.State = model.TransferStateInTransit

	r.transfers.On("FindForUpdate", mock.Anything, int64(3)).Return(tr, nil)
	r.stock.On("FindForUpdate", mock.Anything, int64(7), int64(2)).
		Return(model.StockRecord{}, repo.ErrNotFound)
	r.stock.On("Create", mock.Anything, mock.MatchedBy(func(s model.StockRecord) bool {
		return s.VariantID == 7 && s.LocationID == 2
	})).Return(model.StockRecord{ID: 13, VariantID: 7, LocationID: 2}, nil)
	r.stock.On("Save", mock.Anything, mock.MatchedBy(func(s model.StockRecord) bool {
		return s.QuantityOnHand == 30
	})).Return(nil)
	r.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.transfers.On("Save", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	out, err := uc.Receive(ctx, 3, 30)

	assert.NoError(t, err)
	assert.Equal(t, "RECEIVED", out.State)
	r.stock.AssertExpectations(t)
}

func TestTransferUsecase_Cancel_OnlyPending(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	r.transfers.On("FindForUpdate", mock.Anything, int64(3)).Return(pendingTransfer(), nil)
	r.transfers.On("Save", mock.Anything, mock.MatchedBy(func(tr model.StockTransfer) bool {
		return tr.State == model.TransferStateCancelled
	})).Return(nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	out, err := uc.Cancel(ctx, 3)

	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.State)
}

// 出庫済み（InTransit）のキャンセルは不可
func TestTransferUsecase_Cancel_InTransit(t *testing.T) {
	ctx := context.Background()
	r := newTxRepos()

	tr := pendingTransfer()
	tr.State = model.TransferStateInTransit
	r.transfers.On("FindForUpdate", mock.Anything, int64(3)).Return(tr, nil)

	uc := usecase.NewTransferUsecase(newTxManager(r))
	_, err := uc.Cancel(ctx, 3)

	assert.ErrorIs(t, err, usecase.ErrInvalidState)
	r.transfers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
