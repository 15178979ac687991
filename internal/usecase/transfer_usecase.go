package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

type TransferUsecase struct {
	tx repo.TransactionManager
}

// DI
func NewTransferUsecase(tx repo.TransactionManager) *TransferUsecase {
	return &TransferUsecase{tx: tx}
}

type CreateTransferInput struct {
	SourceLocationID      int64
	DestinationLocationID int64
	VariantID             int64
	ExpectedQuantity      int64
}

type TransferOutput struct {
	ID                    int64           `json:"id"`
	SourceLocationID      int64           `json:"source_location_id"`
	DestinationLocationID int64           `json:"destination_location_id"`
	VariantID             int64           `json:"variant_id"`
	ExpectedQuantity      int64           `json:"expected_quantity"`
	ReceivedQuantity      *int64          `json:"received_quantity,omitempty"`
	State                 string          `json:"state"`
	TrackingNumber        string          `json:"tracking_number,omitempty"`
	Discrepancy           int64           `json:"discrepancy"`
	Fills                 []BackorderFill `json:"fills,omitempty"`
}

// 転送作成（Pending）。在庫はまだ動かさない。
func (u *TransferUsecase) Create(ctx context.Context, in CreateTransferInput) (TransferOutput, error) {
	if in.VariantID <= 0 {
		return TransferOutput{}, NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}
	if in.ExpectedQuantity <= 0 {
		return TransferOutput{}, NewHTTPError(http.StatusBadRequest, "invalid expected_quantity")
	}
	if in.SourceLocationID == in.DestinationLocationID {
		return TransferOutput{}, NewHTTPError(http.StatusBadRequest, "source and destination must differ")
	}

	var out TransferOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Locations().FindByID(ctx, in.SourceLocationID); err != nil {
			return err
		}
		dest, err := r.Locations().FindByID(ctx, in.DestinationLocationID)
		if err != nil {
			return err
		}
		if !dest.Active {
			return NewHTTPError(http.StatusConflict, "destination is inactive")
		}
		if !dest.CanReceiveTransfer() {
			return NewHTTPError(http.StatusConflict, "destination cannot receive transfers")
		}

		t, err := r.Transfers().Create(ctx, model.StockTransfer{
			SourceLocationID:      in.SourceLocationID,
			DestinationLocationID: in.DestinationLocationID,
			VariantID:             in.VariantID,
			ExpectedQuantity:      in.ExpectedQuantity,
			State:                 model.TransferStatePending,
		})
		if err != nil {
			return err
		}
		out = toTransferOutput(t, nil)
		return nil
	})
	if err != nil {
		return TransferOutput{}, err
	}
	return out, nil
}

// Pending → InTransit。転送元のon_handをこの時点で減らす。
func (u *TransferUsecase) Initiate(ctx context.Context, id int64) (TransferOutput, error) {
	var out TransferOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		t, err := r.Transfers().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t.State != model.TransferStatePending {
			return ErrInvalidState
		}

		s, err := r.Stock().FindForUpdate(ctx, t.VariantID, t.SourceLocationID)
		if err != nil {
			return err
		}
		if s.CountAvailable() < t.ExpectedQuantity {
			return ErrInsufficientSourceStock
		}

		before := s.QuantityOnHand
		s.QuantityOnHand -= t.ExpectedQuantity
		if err := r.Stock().Save(ctx, s); err != nil {
			return err
		}
		if err := recordMovement(ctx, r, s, model.MovementTypeTransferOut, t.ExpectedQuantity, before, "transfer", trackingRef(t.ID), ""); err != nil {
			return err
		}

		if t.TrackingNumber == "" {
			t.TrackingNumber = "TRK-" + uuid.NewString()
		}
		t.State = model.TransferStateInTransit
		if err := r.Transfers().Save(ctx, t); err != nil {
			return err
		}

		out = toTransferOutput(t, nil)
		return nil
	})
	if err != nil {
		return TransferOutput{}, err
	}
	return out, nil
}

// InTransit → Received。実数を転送先へ計上する。
// 期待数量との差異は記録するだけで完了を妨げない。
func (u *TransferUsecase) Receive(ctx context.Context, id int64, actualQuantity int64) (TransferOutput, error) {
	if actualQuantity < 0 {
		return TransferOutput{}, NewHTTPError(http.StatusBadRequest, "invalid actual_quantity")
	}

	var out TransferOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		t, err := r.Transfers().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t.State != model.TransferStateInTransit {
			return ErrInvalidState
		}

		s, err := r.Stock().FindForUpdate(ctx, t.VariantID, t.DestinationLocationID)
		if errors.Is(err, repo.ErrNotFound) {
			//転送先で初めて扱うvariantならレコードを起こす
			s, err = r.Stock().Create(ctx, model.StockRecord{
				VariantID:  t.VariantID,
				LocationID: t.DestinationLocationID,
			})
		}
		if err != nil {
			return err
		}

		before := s.QuantityOnHand
		s.QuantityOnHand += actualQuantity

		var fills []BackorderFill
		if actualQuantity > 0 {
			fills, err = fillBackorders(ctx, r, &s)
			if err != nil {
				return err
			}
		}

		if err := r.Stock().Save(ctx, s); err != nil {
			return err
		}
		if err := recordMovement(ctx, r, s, model.MovementTypeTransferIn, actualQuantity, before, "transfer", trackingRef(t.ID), ""); err != nil {
			return err
		}

		t.ReceivedQuantity = &actualQuantity
		t.State = model.TransferStateReceived
		if err := r.Transfers().Save(ctx, t); err != nil {
			return err
		}

		out = toTransferOutput(t, fills)
		return nil
	})
	if err != nil {
		return TransferOutput{}, err
	}
	return out, nil
}

// キャンセルはPendingのみ（在庫を動かす前）。
func (u *TransferUsecase) Cancel(ctx context.Context, id int64) (TransferOutput, error) {
	var out TransferOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		t, err := r.Transfers().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t.State != model.TransferStatePending {
			return ErrInvalidState
		}

		t.State = model.TransferStateCancelled
		if err := r.Transfers().Save(ctx, t); err != nil {
			return err
		}

		out = toTransferOutput(t, nil)
		return nil
	})
	if err != nil {
		return TransferOutput{}, err
	}
	return out, nil
}

func (u *TransferUsecase) Get(ctx context.Context, id int64) (TransferOutput, error) {
	var out TransferOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		t, err := r.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = toTransferOutput(t, nil)
		return nil
	})
	if err != nil {
		return TransferOutput{}, err
	}
	return out, nil
}

func (u *TransferUsecase) withRetry(ctx context.Context, fn func(r repo.TxRepos) error) error {
	var err error
	for i := 0; i < contentionAttempts; i++ {
		if i > 0 {
			time.Sleep(time.Duration(i) * contentionBackoff)
		}
		err = u.tx.WithinTx(ctx, fn)
		if !errors.Is(err, repo.ErrContention) {
			return err
		}
	}
	return err
}

func trackingRef(transferID int64) string {
	return strconv.FormatInt(transferID, 10)
}

func toTransferOutput(t model.StockTransfer, fills []BackorderFill) TransferOutput {
	return TransferOutput{
		ID:                    t.ID,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		VariantID:             t.VariantID,
		ExpectedQuantity:      t.ExpectedQuantity,
		ReceivedQuantity:      t.ReceivedQuantity,
		State:                 string(t.State),
		TrackingNumber:        t.TrackingNumber,
		Discrepancy:           t.Discrepancy(),
		Fills:                 fills,
	}
}
