package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ErrContentionの内部リトライ上限
const (
	contentionAttempts = 3
	contentionBackoff  = 20 * time.Millisecond
)

type ReservationUsecase struct {
	tx repo.TransactionManager
}

// DI
func NewReservationUsecase(tx repo.TransactionManager) *ReservationUsecase {
	return &ReservationUsecase{tx: tx}
}

type StockOutput struct {
	VariantID           int64 `json:"variant_id"`
	LocationID          int64 `json:"location_id"`
	QuantityOnHand      int64 `json:"quantity_on_hand"`
	QuantityReserved    int64 `json:"quantity_reserved"`
	QuantityBackordered int64 `json:"quantity_backordered"`
	CountAvailable      int64 `json:"count_available"`
	Backorderable       bool  `json:"backorderable"`
}

// 入荷時に充当された入荷待ち（オーケストレータが通知などを行う）
type BackorderFill struct {
	BackorderID int64  `json:"backorder_id"`
	OrderRef    string `json:"order_ref"`
	Quantity    int64  `json:"quantity"`
	Remaining   int64  `json:"remaining"`
}

type ReserveInput struct {
	VariantID  int64
	LocationID int64
	Quantity   int64
	OrderRef   string
}

type ReserveOutput struct {
	Stock StockOutput `json:"stock"`

	// backorderに回った数量（0なら全量引当済み）
	BackorderedQuantity int64 `json:"backordered_quantity"`
}

type ReleaseInput struct {
	VariantID  int64
	LocationID int64
	Quantity   int64
}

type ConfirmInput struct {
	VariantID     int64
	LocationID    int64
	Quantity      int64
	ReferenceType string
	ReferenceID   string
}

type AdjustInput struct {
	VariantID     int64
	LocationID    int64
	Delta         int64
	Originator    string
	ReferenceType string
	ReferenceID   string
}

type AdjustOutput struct {
	Stock StockOutput     `json:"stock"`
	Fills []BackorderFill `json:"fills"`
}

// 引当。引当可能数が足りないときはbackorderable時のみ不足分を入荷待ちへ。
func (u *ReservationUsecase) Reserve(ctx context.Context, in ReserveInput) (ReserveOutput, error) {
	if in.Quantity <= 0 {
		return ReserveOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out ReserveOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		s, backordered, err := reserveStock(ctx, r, in.VariantID, in.LocationID, in.Quantity, in.OrderRef, true)
		if err != nil {
			return err
		}
		out = ReserveOutput{Stock: toStockOutput(s), BackorderedQuantity: backordered}
		return nil
	})
	if err != nil {
		return ReserveOutput{}, err
	}
	return out, nil
}

// 引当解放。予約数を超える分は切り詰める（過剰解放の管理は呼び出し側の責務）。
func (u *ReservationUsecase) Release(ctx context.Context, in ReleaseInput) (StockOutput, error) {
	if in.Quantity <= 0 {
		return StockOutput{}, ErrInvalidReleaseQuantity
	}

	var out StockOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		s, err := releaseStock(ctx, r, in.VariantID, in.LocationID, in.Quantity)
		if err != nil {
			return err
		}
		out = toStockOutput(s)
		return nil
	})
	if err != nil {
		return StockOutput{}, err
	}
	return out, nil
}

// 出荷・受け渡し確定。on_handとreservedを同時に減らす。
func (u *ReservationUsecase) Confirm(ctx context.Context, in ConfirmInput) (StockOutput, error) {
	if in.Quantity <= 0 {
		return StockOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out StockOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		s, err := confirmStock(ctx, r, in.VariantID, in.LocationID, in.Quantity, in.ReferenceType, in.ReferenceID)
		if err != nil {
			return err
		}
		out = toStockOutput(s)
		return nil
	})
	if err != nil {
		return StockOutput{}, err
	}
	return out, nil
}

// 在庫調整（入荷・棚卸・返品・減耗）。増加時は入荷待ちをFIFOで充当する。
func (u *ReservationUsecase) Adjust(ctx context.Context, in AdjustInput) (AdjustOutput, error) {
	if in.Delta == 0 {
		return AdjustOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delta")
	}

	var out AdjustOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		s, err := r.Stock().FindForUpdate(ctx, in.VariantID, in.LocationID)
		if err != nil {
			return err
		}

		if s.QuantityOnHand+in.Delta < 0 {
			return ErrNegativeOnHand
		}
		//非backorderableでは引当分を下回る減耗を認めない（available < 0 になる）
		if in.Delta < 0 && !s.Backorderable && s.QuantityOnHand+in.Delta < s.QuantityReserved {
			return ErrNegativeOnHand
		}

		before := s.QuantityOnHand
		s.QuantityOnHand += in.Delta

		var fills []BackorderFill
		if in.Delta > 0 {
			fills, err = fillBackorders(ctx, r, &s)
			if err != nil {
				return err
			}
		}

		if err := r.Stock().Save(ctx, s); err != nil {
			return err
		}
		if err := recordMovement(ctx, r, s, model.MovementTypeAdjust, in.Delta, before, in.ReferenceType, in.ReferenceID, in.Originator); err != nil {
			return err
		}

		out = AdjustOutput{Stock: toStockOutput(s), Fills: fills}
		return nil
	})
	if err != nil {
		return AdjustOutput{}, err
	}
	return out, nil
}

// 在庫の現在値。locationID=0ならvariantの全拠点分。
func (u *ReservationUsecase) GetStock(ctx context.Context, variantID, locationID int64) ([]StockOutput, error) {
	if variantID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}

	var outs []StockOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if locationID > 0 {
			s, err := r.Stock().FindByVariantLocation(ctx, variantID, locationID)
			if err != nil {
				return err
			}
			outs = []StockOutput{toStockOutput(s)}
			return nil
		}

		records, err := r.Stock().ListByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		outs = make([]StockOutput, 0, len(records))
		for _, s := range records {
			outs = append(outs, toStockOutput(s))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

type MovementOutput struct {
	ID            int64     `json:"id"`
	VariantID     int64     `json:"variant_id"`
	LocationID    int64     `json:"location_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	OnHandBefore  int64     `json:"on_hand_before"`
	OnHandAfter   int64     `json:"on_hand_after"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	Originator    string    `json:"originator,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// 在庫操作履歴（新しい順）
func (u *ReservationUsecase) ListMovements(ctx context.Context, variantID, locationID int64, limit int) ([]MovementOutput, error) {
	if variantID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}
	if locationID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid location_id")
	}

	var outs []MovementOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		movements, err := r.Movements().ListByVariantLocation(ctx, variantID, locationID, limit)
		if err != nil {
			return err
		}
		outs = make([]MovementOutput, 0, len(movements))
		for _, m := range movements {
			outs = append(outs, MovementOutput{
				ID:            m.ID,
				VariantID:     m.VariantID,
				LocationID:    m.LocationID,
				Type:          string(m.Type),
				Quantity:      m.Quantity,
				OnHandBefore:  m.OnHandBefore,
				OnHandAfter:   m.OnHandAfter,
				ReferenceType: m.ReferenceType,
				ReferenceID:   m.ReferenceID,
				Originator:    m.OriginatorName,
				CreatedAt:     m.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// ErrContentionだけ有限回リトライしてから呼び出し側へ返す
func (u *ReservationUsecase) withRetry(ctx context.Context, fn func(r repo.TxRepos) error) error {
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

// =====================
// Tx内で共有する在庫操作（pickup/transferのusecaseからも使う）
// =====================

// allowBackorder=falseは全量引当できない場合に失敗する（店舗受け取り用）
func reserveStock(ctx context.Context, r repo.TxRepos, variantID, locationID, qty int64, orderRef string, allowBackorder bool) (model.StockRecord, int64, error) {
	s, err := r.Stock().FindForUpdate(ctx, variantID, locationID)
	if err != nil {
		return model.StockRecord{}, 0, err
	}

	avail := s.CountAvailable()
	var backordered int64

	if avail >= qty {
		s.QuantityReserved += qty
	} else if allowBackorder && s.Backorderable {
		//引当できる分は引当し、残りは入荷待ちへ
		take := avail
		if take < 0 {
			take = 0
		}
		s.QuantityReserved += take
		backordered = qty - take
		s.QuantityBackordered += backordered

		if _, err := r.Backorders().Create(ctx, model.Backorder{
			VariantID:  variantID,
			LocationID: locationID,
			OrderRef:   orderRef,
			Quantity:   backordered,
			Remaining:  backordered,
		}); err != nil {
			return model.StockRecord{}, 0, err
		}
	} else {
		return model.StockRecord{}, 0, ErrInsufficientStock
	}

	if err := r.Stock().Save(ctx, s); err != nil {
		return model.StockRecord{}, 0, err
	}
	if err := recordMovement(ctx, r, s, model.MovementTypeReserve, qty, s.QuantityOnHand, "order", orderRef, ""); err != nil {
		return model.StockRecord{}, 0, err
	}

	return s, backordered, nil
}

func releaseStock(ctx context.Context, r repo.TxRepos, variantID, locationID, qty int64) (model.StockRecord, error) {
	if qty <= 0 {
		return model.StockRecord{}, ErrInvalidReleaseQuantity
	}

	s, err := r.Stock().FindForUpdate(ctx, variantID, locationID)
	if err != nil {
		return model.StockRecord{}, err
	}

	release := qty
	if release > s.QuantityReserved {
		release = s.QuantityReserved
	}
	s.QuantityReserved -= release

	if err := r.Stock().Save(ctx, s); err != nil {
		return model.StockRecord{}, err
	}
	if err := recordMovement(ctx, r, s, model.MovementTypeRelease, release, s.QuantityOnHand, "", "", ""); err != nil {
		return model.StockRecord{}, err
	}

	return s, nil
}

func confirmStock(ctx context.Context, r repo.TxRepos, variantID, locationID, qty int64, refType, refID string) (model.StockRecord, error) {
	s, err := r.Stock().FindForUpdate(ctx, variantID, locationID)
	if err != nil {
		return model.StockRecord{}, err
	}

	if s.QuantityReserved < qty {
		return model.StockRecord{}, ErrReservationMismatch
	}

	before := s.QuantityOnHand
	s.QuantityOnHand -= qty
	s.QuantityReserved -= qty

	if err := r.Stock().Save(ctx, s); err != nil {
		return model.StockRecord{}, err
	}
	if err := recordMovement(ctx, r, s, model.MovementTypeConfirm, qty, before, refType, refID, ""); err != nil {
		return model.StockRecord{}, err
	}

	return s, nil
}

// 入荷増分を入荷待ちへFIFOで充当する。部分充当は分割し、
// 充当分は引当（reserved）へ移す。sは呼び出し側でSaveする。
func fillBackorders(ctx context.Context, r repo.TxRepos, s *model.StockRecord) ([]BackorderFill, error) {
	fillable := s.CountAvailable()
	if fillable <= 0 || s.QuantityBackordered <= 0 {
		return nil, nil
	}

	backorders, err := r.Backorders().ListOpenFIFO(ctx, s.VariantID, s.LocationID)
	if err != nil {
		return nil, err
	}

	var fills []BackorderFill
	for _, b := range backorders {
		if fillable <= 0 {
			break
		}

		take := b.Remaining
		if take > fillable {
			take = fillable
		}

		b.Remaining -= take
		if err := r.Backorders().Save(ctx, b); err != nil {
			return nil, err
		}

		s.QuantityReserved += take
		s.QuantityBackordered -= take
		fillable -= take

		//充当もon_hand基準の履歴に残す（on_hand自体は動かない）
		if err := recordMovement(ctx, r, *s, model.MovementTypeBackorderFill, take, s.QuantityOnHand, "backorder", b.OrderRef, ""); err != nil {
			return nil, err
		}

		fills = append(fills, BackorderFill{
			BackorderID: b.ID,
			OrderRef:    b.OrderRef,
			Quantity:    take,
			Remaining:   b.Remaining,
		})
	}

	return fills, nil
}

func recordMovement(ctx context.Context, r repo.TxRepos, s model.StockRecord, typ model.MovementType, qty, before int64, refType, refID, originator string) error {
	return r.Movements().Create(ctx, model.StockMovement{
		VariantID:      s.VariantID,
		LocationID:     s.LocationID,
		Type:           typ,
		Quantity:       qty,
		OnHandBefore:   before,
		OnHandAfter:    s.QuantityOnHand,
		ReferenceType:  refType,
		ReferenceID:    refID,
		OriginatorName: originator,
	})
}

func toStockOutput(s model.StockRecord) StockOutput {
	return StockOutput{
		VariantID:           s.VariantID,
		LocationID:          s.LocationID,
		QuantityOnHand:      s.QuantityOnHand,
		QuantityReserved:    s.QuantityReserved,
		QuantityBackordered: s.QuantityBackordered,
		CountAvailable:      s.CountAvailable(),
		Backorderable:       s.Backorderable,
	}
}
