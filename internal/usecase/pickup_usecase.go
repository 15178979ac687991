package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/notification"
	repo "app/internal/repository"
)

// 受け取りコードの文字種。見間違えやすい 0/O/1/I/L/5/S は除外。
const pickupCodeAlphabet = "ABCDEFGHJKMNPQRTUVWXYZ2346789"

const (
	pickupCodeLength   = 6
	pickupCodeAttempts = 10
	notifyTimeout      = 5 * time.Second
)

type PickupUsecase struct {
	tx       repo.TransactionManager
	notifier notification.Notifier
}

// DI
func NewPickupUsecase(tx repo.TransactionManager, notifier notification.Notifier) *PickupUsecase {
	return &PickupUsecase{tx: tx, notifier: notifier}
}

type PickupItemInput struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity"`
}

type CreatePickupInput struct {
	OrderRef   string
	LocationID int64
	Items      []PickupItemInput
}

type PickupItemOutput struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity"`
}

type PickupOutput struct {
	ID         int64              `json:"id"`
	OrderRef   string             `json:"order_ref"`
	LocationID int64              `json:"location_id"`
	State      string             `json:"state"`
	ReadyAt    *time.Time         `json:"ready_at,omitempty"`
	PickedUpAt *time.Time         `json:"picked_up_at,omitempty"`
	Items      []PickupItemOutput `json:"items"`

	// コードはReady遷移のレスポンスでのみ返す（店舗スタッフが顧客へ伝える）
	Code string `json:"code,omitempty"`
}

// 受け取り作成。拠点の各明細を引当して保持する。
func (u *PickupUsecase) Create(ctx context.Context, in CreatePickupInput) (PickupOutput, error) {
	if strings.TrimSpace(in.OrderRef) == "" {
		return PickupOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order_ref")
	}
	if in.LocationID <= 0 {
		return PickupOutput{}, NewHTTPError(http.StatusBadRequest, "invalid location_id")
	}
	if len(in.Items) == 0 {
		return PickupOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	for _, it := range in.Items {
		if it.VariantID <= 0 || it.Quantity <= 0 {
			return PickupOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}

	var out PickupOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		loc, err := r.Locations().FindByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if !loc.Active || !loc.PickupEnabled {
			return NewHTTPError(http.StatusConflict, "location does not support pickup")
		}

		//明細ごとに引当。店舗受け取りは全量引当できる場合のみ作成し、
		//backorderには回さない（Cancel時の解放数と明細数量を一致させる）。
		for _, it := range in.Items {
			if _, _, err := reserveStock(ctx, r, it.VariantID, in.LocationID, it.Quantity, in.OrderRef, false); err != nil {
				return err
			}
		}

		p, err := r.Pickups().Create(ctx, model.StorePickup{
			OrderRef:   in.OrderRef,
			LocationID: in.LocationID,
			State:      model.PickupStatePending,
		})
		if err != nil {
			return err
		}

		items := make([]model.PickupItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, model.PickupItem{VariantID: it.VariantID, Quantity: it.Quantity})
		}
		if err := r.Pickups().CreateItems(ctx, p.ID, items); err != nil {
			return err
		}

		out = toPickupOutput(p, items, false)
		return nil
	})
	if err != nil {
		return PickupOutput{}, err
	}
	return out, nil
}

// Pending → Ready。コードを発行し、準備完了通知を投げる。
func (u *PickupUsecase) MarkReady(ctx context.Context, id int64) (PickupOutput, error) {
	var out PickupOutput
	var ready model.StorePickup

	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		p, err := r.Pickups().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.State != model.PickupStatePending {
			return ErrInvalidState
		}

		//コード未発行なら発行。同一拠点の未完了受け取りと衝突しないこと。
		if p.Code == "" {
			code, err := u.issueCode(ctx, r, p.LocationID)
			if err != nil {
				return err
			}
			p.Code = code
		}

		now := time.Now()
		p.State = model.PickupStateReady
		p.ReadyAt = &now
		if err := r.Pickups().Save(ctx, p); err != nil {
			return err
		}

		items, err := r.Pickups().ListItems(ctx, p.ID)
		if err != nil {
			return err
		}

		ready = p
		out = toPickupOutput(p, items, true)
		return nil
	})
	if err != nil {
		return PickupOutput{}, err
	}

	//fire-and-forget。通知失敗は受け取りの状態に影響しない。
	go func(p model.StorePickup) {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		_ = u.notifier.PickupReady(nctx, p)
	}(ready)

	return out, nil
}

// Ready → PickedUp。提示コードの照合に成功したら引当を確定する。
func (u *PickupUsecase) Complete(ctx context.Context, id int64, presentedCode string) (PickupOutput, error) {
	var out PickupOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		p, err := r.Pickups().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.State != model.PickupStateReady {
			return ErrInvalidState
		}

		//大文字小文字は区別しない
		if !strings.EqualFold(strings.TrimSpace(presentedCode), p.Code) {
			return ErrCodeMismatch
		}

		items, err := r.Pickups().ListItems(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if _, err := confirmStock(ctx, r, it.VariantID, p.LocationID, it.Quantity, "pickup", p.OrderRef); err != nil {
				return err
			}
		}

		now := time.Now()
		p.State = model.PickupStatePickedUp
		p.PickedUpAt = &now
		if err := r.Pickups().Save(ctx, p); err != nil {
			return err
		}

		out = toPickupOutput(p, items, false)
		return nil
	})
	if err != nil {
		return PickupOutput{}, err
	}
	return out, nil
}

// Pending / Ready → Cancelled。保持している引当を解放する。
func (u *PickupUsecase) Cancel(ctx context.Context, id int64) (PickupOutput, error) {
	var out PickupOutput
	err := u.withRetry(ctx, func(r repo.TxRepos) error {
		p, err := r.Pickups().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !p.CanCancel() {
			return ErrInvalidState
		}

		items, err := r.Pickups().ListItems(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if _, err := releaseStock(ctx, r, it.VariantID, p.LocationID, it.Quantity); err != nil {
				return err
			}
		}

		p.State = model.PickupStateCancelled
		if err := r.Pickups().Save(ctx, p); err != nil {
			return err
		}

		out = toPickupOutput(p, items, false)
		return nil
	})
	if err != nil {
		return PickupOutput{}, err
	}
	return out, nil
}

func (u *PickupUsecase) Get(ctx context.Context, id int64) (PickupOutput, error) {
	var out PickupOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Pickups().FindByID(ctx, id)
		if err != nil {
			return err
		}
		items, err := r.Pickups().ListItems(ctx, p.ID)
		if err != nil {
			return err
		}
		out = toPickupOutput(p, items, false)
		return nil
	})
	if err != nil {
		return PickupOutput{}, err
	}
	return out, nil
}

// 拠点内で未使用のコードを発行する
func (u *PickupUsecase) issueCode(ctx context.Context, r repo.TxRepos, locationID int64) (string, error) {
	for i := 0; i < pickupCodeAttempts; i++ {
		code, err := newPickupCode()
		if err != nil {
			return "", err
		}
		inUse, err := r.Pickups().CodeInUse(ctx, locationID, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", errors.New("pickup code space exhausted")
}

func newPickupCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(pickupCodeAlphabet)))
	for i := 0; i < pickupCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(pickupCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func (u *PickupUsecase) withRetry(ctx context.Context, fn func(r repo.TxRepos) error) error {
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

func toPickupOutput(p model.StorePickup, items []model.PickupItem, withCode bool) PickupOutput {
	outItems := make([]PickupItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, PickupItemOutput{VariantID: it.VariantID, Quantity: it.Quantity})
	}

	out := PickupOutput{
		ID:         p.ID,
		OrderRef:   p.OrderRef,
		LocationID: p.LocationID,
		State:      string(p.State),
		ReadyAt:    p.ReadyAt,
		PickedUpAt: p.PickedUpAt,
		Items:      outItems,
	}
	if withCode {
		out.Code = p.Code
	}
	return out
}
