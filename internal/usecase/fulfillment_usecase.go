package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type StrategyKind string

const (
	StrategyNearest       StrategyKind = "nearest"
	StrategyHighestStock  StrategyKind = "highest_stock"
	StrategyCostOptimized StrategyKind = "cost_optimized"
	StrategyPreferred     StrategyKind = "preferred"
)

// 配送コスト関数（外部コラボレータ）。cost_optimizedで使う。
type ShippingCostFunc func(l model.Location, destLat, destLng, weightKg float64) float64

type FulfillmentContext struct {
	CustomerLat         float64 `json:"customer_lat"`
	CustomerLng         float64 `json:"customer_lng"`
	PreferredLocationID int64   `json:"preferred_location_id,omitempty"`
	WeightKg            float64 `json:"weight_kg,omitempty"`
}

type SelectLocationInput struct {
	Strategy  StrategyKind
	VariantID int64
	Quantity  int64

	// 空なら稼働中の全拠点が候補
	CandidateLocationIDs []int64

	Context FulfillmentContext
}

type SelectLocationOutput struct {
	Location       model.Location `json:"location"`
	CountAvailable int64          `json:"count_available"`

	// 引当可能数不足でbackorder前提の選択になったか
	Backordered bool `json:"backordered"`
}

type FulfillmentUsecase struct {
	locations    repo.LocationRepository
	stock        repo.StockRecordRepository
	shippingCost ShippingCostFunc
}

// DI（shippingCostはnil可。nilだとcost_optimizedは使えない）
func NewFulfillmentUsecase(
	locations repo.LocationRepository,
	stock repo.StockRecordRepository,
	shippingCost ShippingCostFunc,
) *FulfillmentUsecase {
	return &FulfillmentUsecase{
		locations:    locations,
		stock:        stock,
		shippingCost: shippingCost,
	}
}

type candidate struct {
	loc   model.Location
	stock model.StockRecord
}

// 戦略に従って注文行を引き受ける拠点を選ぶ。
func (u *FulfillmentUsecase) SelectLocation(ctx context.Context, in SelectLocationInput) (SelectLocationOutput, error) {
	if in.VariantID <= 0 {
		return SelectLocationOutput{}, NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}
	if in.Quantity <= 0 {
		return SelectLocationOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.Strategy == StrategyCostOptimized && u.shippingCost == nil {
		return SelectLocationOutput{}, NewHTTPError(http.StatusBadRequest, "shipping cost function not configured")
	}

	candidates, err := u.loadCandidates(ctx, in)
	if err != nil {
		return SelectLocationOutput{}, err
	}

	//引当可能数が足りる候補を優先。無ければbackorder可の候補で続行。
	sufficient := make([]candidate, 0, len(candidates))
	backorderable := make([]candidate, 0)
	for _, c := range candidates {
		if c.stock.CountAvailable() >= in.Quantity {
			sufficient = append(sufficient, c)
		} else if c.stock.Backorderable {
			backorderable = append(backorderable, c)
		}
	}

	pool := sufficient
	backordered := false
	if len(pool) == 0 {
		pool = backorderable
		backordered = true
	}
	if len(pool) == 0 {
		return SelectLocationOutput{}, ErrNoFulfillableLocation
	}

	var chosen *candidate
	switch in.Strategy {
	case StrategyNearest:
		chosen = pickNearest(pool, in.Context)
	case StrategyHighestStock:
		chosen = pickHighestStock(pool)
	case StrategyCostOptimized:
		chosen = pickCheapest(pool, in.Context, u.shippingCost)
	case StrategyPreferred:
		chosen = pickPreferred(pool, in.Context)
	default:
		return SelectLocationOutput{}, NewHTTPError(http.StatusBadRequest, "unknown strategy")
	}

	if chosen == nil {
		return SelectLocationOutput{}, ErrNoFulfillableLocation
	}

	return SelectLocationOutput{
		Location:       chosen.loc,
		CountAvailable: chosen.stock.CountAvailable(),
		Backordered:    backordered,
	}, nil
}

// 候補拠点と在庫を突き合わせる。無効な拠点と在庫レコードの無い拠点は除外。
func (u *FulfillmentUsecase) loadCandidates(ctx context.Context, in SelectLocationInput) ([]candidate, error) {
	var locations []model.Location
	var err error
	if len(in.CandidateLocationIDs) > 0 {
		locations, err = u.locations.ListByIDs(ctx, in.CandidateLocationIDs)
	} else {
		locations, err = u.locations.List(ctx, true)
	}
	if err != nil {
		return nil, err
	}

	records, err := u.stock.ListByVariant(ctx, in.VariantID)
	if err != nil {
		return nil, err
	}
	byLocation := make(map[int64]model.StockRecord, len(records))
	for _, s := range records {
		byLocation[s.LocationID] = s
	}

	candidates := make([]candidate, 0, len(locations))
	for _, l := range locations {
		if !l.Active {
			continue
		}
		s, ok := byLocation[l.ID]
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{loc: l, stock: s})
	}
	return candidates, nil
}

// 最短距離。同距離はpriorityの小さい方、それも同じならidの小さい方。
func pickNearest(pool []candidate, fctx FulfillmentContext) *candidate {
	var best *candidate
	var bestDist float64
	for i := range pool {
		c := &pool[i]
		d := c.loc.DistanceKm(fctx.CustomerLat, fctx.CustomerLng)
		if best == nil || d < bestDist ||
			(d == bestDist && lowerPriority(c.loc, best.loc)) {
			best = c
			bestDist = d
		}
	}
	return best
}

// 出荷可能な拠点の中で引当可能数最大。同数はpriorityの小さい方。
func pickHighestStock(pool []candidate) *candidate {
	var best *candidate
	for i := range pool {
		c := &pool[i]
		if !c.loc.ShipEnabled {
			continue
		}
		if best == nil ||
			c.stock.CountAvailable() > best.stock.CountAvailable() ||
			(c.stock.CountAvailable() == best.stock.CountAvailable() && lowerPriority(c.loc, best.loc)) {
			best = c
		}
	}
	return best
}

func pickCheapest(pool []candidate, fctx FulfillmentContext, costFn ShippingCostFunc) *candidate {
	var best *candidate
	var bestCost float64
	for i := range pool {
		c := &pool[i]
		cost := costFn(c.loc, fctx.CustomerLat, fctx.CustomerLng, fctx.WeightKg)
		if best == nil || cost < bestCost ||
			(cost == bestCost && lowerPriority(c.loc, best.loc)) {
			best = c
			bestCost = cost
		}
	}
	return best
}

// 希望拠点に在庫があればそれ、無ければ最短距離にフォールバック。
func pickPreferred(pool []candidate, fctx FulfillmentContext) *candidate {
	if fctx.PreferredLocationID > 0 {
		for i := range pool {
			if pool[i].loc.ID == fctx.PreferredLocationID {
				return &pool[i]
			}
		}
	}
	return pickNearest(pool, fctx)
}

func lowerPriority(a, b model.Location) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.ID < b.ID
}
