package main

import (
	"log"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/notification"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

// 距離比例のフラットレート。cost_optimized戦略の既定コラボレータ。
func flatRateShippingCost(l model.Location, destLat, destLng, weightKg float64) float64 {
	const (
		baseCost  = 3.0
		perKm     = 0.05
		perKg     = 0.5
		minWeight = 1.0
	)
	w := weightKg
	if w < minWeight {
		w = minWeight
	}
	return baseCost + perKm*l.DistanceKm(destLat, destLng) + perKg*w
}

func main() {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Location{},
		&model.StockRecord{},
		&model.Backorder{},
		&model.StockMovement{},
		&model.StorePickup{},
		&model.PickupItem{},
		&model.StockTransfer{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	locationRepo := infraRepo.NewLocationGormRepository(gormDB)
	stockRepo := infraRepo.NewStockRecordGormRepository(gormDB)

	//Usecase生成
	reservationUC := usecase.NewReservationUsecase(txManager)
	fulfillmentUC := usecase.NewFulfillmentUsecase(locationRepo, stockRepo, flatRateShippingCost)
	pickupUC := usecase.NewPickupUsecase(txManager, notification.NewLogNotifier())
	transferUC := usecase.NewTransferUsecase(txManager)
	locationUC := usecase.NewLocationUsecase(locationRepo, validator.NewLocationValidator())

	//Handler生成
	handlers := server.Handlers{
		Stock:       handler.NewStockHandler(reservationUC),
		Fulfillment: handler.NewFulfillmentHandler(fulfillmentUC),
		Pickup:      handler.NewPickupHandler(pickupUC),
		Transfer:    handler.NewTransferHandler(transferUC),
		Location:    handler.NewLocationHandler(locationUC),
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, handlers); err != nil {
		log.Fatal(err)
	}
}
