package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-bidding-service/internal/config"
	"marketplace-bidding-service/internal/controller"
	"marketplace-bidding-service/internal/middleware"
	"marketplace-bidding-service/internal/rabbit"
	"marketplace-bidding-service/internal/repository"
	"marketplace-bidding-service/internal/service"
	"marketplace-bidding-service/internal/worker"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	cfg := config.Load()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logrus.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Repositorios
	productRepo := repository.NewMongoProductRepository(db)
	bidRepo := repository.NewMongoBidRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	shopRepo := repository.NewMongoShopRepository(db)
	notificationRepo := repository.NewMongoNotificationRepository(db)

	// Conexión a RabbitMQ (notificaciones)
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		logrus.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	notifier, err := rabbit.NewPublisher(ch, cfg.NotifyExchange)
	if err != nil {
		logrus.Fatalf("Error declarando exchange de notificaciones: %v", err)
	}

	// Servicios
	authService := service.NewAuthService(cfg.JWTSecret)
	bidService := service.NewBidService(productRepo, bidRepo, notifier)
	auctionService := service.NewAuctionService(productRepo, orderRepo, notifier)
	orderService := service.NewOrderService(orderRepo, productRepo, bidRepo, shopRepo, notifier, cfg.ServiceChargeRate)
	notificationService := service.NewNotificationService(notificationRepo)

	// Handlers
	bidCtrl := controller.NewBidController(bidService)
	auctionCtrl := controller.NewAuctionController(auctionService, cfg.SweepTriggerKey)
	orderCtrl := controller.NewOrderController(orderService)
	productCtrl := controller.NewProductController(auctionService)
	notificationCtrl := controller.NewNotificationController(notificationService)

	// Router
	r := gin.Default()
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userAuth := middleware.UserAuth(authService)
	sellerAuth := middleware.SellerAuth(authService)

	// Ofertas
	bids := r.Group("/bid")
	bids.GET("/product/:productId", bidCtrl.GetBidsByProduct)
	bids.POST("/", userAuth, bidCtrl.PlaceUserBid)
	bids.GET("/user", userAuth, bidCtrl.GetUserBids)
	bids.PUT("/:bidId/status", userAuth, bidCtrl.UpdateStatusAsUser)
	bids.PUT("/:bidId/checkout", userAuth, bidCtrl.Checkout)
	bids.POST("/seller-bid", sellerAuth, bidCtrl.PlaceSellerBid)
	bids.GET("/seller", sellerAuth, bidCtrl.GetSellerBids)
	bids.GET("/seller-placed", sellerAuth, bidCtrl.GetSellerPlacedBids)
	bids.PUT("/:bidId/seller-status", sellerAuth, bidCtrl.UpdateStatusAsSeller)

	// Subastas
	auctions := r.Group("/auction")
	auctions.GET("/active", auctionCtrl.GetActive)
	auctions.GET("/details/:id", auctionCtrl.GetDetails)
	auctions.POST("/check-expired", auctionCtrl.CheckExpired)
	auctions.GET("/my-bids", userAuth, auctionCtrl.GetMyBids)
	auctions.GET("/won-auctions", userAuth, auctionCtrl.GetWonAuctions)
	auctions.POST("/:id/end", sellerAuth, auctionCtrl.EndAuction)

	// Compra inmediata
	r.POST("/product/buy-now", userAuth, productCtrl.BuyNow)

	// Órdenes
	orders := r.Group("/order")
	orders.POST("/create-order", userAuth, orderCtrl.CreateOrder)
	orders.GET("/user", userAuth, orderCtrl.GetUserOrders)
	orders.PUT("/:orderId/refund-request", userAuth, orderCtrl.RequestRefund)
	orders.GET("/seller", sellerAuth, orderCtrl.GetSellerOrders)
	orders.PUT("/:orderId/status", sellerAuth, orderCtrl.UpdateStatusAsSeller)
	orders.PUT("/:orderId/refund-success", sellerAuth, orderCtrl.AcceptRefund)

	// Notificaciones
	notifications := r.Group("/notification")
	notifications.GET("/user", userAuth, notificationCtrl.GetUserNotifications)
	notifications.GET("/seller", sellerAuth, notificationCtrl.GetSellerNotifications)

	// Consumer de notificaciones
	rabbit.SetupConsumers(ch, cfg.NotifyExchange, cfg.NotifyQueue, notificationRepo)

	// Barrido periódico de subastas vencidas
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	sweeper := worker.NewSweeper(auctionService, cfg.SweepInterval)
	go sweeper.Start(workerCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		stopWorker()
	}()

	// Ejecutar servidor
	logrus.Infof("Marketplace Bidding Service ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatal(err)
	}
}
