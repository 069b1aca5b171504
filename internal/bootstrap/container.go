package bootstrap

import (
	"log"
	"time"

	"perfumeshop-be/internal/config"
	"perfumeshop-be/internal/controller"
	"perfumeshop-be/internal/pkg/logger"
	"perfumeshop-be/internal/pkg/sms"
	"perfumeshop-be/internal/repository/memory"
	"perfumeshop-be/internal/repository/unitofwork"
	"perfumeshop-be/internal/service"
	"perfumeshop-be/pkg/gateway/kakaopay"
	"perfumeshop-be/pkg/store"

	pktNats "perfumeshop-be/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CartController     controller.ICartController
	CheckoutController controller.ICheckoutController
	OrderController    controller.IOrderController
	PayController      controller.IPayController
	RefundController   controller.IRefundController

	// Background Services (Exposed for main.go to run)
	ConsumerService *service.ConsumerService

	// Services shared with the scheduler binary.
	DeliveryService service.IDeliveryService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	checkoutStash, err := store.NewCheckoutStash(cfg.App.RedisURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to Redis: %v", err)
	}

	productCache := memory.NewProductCache()

	gateway := kakaopay.NewClient(cfg.Kakao.BaseURL, cfg.Kakao.SecretKey, cfg.Kakao.CID)
	smsSender := sms.NewSender(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.APISecret, cfg.SMS.SenderLine)

	// 3. Services
	orderService := service.NewOrderService(uowFactory)
	payService := service.NewPayService(uowFactory, orderService, gateway, natsPub, cfg.App.BaseURL)
	refundService := service.NewRefundService(uowFactory, orderService, gateway, natsPub)
	cartService := service.NewCartService(uowFactory)
	checkoutService := service.NewCheckoutService(uowFactory, checkoutStash, productCache)
	deliveryService := service.NewDeliveryService(
		uowFactory,
		orderService,
		time.Duration(cfg.App.PendingTimeoutMinutes)*time.Minute,
	)

	var consumerService *service.ConsumerService
	if natsSub != nil {
		workerLogger := logger.NewIsolatedLogger("logs/notifier.log")
		consumerService = service.NewConsumerService(natsSub, uowFactory, smsSender, workerLogger)
	}

	// 4. Controllers
	return &Container{
		CartController:     controller.NewCartController(cartService),
		CheckoutController: controller.NewCheckoutController(checkoutService),
		OrderController:    controller.NewOrderController(orderService),
		PayController:      controller.NewPayController(payService),
		RefundController:   controller.NewRefundController(refundService),
		ConsumerService:    consumerService,
		DeliveryService:    deliveryService,
		Logger:             sysLogger,
	}
}

// NewSchedulerContainer wires only what the cron binary needs: no HTTP
// surface, no gateway, no event bus.
func NewSchedulerContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	orderService := service.NewOrderService(uowFactory)
	deliveryService := service.NewDeliveryService(
		uowFactory,
		orderService,
		time.Duration(cfg.App.PendingTimeoutMinutes)*time.Minute,
	)

	return &Container{
		DeliveryService: deliveryService,
		Logger:          logger.NewIsolatedLogger("logs/scheduler.log"),
	}
}
