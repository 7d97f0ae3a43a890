package routes

import (
	"context"
	"log"
	"time"

	_ "garage_crm/docs"
	"garage_crm/internal/adapter/http/handlers"
	"garage_crm/internal/adapter/persistence/repository"
	"garage_crm/internal/config"
	"garage_crm/internal/infrastructure/cache"
	"garage_crm/internal/infrastructure/database"
	"garage_crm/internal/infrastructure/notify"
	"garage_crm/internal/infrastructure/payments"
	"garage_crm/internal/infrastructure/remote"
	"garage_crm/internal/infrastructure/scheduler"
	"garage_crm/internal/usecase"
	"garage_crm/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.New()

// Run will start the server
func Run() {
	cfg := config.Load()
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	refresher := getRoutes(cfg)
	defer refresher.Stop()

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg *config.Config) *scheduler.Refresher {
	store := newRemoteStore(cfg)

	queries := cache.NewQueryClient()
	usecase.RegisterFetchers(queries, store)
	notifier := notify.NewLogNotifier(0)
	coord := usecase.NewMutationCoordinator(queries, store, notifier)

	var gateway interfaces.IPaymentGateway
	if !cfg.Payments.MockMode {
		mp, err := payments.NewMercadoPagoGateway(cfg.Payments.AccessToken)
		if err != nil {
			log.Printf("[payment][routes] Mercado Pago gateway not configured: %v", err)
		} else {
			gateway = mp
		}
	}

	set := handlerSet{
		jobs: handlers.NewJobHandler(
			usecase.NewJobUseCase(coord, usecase.Businesses{Primary: cfg.Business.Primary, Names: cfg.Business.Names}),
			usecase.NewPaymentUseCase(coord, gateway, usecase.PaymentOptions{
				MockMode:          cfg.Payments.MockMode,
				SandboxPayerEmail: cfg.Payments.SandboxPayerEmail,
			}),
		),
		customers:     handlers.NewCustomerHandler(usecase.NewCustomerUseCase(coord)),
		appointments:  handlers.NewAppointmentHandler(usecase.NewAppointmentUseCase(coord)),
		priceInquiry:  handlers.NewPriceInquiryHandler(usecase.NewPriceInquiryUseCase(coord)),
		notifications: handlers.NewNotificationHandler(notifier),
	}
	addRoutes(router.Group("/v1"), set)

	refresher := scheduler.NewRefresher(queries, interfaces.CollectionDashboard, interfaces.CollectionAppointments)
	if err := refresher.Start(cfg.Cache.RefreshSchedule); err != nil {
		log.Printf("[cache][routes] background refresh disabled: %v", err)
	}
	return refresher
}

func newRemoteStore(cfg *config.Config) interfaces.IRemoteStore {
	if cfg.Remote.Backend != config.BackendDynamoDB {
		log.Printf("[remote][routes] using rest backend base_url=%s", cfg.Remote.BaseURL)
		return remote.NewRestStore(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ddb, err := database.ConnectDynamoDB(ctx, database.DynamoConfig{
		Region:    cfg.Dynamo.Region,
		Endpoint:  cfg.Dynamo.Endpoint,
		AccessKey: cfg.Dynamo.AccessKey,
		SecretKey: cfg.Dynamo.SecretKey,
	})
	if err != nil {
		log.Fatalf("failed to connect to dynamodb: %v", err)
	}
	log.Printf("[remote][routes] using dynamodb backend table_prefix=%s", cfg.Dynamo.TablePrefix)
	return repository.NewDynamoStore(ddb, cfg.Dynamo.TablePrefix)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
