package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	addressapp "github.com/cristianortiz/bidmarket/internal/address/application"
	addressrepo "github.com/cristianortiz/bidmarket/internal/address/infra/repository/postgres"
	addressrest "github.com/cristianortiz/bidmarket/internal/address/infra/rest"
	auctionapp "github.com/cristianortiz/bidmarket/internal/auction/application"
	"github.com/cristianortiz/bidmarket/internal/auction/infra/outbox"
	auctionrepo "github.com/cristianortiz/bidmarket/internal/auction/infra/repository/postgres"
	auctionrest "github.com/cristianortiz/bidmarket/internal/auction/infra/rest"
	auctionws "github.com/cristianortiz/bidmarket/internal/auction/infra/websocket"
	authapp "github.com/cristianortiz/bidmarket/internal/auth/application"
	authrepo "github.com/cristianortiz/bidmarket/internal/auth/infra/repository/postgres"
	authrest "github.com/cristianortiz/bidmarket/internal/auth/infra/rest"
	followapp "github.com/cristianortiz/bidmarket/internal/follow/application"
	followrepo "github.com/cristianortiz/bidmarket/internal/follow/infra/repository/postgres"
	followrest "github.com/cristianortiz/bidmarket/internal/follow/infra/rest"
	productapp "github.com/cristianortiz/bidmarket/internal/product/application"
	productrepo "github.com/cristianortiz/bidmarket/internal/product/infra/repository/postgres"
	productrest "github.com/cristianortiz/bidmarket/internal/product/infra/rest"
	profileapp "github.com/cristianortiz/bidmarket/internal/profile/application"
	profilerepo "github.com/cristianortiz/bidmarket/internal/profile/infra/repository/postgres"
	profilerest "github.com/cristianortiz/bidmarket/internal/profile/infra/rest"
	"github.com/cristianortiz/bidmarket/internal/shared/config"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/db/migrations"
	"github.com/cristianortiz/bidmarket/internal/shared/events"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/cristianortiz/bidmarket/internal/shared/mail"
	"github.com/cristianortiz/bidmarket/internal/shared/metrics"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/cristianortiz/bidmarket/internal/shared/websocket"
	userapp "github.com/cristianortiz/bidmarket/internal/user/application"
	userrepo "github.com/cristianortiz/bidmarket/internal/user/infra/repository/postgres"
	userrest "github.com/cristianortiz/bidmarket/internal/user/infra/rest"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	relayInterval   = 2 * time.Second
	relayBatchSize  = 100
)

// auctionDetails lets the socket read auctions before the service that
// broadcasts through it exists.
type auctionDetails struct {
	uc *auctionapp.GetAuctionDetailUseCase
}

func (d auctionDetails) GetAuctionDetail(ctx context.Context, id uuid.UUID) (*auctionapp.AuctionDetailDTO, error) {
	return d.uc.Execute(ctx, id)
}

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting Bid Market server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg.BuildPostgresDSN()); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	pool, err := db.GetPostgresDBPool(ctx, cfg.BuildPostgresDSN())
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()
	tx := db.NewTransactor(pool)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg)
	auctionMetrics := metrics.NewAuctionMetrics(reg)

	files, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Object storage setup failed", zap.Error(err))
	}
	mailer := mail.New(cfg.Mail)
	hasher := security.NewBcryptHasher(cfg.SaltRounds)
	tokens := security.NewJWTService(cfg.AccessTokenKey, cfg.RefreshTokenKey, cfg.AccessTokenExpiresIn, cfg.RefreshTokenExpires)

	// users
	users := userrepo.NewUserRepository(pool)
	warnings := userrepo.NewWarningRepository(pool)
	auth := httpserver.NewAuthenticator(tokens, userapp.NewAccountLoader(users))
	userService := userapp.NewUserService(
		userapp.NewFindUsersUseCase(users),
		userapp.NewUpdatePasswordUseCase(users, hasher),
		userapp.NewWarningsUseCase(users, warnings, tx),
		userapp.NewBanUseCase(users),
	)

	// auth
	otps := authapp.NewOtpService(authrepo.NewOtpRepository(pool), time.Now)
	refresh := authrepo.NewRefreshTokenRepository(pool)
	authService := authapp.NewAuthService(
		authapp.NewLoginUseCase(users, hasher, tokens, refresh, otps, mailer),
		authapp.NewRegisterUseCase(users, hasher, otps, mailer, tx),
		authapp.NewSessionUseCase(users, tokens, refresh),
		authapp.NewVerificationUseCase(users, hasher, otps, mailer, tx),
	)

	// social
	follows := followrepo.NewFollowRepository(pool)
	followService := followapp.NewFollowService(followapp.NewRelationUseCase(follows, follows, tx))
	profileService := profileapp.NewProfileService(profilerepo.NewProfileRepository(pool), follows, files)
	addressService := addressapp.NewAddressService(addressrepo.NewAddressRepository(pool), tx)

	// products
	products := productrepo.NewProductRepository(pool)
	productService := productapp.NewProductService(
		productapp.NewCreateProductUseCase(products, products, files, tx),
		productapp.NewUpdateProductUseCase(products, products, files, tx),
		productapp.NewGetProductUseCase(products, files),
		productapp.NewListProductsUseCase(products, files),
		productapp.NewDeleteProductsUseCase(products, files, tx),
		productapp.NewListCategoriesUseCase(products),
	)
	inventory := productapp.NewInventory(products)

	// auctions
	hub := websocket.NewHub()
	auctions := auctionrepo.NewAuctionRepository(pool)
	outboxStore := events.NewOutbox(pool)
	detailUC := auctionapp.NewGetAuctionDetailUseCase(auctions, files)
	wsHandler := auctionws.NewAuctionWSHandler(auctionDetails{uc: detailUC}, hub)
	sink := auctionapp.NewEventSink(outbox.NewEventRecorder(outboxStore, cfg.Kafka.AuctionTopic), wsHandler, auctionMetrics)
	auctionService := auctionapp.NewAuctionService(
		auctionapp.NewCreateAuctionUseCase(auctions, inventory, tx, sink, time.Now),
		auctionapp.NewUpdateAuctionUseCase(auctions, inventory, tx, sink, time.Now),
		auctionapp.NewLifecycleUseCase(auctions, inventory, tx, sink, time.Now),
		detailUC,
		auctionapp.NewSearchAuctionsUseCase(auctions),
	)

	server := httpserver.NewServer(httpserver.Options{Metrics: serverMetrics, Gatherer: reg})
	app := server.App()
	authrest.NewAuthHandler(authService).RegisterRoutes(app)
	userrest.NewUserHandler(userService, auth).RegisterRoutes(app)
	profilerest.NewProfileHandler(profileService, auth).RegisterRoutes(app)
	addressrest.NewAddressHandler(addressService, auth).RegisterRoutes(app)
	followrest.NewFollowHandler(followService, auth).RegisterRoutes(app)
	productrest.NewProductHandler(productService, auth).RegisterRoutes(app)
	auctionrest.NewAuctionHandler(auctionService, auth).RegisterRoutes(app)
	wsHandler.RegisterRoutes(ctx, app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return wsHandler.ListenForMessages(gctx) })

	if cfg.Kafka.Enabled() {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers)
		defer publisher.Close()
		relay := events.NewRelay(outboxStore, publisher, relayInterval, relayBatchSize)
		g.Go(func() error { return relay.Run(gctx) })
	} else {
		log.Warn("KAFKA_BROKERS not set, auction events stay in the outbox")
	}

	g.Go(func() error {
		return server.Start(cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server stopped")
}
