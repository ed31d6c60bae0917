package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/database/postgres"
	"github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta"
	"github.com/joshaeeee/klyq-backend/infrastructure/integrator/meta/metaclient"
	"github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify"
	"github.com/joshaeeee/klyq-backend/infrastructure/integrator/shopify/shopifyclient"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/api"
	"github.com/joshaeeee/klyq-backend/internal/api/handler"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/jobs"
	"github.com/joshaeeee/klyq-backend/internal/scheduler"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
	"github.com/joshaeeee/klyq-backend/internal/usecases/account"
	"github.com/joshaeeee/klyq-backend/internal/usecases/acting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/attributing"
	"github.com/joshaeeee/klyq-backend/internal/usecases/authenticating"
	"github.com/joshaeeee/klyq-backend/internal/usecases/ingesting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/reconciling"
	"github.com/joshaeeee/klyq-backend/internal/usecases/reporting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/suggesting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/trending"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	storeRepo := repository.NewStoreRepository(pgConn)
	accountRepo := repository.NewAccountRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	productRepo := repository.NewProductRepository(pgConn)
	orderRepo := repository.NewOrderRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	adRepo := repository.NewAdRepository(pgConn)
	suggestionRepo := repository.NewSuggestionRepository(pgConn)
	attributionRepo := repository.NewAttributionRepository(pgConn)
	trendRepo := repository.NewTrendRepository(pgConn)
	metricsRepo := repository.NewMetricsSnapshotRepository(pgConn)
	syncJobRepo := repository.NewSyncJobRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	shopifyClient := shopifyclient.NewClient(cfg)
	shopifyIntegrator := shopify.New(cfg, shopifyClient)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)

	dispatcher := taskqueue.NewDispatcher(cfg.TaskQueue, syncJobRepo)

	reconciler := reconciling.NewService(
		accountRepo,
		productRepo,
		orderRepo,
		campaignRepo,
		adRepo,
		shopifyIntegrator,
		metaIntegrator,
	)

	suggester := suggesting.NewService(cfg, productRepo, orderRepo, adRepo, suggestionRepo)
	attributor := attributing.NewService(orderRepo, adRepo, attributionRepo)
	trender := trending.NewService(cfg, productRepo, trendRepo)
	reporter := reporting.NewService(orderRepo, campaignRepo, metricsRepo)

	registry := jobs.NewRegistry(
		cfg,
		reconciler,
		suggester,
		attributor,
		trender,
		reporter,
		storeRepo,
		orderRepo,
		trendRepo,
	)
	registry.RegisterAll(dispatcher)

	// A recuperação de jobs pendentes acontece dentro do Start, antes de
	// aceitar trabalho novo.
	if err := dispatcher.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao iniciar o despachador de jobs")
	}
	defer dispatcher.Stop()

	accountService := account.NewService(storeRepo, accountRepo, shopifyIntegrator, dispatcher)
	ingestor := ingesting.NewService(cfg, accountRepo, dispatcher)
	actor := acting.NewService(accountRepo, productRepo, adRepo, shopifyIntegrator, metaIntegrator)

	periodic := scheduler.NewPeriodicScheduler(dispatcher, cfg)
	if err := periodic.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao iniciar o agendador de jobs periódicos")
	}
	logrus.Info("Agendador de jobs periódicos iniciado com sucesso")

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Ingestor:      ingestor,
		Accounts:      accountService,
		Actor:         actor,
		Readers: handler.MirrorReaders{
			Products:   productRepo,
			Orders:     orderRepo,
			Campaigns:  campaignRepo,
			Ads:        adRepo,
			Suggester:  suggester,
			Attributor: attributor,
			Trender:    trender,
			Reporter:   reporter,
		},
		Periodic:   periodic,
		Dispatcher: dispatcher,
		JobRepo:    syncJobRepo,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
