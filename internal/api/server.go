package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/joshaeeee/klyq-backend/infrastructure/repository"
	"github.com/joshaeeee/klyq-backend/internal/api/handler"
	"github.com/joshaeeee/klyq-backend/internal/api/handler/router"
	"github.com/joshaeeee/klyq-backend/internal/config"
	"github.com/joshaeeee/klyq-backend/internal/scheduler"
	"github.com/joshaeeee/klyq-backend/internal/taskqueue"
	"github.com/joshaeeee/klyq-backend/internal/usecases/account"
	"github.com/joshaeeee/klyq-backend/internal/usecases/acting"
	"github.com/joshaeeee/klyq-backend/internal/usecases/authenticating"
	"github.com/joshaeeee/klyq-backend/internal/usecases/ingesting"
	"github.com/joshaeeee/klyq-backend/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

// Services agrupa tudo que o servidor HTTP expõe. A composição acontece no
// main; aqui só se monta rota e middleware.
type Services struct {
	Authenticator authenticating.Authenticator
	Ingestor      ingesting.Ingestor
	Accounts      account.Manager
	Actor         acting.Actor
	Readers       handler.MirrorReaders
	Periodic      *scheduler.PeriodicScheduler
	Dispatcher    *taskqueue.Dispatcher
	JobRepo       repository.SyncJobRepository
}

func New(config *config.Config, services Services) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(services.Authenticator)...),
		router.WithRoutes(handler.Webhooks(config, services.Ingestor)...),
		router.WithRoutes(handler.Accounts(services.Accounts)...),
		router.WithRoutes(handler.Stores(services.Accounts, services.Periodic, services.Readers)...),
		router.WithRoutes(handler.Actions(services.Actor, services.Readers.Suggester)...),
		router.WithRoutes(handler.Jobs(services.JobRepo, services.Dispatcher)...),
		router.WithRoutes(handler.CronJobs(services.Periodic)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(services.Authenticator),
	}

	chained := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           chained,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
