// Package server boots the marketplace: config, database, cache,
// storage, queue workers and the HTTP stack.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/plantnet/app/controllers"
	"github.com/shashiranjanraj/plantnet/app/jobs"
	"github.com/shashiranjanraj/plantnet/app/repositories"
	"github.com/shashiranjanraj/plantnet/app/routes"
	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/config"
	"github.com/shashiranjanraj/plantnet/database/indexes"
	"github.com/shashiranjanraj/plantnet/pkg/cache"
	"github.com/shashiranjanraj/plantnet/pkg/database"
	"github.com/shashiranjanraj/plantnet/pkg/logger"
	"github.com/shashiranjanraj/plantnet/pkg/mail"
	"github.com/shashiranjanraj/plantnet/pkg/metrics"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/payment"
	"github.com/shashiranjanraj/plantnet/pkg/queue"
	"github.com/shashiranjanraj/plantnet/pkg/reqid"
	"github.com/shashiranjanraj/plantnet/pkg/router"
	"github.com/shashiranjanraj/plantnet/pkg/storage"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 15 * time.Second
)

// Start boots every subsystem and serves until SIGINT or SIGTERM.
// Redis, SMTP and the Mongo log sink are optional: their absence is
// logged and the server runs degraded rather than refusing to boot.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer database.Disconnect(client)
	db := client.Database(config.MongoDB())

	logSink := logger.AttachMongo(db.Collection("logs"))
	defer logSink.Close()

	if err := indexes.Ensure(ctx, db); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, cache and queue fall back to memory", "error", err)
	}
	storage.Connect()
	if err := mail.Verify(); err != nil {
		logger.Warn("server: smtp unreachable, order mail will retry through the queue", "error", err)
	}

	// Queue: Redis-backed when available, in-process otherwise.
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseCollection(db.Collection("failed_jobs"))
	jobs.RegisterJobs()
	jobs.RegisterListeners()
	queue.StartWorkers(ctx, queueWorkers)

	gateway, err := payment.NewStripeGateway()
	if err != nil {
		return err
	}

	userRepo := repositories.NewUserRepository(db)
	plantRepo := repositories.NewPlantRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	userSvc := services.NewUserService(userRepo)
	plantSvc := services.NewPlantService(plantRepo)
	orderSvc := services.NewOrderService(orderRepo, plantRepo, gateway)
	paymentSvc := services.NewPaymentService(plantRepo, gateway)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	r.HandleFunc("/metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Deps{
		Sessions: controllers.NewSessionController(userSvc),
		Users:    controllers.NewUserController(userSvc),
		Plants:   controllers.NewPlantController(plantSvc, userSvc),
		Orders:   controllers.NewOrderController(orderSvc, userSvc),
		Payments: controllers.NewPaymentController(paymentSvc),
		Admin:    controllers.NewAdminController(userSvc, orderRepo, db),
		Roles:    userSvc.RoleOf,
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
