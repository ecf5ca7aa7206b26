package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/memory"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/metrics"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/concesionario-api/internal/interfaces/http"
	"github.com/jhoicas/concesionario-api/pkg/config"
	"github.com/jhoicas/concesionario-api/pkg/logger"
)

// storage repositorios y runner de transacciones del driver elegido.
type storage struct {
	txRunner interface {
		inventory.TxRunner
		sales.ReturnTxRunner
	}
	movements repository.MovementRepository
	vehicles  repository.VehicleRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	sales     repository.SaleRepository
	returns   repository.SalesReturnRepository
	reports   repository.InventoryReportRepository
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == config.DriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: datos de demostración, nada se persiste")
		s := memory.NewSeeded()
		return &storage{
			txRunner:  s,
			movements: s.Movements(),
			vehicles:  s.Vehicles(),
			products:  s.Products(),
			locations: s.Locations(),
			sales:     s.Sales(),
			returns:   s.Returns(),
			reports:   s.Reports(),
			close:     func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool),
		movements: postgres.NewMovementRepository(pool),
		vehicles:  postgres.NewVehicleRepository(pool),
		products:  postgres.NewProductRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		returns:   postgres.NewSalesReturnRepository(pool),
		reports:   postgres.NewInventoryReportRepository(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	movementUC := inventory.NewMovementUseCase(store.txRunner, store.movements, store.vehicles, store.products, store.locations)
	reportUC := inventory.NewReportUseCase(store.reports)
	returnUC := sales.NewReturnUseCase(store.txRunner, movementUC, store.sales, store.returns, store.movements)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Component("access")))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.SwaggerFile != "" {
		if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.App.SwaggerFile,
				Path:     "docs",
				Title:    "Concesionario API",
			}))
		} else {
			log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger no disponible")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC: movementUC,
		ReportUC:   reportUC,
		ReturnUC:   returnUC,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		Logger:     log,
		Metrics:    m,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
