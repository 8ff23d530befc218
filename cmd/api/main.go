package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/docuflow/internal/application/auth"
	"github.com/tu-usuario/docuflow/internal/application/usecase"
	"github.com/tu-usuario/docuflow/internal/infrastructure/email"
	"github.com/tu-usuario/docuflow/internal/infrastructure/postgres"
	"github.com/tu-usuario/docuflow/internal/infrastructure/s3"
	"github.com/tu-usuario/docuflow/internal/infrastructure/signature"
	httpRouter "github.com/tu-usuario/docuflow/internal/interfaces/http"
	"github.com/tu-usuario/docuflow/pkg/config"
	"github.com/tu-usuario/docuflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	invitationRepo := postgres.NewInvitationRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	fileStorage, err := s3.NewFileStorage(ctx, cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar storage S3")
	}

	signerSvc, err := signature.NewFromConfig(cfg.Signature)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar llaves de firma")
	}

	notifier := email.New(cfg.SMTP, log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo, userRepo, invitationRepo, log)
	documentUC := usecase.NewDocumentUseCase(userRepo, documentRepo, approvalRepo, txRunner, fileStorage, signerSvc, log)
	requestUC := usecase.NewRequestUseCase(userRepo, documentRepo, requestRepo, txRunner, fileStorage, signerSvc, notifier, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 << 20, // margen sobre el límite de upload
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Docuflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  companyUC,
		DocumentUC: documentUC,
		RequestUC:  requestUC,
		JWTSecret:  cfg.JWT.Secret,
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
