package api

import (
	"invotrack/docs"
	"invotrack/internal/api/handlers"
	"invotrack/internal/repository"
	"invotrack/pkg/auth"
	"invotrack/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Month     *handlers.MonthHandler
	Invoice   *handlers.InvoiceHandler
	Statement *handlers.StatementHandler
	Upload    *handlers.UploadHandler
	Settings  *handlers.SettingsHandler
}

func SetupRouter(
	h Handlers,
	jwtManager *auth.JWTManager,
	keyRepo *repository.APIKeyRepository,
	uploadDir string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Importing docs registers the generated OpenAPI spec via init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Stored documents
	app.Static("/uploads", uploadDir)

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Interactive app, JWT session
	appGroup := app.Group("/app/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	months := appGroup.Group("/months")
	months.Get("", h.Month.ListMonths)
	months.Get("/:monthKey", h.Month.GetMonth)
	months.Get("/:monthKey/summary", h.Month.GetSummary)

	months.Post("/:monthKey/invoices", h.Invoice.Upload)
	months.Post("/:monthKey/invoices/:id/extract", h.Invoice.Extract)
	months.Delete("/:monthKey/invoices/:id", h.Invoice.Delete)

	months.Post("/:monthKey/statements", h.Statement.Upload)
	months.Delete("/:monthKey/statements/:id", h.Statement.Delete)

	months.Put("/:monthKey/bindings/:transactionId", h.Month.SetBinding)
	months.Delete("/:monthKey/bindings/:transactionId", h.Month.RemoveBinding)

	appGroup.Get("/settings/filter-policy", h.Settings.GetFilterPolicy)
	appGroup.Put("/settings/filter-policy", h.Settings.SetFilterPolicy)

	// Headless API, bearer API key with upload:write scope. The upload
	// endpoint itself is authenticated by its one-shot token.
	app.Post("/api/v1/upload/:token", h.Upload.ReceiveUpload)

	apiGroup := app.Group("/api/v1", middleware.APIKeyMiddleware(keyRepo, auth.ScopeUploadWrite, appLogger))
	apiGroup.Post("/upload-url", h.Upload.CreateUploadURL)
	apiGroup.Post("/invoices", h.Upload.CreateInvoice)
	apiGroup.Post("/statements", h.Upload.CreateStatement)

	return app
}
