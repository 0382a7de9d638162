package main

import (
	"log"
	"strings"

	"kereste-backend/internal/admin"
	"kereste-backend/internal/audit"
	"kereste-backend/internal/auth"
	"kereste-backend/internal/breakdown"
	"kereste-backend/internal/config"
	"kereste-backend/internal/dashboard"
	"kereste-backend/internal/database"
	"kereste-backend/internal/intake"
	"kereste-backend/internal/loads"
	"kereste-backend/internal/models"
	"kereste-backend/internal/spares"
	"kereste-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Operatör hesapları
	adminRoutes.Post("/operators", auth.CreateOperatorHandler())

	// Müşteri yönetimi
	adminRoutes.Post("/customers", admin.CreateCustomerHandler())
	adminRoutes.Put("/customers/:id", admin.UpdateCustomerHandler())
	adminRoutes.Delete("/customers/:id", admin.DeleteCustomerHandler())

	// Makine yönetimi
	adminRoutes.Post("/machines", admin.CreateMachineHandler())
	adminRoutes.Put("/machines/:id", admin.UpdateMachineHandler())
	adminRoutes.Delete("/machines/:id", admin.DeleteMachineHandler())

	// Stok düzeltmeleri (sadece admin, gerekçe zorunlu)
	adminRoutes.Post("/plank-stocks", stock.CreatePlankStockHandler())
	adminRoutes.Put("/plank-stocks/:id", stock.AdjustPlankStockHandler())

	// Yedek parça kataloğu
	adminRoutes.Post("/spare-parts", spares.CreateSparePartHandler())
	adminRoutes.Put("/spare-parts/:id", spares.UpdateSparePartHandler())
	adminRoutes.Delete("/spare-parts/:id", spares.DeleteSparePartHandler())

	// Talep karşılama (stok girişi olduğu için admin)
	adminRoutes.Post("/spare-requests/:id/fulfill", spares.FulfillRequestHandler())

	// Ortak (auth gerektiren) route'lar

	// Müşteri ve makine listeleri (yükleme/arıza formları için)
	protected.Get("/customers", admin.ListCustomersHandler())
	protected.Get("/customers/:id", admin.GetCustomerHandler())
	protected.Get("/machines", admin.ListMachinesHandler())
	protected.Get("/machines/:id", admin.GetMachineHandler())

	// Kereste stoku
	protected.Get("/plank-stocks", stock.ListPlankStocksHandler())
	protected.Get("/plank-stocks/availability", stock.GetAvailabilityHandler())
	protected.Get("/plank-stocks/export", stock.ExportPlankStocksHandler())

	// Yüklemeler
	protected.Post("/loads", loads.CreateLoadHandler())
	protected.Get("/loads", loads.ListLoadsHandler())
	protected.Get("/loads/:id", loads.GetLoadHandler())
	protected.Post("/loads/:id/deliver", loads.DeliverLoadHandler())
	protected.Get("/loads/:id/delivery-note", loads.DeliveryNoteDataHandler())

	// Yedek parçalar
	protected.Get("/spare-parts", spares.ListSparePartsHandler())
	protected.Post("/spare-usages", spares.CreateUsageHandler())
	protected.Get("/spare-usages", spares.ListUsagesHandler())
	protected.Post("/spare-requests", spares.CreateRequestHandler())
	protected.Get("/spare-requests", spares.ListRequestsHandler())

	// Arızalar
	protected.Post("/breakdowns", breakdown.ReportBreakdownHandler())
	protected.Get("/breakdowns", breakdown.ListBreakdownsHandler())
	protected.Post("/breakdowns/:id/resolve", breakdown.ResolveBreakdownHandler())

	// Tomruk girişi ve biçme
	protected.Post("/intakes", intake.CreateIntakeHandler())
	protected.Get("/intakes", intake.ListIntakesHandler())
	protected.Post("/cuttings", intake.CreateCuttingHandler())
	protected.Get("/cuttings", intake.ListCuttingsHandler())

	// Dashboard
	protected.Get("/dashboard/overview", dashboard.OverviewHandler())
	protected.Get("/dashboard/shipment-chart", dashboard.ShipmentChartHandler())
	protected.Get("/dashboard/spare-consumption", dashboard.SpareConsumptionHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
