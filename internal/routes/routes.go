package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-system/internal/controllers"
	"asset-system/internal/identifier"
	"asset-system/internal/repositories"
	"asset-system/internal/services"
	"asset-system/pkg/config"
	"asset-system/pkg/filestorage"
	"asset-system/pkg/middleware"
	"asset-system/pkg/service"
)

// InitRouter wires repositories, services and controllers and mounts
// every route under /api.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) error {
	api := e.Group("/api")

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadDir)
	if err != nil {
		return err
	}
	txManager := repositories.NewTxManager(dbConn)

	userRepo := repositories.NewUserRepository(dbConn, logger)
	branchRepo := repositories.NewBranchRepository(dbConn, logger)
	supplierRepo := repositories.NewSupplierRepository(dbConn, logger)
	assetRepo := repositories.NewAssetRepository(dbConn, logger)
	procurementRepo := repositories.NewProcurementRepository(dbConn, logger)
	maintenanceRepo := repositories.NewMaintenanceRepository(dbConn, logger)
	disposalRepo := repositories.NewDisposalRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	generator := identifier.NewGenerator(branchRepo, identifier.SystemClock())

	notifications := services.NewMockNotificationService(logger)
	if cfg.Mail.ResendAPIKey != "" {
		notifications = services.NewResendNotificationService(cfg.Mail, logger)
	}

	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, notifications, cfg.Auth, logger)
	branchService := services.NewBranchService(branchRepo, logger)
	supplierService := services.NewSupplierService(supplierRepo, logger)
	assetService := services.NewAssetService(assetRepo, generator, txManager, fileStorage, logger)
	procurementService := services.NewProcurementService(procurementRepo, generator, txManager, logger)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, assetRepo, generator, txManager, fileStorage, logger)
	disposalService := services.NewDisposalService(disposalRepo, assetRepo, generator, txManager, fileStorage, logger)
	reportService := services.NewReportService(assetRepo, logger)

	authController := controllers.NewAuthController(authService, logger)
	branchController := controllers.NewBranchController(branchService, logger)
	supplierController := controllers.NewSupplierController(supplierService, logger)
	assetController := controllers.NewAssetController(assetService, logger)
	procurementController := controllers.NewProcurementController(procurementService, logger)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService, logger)
	disposalController := controllers.NewDisposalController(disposalService, logger)
	reportController := controllers.NewReportController(reportService, logger)

	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, logger)
	secure := api.Group("", authMW.Auth)

	runAuthRouter(api, secure, authController)
	runBranchRouter(secure, branchController)
	runSupplierRouter(secure, supplierController)
	runAssetRouter(secure, assetController)
	runProcurementRouter(secure, procurementController)
	runMaintenanceRouter(secure, maintenanceController)
	runDisposalRouter(secure, disposalController)
	runReportRouter(secure, reportController)

	return nil
}

func runAuthRouter(public *echo.Group, secure *echo.Group, c *controllers.AuthController) {
	auth := public.Group("/auth")
	auth.POST("/login", c.Login)
	auth.POST("/refresh", c.Refresh)
	auth.POST("/forgot-password", c.ForgotPassword)
	auth.POST("/reset-password", c.ResetPassword)

	me := secure.Group("/auth")
	me.POST("/register", c.Register)
	me.GET("/profile", c.Profile)
	me.PUT("/password", c.UpdatePassword)
}

func runBranchRouter(g *echo.Group, c *controllers.BranchController) {
	branches := g.Group("/branches")
	branches.GET("", c.GetBranches)
	branches.GET("/:id", c.FindBranch)
	branches.POST("", c.CreateBranch)
	branches.PUT("/:id", c.UpdateBranch)
	branches.DELETE("/:id", c.DeleteBranch)
}

func runSupplierRouter(g *echo.Group, c *controllers.SupplierController) {
	suppliers := g.Group("/suppliers")
	suppliers.GET("", c.GetSuppliers)
	suppliers.GET("/:id", c.FindSupplier)
	suppliers.POST("", c.CreateSupplier)
}

func runAssetRouter(g *echo.Group, c *controllers.AssetController) {
	assets := g.Group("/assets")
	assets.GET("", c.GetAssets)
	assets.GET("/stats", c.GetStats)
	assets.GET("/:id", c.FindAsset)
	assets.POST("", c.CreateAsset)
	assets.POST("/bulk-import", c.BulkImport)
	assets.PUT("/:id", c.UpdateAsset)
	assets.POST("/:id/testing", c.ConfirmTesting)
	assets.POST("/:id/files/:kind", c.UploadFile)
	assets.DELETE("/:id", c.DeleteAsset)
}

func runProcurementRouter(g *echo.Group, c *controllers.ProcurementController) {
	procurements := g.Group("/procurements")
	procurements.GET("", c.GetProcurements)
	procurements.GET("/:id", c.FindProcurement)
	procurements.POST("", c.CreateProcurement)
	procurements.PUT("/:id", c.UpdateProcurement)
	procurements.POST("/:id/approve", c.Approve)
	procurements.DELETE("/:id", c.DeleteProcurement)
}

func runMaintenanceRouter(g *echo.Group, c *controllers.MaintenanceController) {
	maintenances := g.Group("/maintenances")
	maintenances.GET("", c.GetMaintenances)
	maintenances.GET("/stats", c.GetStats)
	maintenances.GET("/:id", c.FindMaintenance)
	maintenances.POST("", c.CreateMaintenance)
	maintenances.PUT("/:id", c.UpdateMaintenance)
	maintenances.POST("/:id/start", c.Start)
	maintenances.POST("/:id/complete", c.Complete)
	maintenances.POST("/:id/cancel", c.Cancel)
	maintenances.POST("/:id/report", c.UploadReport)
	maintenances.DELETE("/:id", c.DeleteMaintenance)
}

func runDisposalRouter(g *echo.Group, c *controllers.DisposalController) {
	disposals := g.Group("/disposals")
	disposals.GET("", c.GetDisposals)
	disposals.GET("/:id", c.FindDisposal)
	disposals.POST("", c.CreateDisposal)
	disposals.PUT("/:id", c.UpdateDisposal)
	disposals.POST("/:id/approve", c.Approve)
	disposals.POST("/:id/documents/:kind", c.UploadDocument)
	disposals.DELETE("/:id", c.DeleteDisposal)
}

func runReportRouter(g *echo.Group, c *controllers.ReportController) {
	reports := g.Group("/reports")
	reports.GET("/assets", c.AssetRegister)
}
