package routes

import (
	"time"

	"rental-backend/controllers"
	"rental-backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers bundles every handler set the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	House      *controllers.HouseController
	Room       *controllers.RoomController
	Asset      *controllers.AssetController
	RentedRoom *controllers.RentedRoomController
	Invoice    *controllers.InvoiceController
	Report     *controllers.ReportController
	AI         *controllers.AIController
	Health     *controllers.HealthController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter mounts the API under /api/v1. Owner routes require a token for
// an owner account, admin routes one for an admin account.
func SetupRouter(ctl Controllers, auth middleware.Authenticator, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", ctl.Health.Health)

	api := r.Group("/api/v1")
	api.GET("/health", ctl.Health.Health)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", ctl.Auth.Login)
		authRoutes.POST("/admin/login", ctl.Auth.AdminLogin)
	}

	requireAuth := middleware.RequireAuth(auth)
	owner := middleware.RequireOwner()
	admin := middleware.RequireAdmin()

	users := api.Group("/users")
	{
		users.POST("/register", ctl.User.Register)
		users.GET("/roles", ctl.User.Roles)

		me := users.Group("/me", requireAuth)
		me.GET("", ctl.User.Me)
		me.PUT("", ctl.User.UpdateMe)
		me.POST("/change-password", ctl.User.ChangePassword)

		owners := users.Group("/owners", requireAuth, admin)
		owners.GET("", ctl.User.ListOwners)
		owners.POST("", ctl.User.CreateOwner)
		owners.GET("/:id", ctl.User.GetOwner)
		owners.PUT("/:id", ctl.User.UpdateOwner)
		owners.DELETE("/:id", ctl.User.DeleteOwner)

		users.GET("/admin/statistics", requireAuth, admin, ctl.User.Statistics)
	}

	houses := api.Group("/houses", requireAuth)
	{
		// admin views; static segments take precedence over /:id
		houses.GET("/owner/:owner_id", admin, ctl.House.ListByOwner)
		houses.GET("/admin/all", admin, ctl.House.ListAll)

		houses.POST("", owner, ctl.House.Create)
		houses.GET("", owner, ctl.House.List)
		houses.GET("/:id", owner, ctl.House.Get)
		houses.PUT("/:id", owner, ctl.House.Update)
		houses.DELETE("/:id", owner, ctl.House.Delete)
	}

	rooms := api.Group("/rooms", requireAuth, owner)
	{
		rooms.POST("", ctl.Room.Create)
		rooms.GET("", ctl.Room.List)
		rooms.GET("/available", ctl.Room.ListAvailable)
		rooms.GET("/house/:house_id", ctl.Room.ListByHouse)
		rooms.GET("/:id", ctl.Room.Get)
		rooms.PUT("/:id", ctl.Room.Update)
		rooms.DELETE("/:id", ctl.Room.Delete)
	}

	assets := api.Group("/assets", requireAuth, owner)
	{
		assets.POST("", ctl.Asset.Create)
		assets.GET("/room/:room_id", ctl.Asset.ListByRoom)
		assets.GET("/:id", ctl.Asset.Get)
		assets.PUT("/:id", ctl.Asset.Update)
		assets.DELETE("/:id", ctl.Asset.Delete)
	}

	rented := api.Group("/rented-rooms", requireAuth, owner)
	{
		rented.POST("", ctl.RentedRoom.Create)
		rented.GET("", ctl.RentedRoom.ListActive)
		rented.GET("/room/:room_id", ctl.RentedRoom.ListByRoom)
		rented.GET("/:id", ctl.RentedRoom.Get)
		rented.PUT("/:id", ctl.RentedRoom.Update)
		rented.POST("/:id/terminate", ctl.RentedRoom.Terminate)
	}

	invoices := api.Group("/invoices", requireAuth, owner)
	{
		invoices.POST("", ctl.Invoice.Create)
		invoices.GET("", ctl.Invoice.List)
		invoices.GET("/pending", ctl.Invoice.ListPending)
		invoices.GET("/rented-room/:rr_id", ctl.Invoice.ListByRentedRoom)
		invoices.GET("/:id", ctl.Invoice.Get)
		invoices.PUT("/:id", ctl.Invoice.Update)
		invoices.DELETE("/:id", ctl.Invoice.Delete)
		invoices.POST("/:id/pay", ctl.Invoice.Pay)
	}

	reports := api.Group("/reports", requireAuth, owner)
	{
		reports.POST("/revenue-stats", ctl.Report.RevenueStats)
		reports.POST("/generate-report", ctl.Report.GenerateReport)
		reports.POST("/create-monthly-invoices", ctl.Report.CreateMonthlyInvoices)
		reports.GET("/expiring-contracts", ctl.Report.ExpiringContracts)
		reports.GET("/system-overview", ctl.Report.SystemOverview)
		reports.GET("/pending-invoices", ctl.Report.PendingInvoices)
		reports.POST("/search-rooms", ctl.Report.SearchRooms)
	}

	ai := api.Group("/ai", requireAuth, owner)
	{
		ai.POST("/chat", ctl.AI.Chat)
		ai.POST("/recommend-rooms", ctl.AI.RecommendRooms)
		ai.POST("/generate-revenue-report", ctl.AI.RevenueReport)
	}

	return r
}
