package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/you/aarogyam/internal/http/handlers"
	"github.com/you/aarogyam/internal/http/middleware"
)

// Handlers groups every HTTP handler set the router mounts
type Handlers struct {
	Auth         *handlers.AuthHandlers
	Admin        *handlers.AdminHandlers
	Appointments *handlers.AppointmentHandlers
	Reports      *handlers.ReportHandlers
	Contact      *handlers.ContactHandlers
	Policies     *handlers.PolicyHandlers
}

// Middleware carries the request-scoped middleware and the two auth gates
type Middleware struct {
	Log          *zap.Logger
	ExposeErrors bool
	Request      gin.HandlerFunc
	JWT          *middleware.AuthMW
	Casbin       middleware.CasbinMiddleware
}

func BuildRouter(h Handlers, mw Middleware) *gin.Engine {
	r := gin.New()
	r.Use(mw.Request, middleware.ExposeErrors(mw.ExposeErrors), middleware.Recovery(mw.Log), middleware.RequestLogger(mw.Log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwt := mw.JWT.WithJWT()

	auth := r.Group("/auth")
	auth.POST("/check-user", h.Auth.CheckUser)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/register-admin", h.Auth.RegisterAdmin)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/send-otp", h.Auth.SendOTP)
	auth.POST("/verify-otp", h.Auth.VerifyOTP)
	auth.GET("/profile", jwt, h.Auth.GetProfile)
	auth.PUT("/profile", jwt, h.Auth.UpdateProfile)

	r.POST("/contact", h.Contact.Submit)
	r.POST("/appointments/public", h.Appointments.BookPublic)

	appts := r.Group("/appointments", jwt)
	appts.POST("", h.Appointments.Book)
	appts.GET("", h.Appointments.ListMine)
	appts.GET("/:id", h.Appointments.GetMine)
	appts.PUT("/:id", h.Appointments.UpdateMyStatus)
	appts.DELETE("/:id", h.Appointments.Cancel)

	reports := r.Group("/reports", jwt)
	reports.POST("", h.Reports.Create)
	reports.GET("", h.Reports.ListMine)
	reports.GET("/stats", h.Reports.Stats)
	reports.GET("/:id", h.Reports.GetMine)
	reports.PUT("/:id", h.Reports.UpdateMine)
	reports.DELETE("/:id", h.Reports.DeleteMine)
	reports.GET("/:id/abnormalities", h.Reports.Abnormalities)

	adm := r.Group("/admin", jwt, mw.Casbin.Enforce())
	adm.GET("/users", h.Admin.ListUsers)
	adm.POST("/users", h.Admin.CreateUser)
	adm.GET("/users/:id", h.Admin.GetUser)
	adm.PUT("/users/:id", h.Admin.UpdateUser)
	adm.DELETE("/users/:id", h.Admin.DeleteUser)

	adm.GET("/appointments", h.Appointments.ListAll)
	adm.GET("/appointments/:id", h.Appointments.Get)
	adm.PUT("/appointments/:id", h.Appointments.Update)
	adm.DELETE("/appointments/:id", h.Appointments.Delete)

	adm.GET("/reports", h.Reports.ListAll)
	adm.POST("/reports", h.Reports.AdminCreate)
	adm.GET("/reports/:id", h.Reports.Get)
	adm.PUT("/reports/:id", h.Reports.Update)
	adm.DELETE("/reports/:id", h.Reports.Delete)

	adm.GET("/contact-messages", h.Contact.List)
	adm.PUT("/contact-messages/:id", h.Contact.UpdateStatus)
	adm.DELETE("/contact-messages/:id", h.Contact.Delete)

	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)

	return r
}
