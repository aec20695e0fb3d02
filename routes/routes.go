package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	controllers "github.com/phillip/trust-manager-go/controllers"
	middleware "github.com/phillip/trust-manager-go/middleware"
	models "github.com/phillip/trust-manager-go/models"
	store "github.com/phillip/trust-manager-go/store"
)

func SetupRoutes(r *gin.Engine, app *controllers.App) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// public
	r.POST("/auth/login", controllers.Login(app))

	// protected
	auth := middleware.AuthMiddleware(app.Cfg)
	s := app.Stores

	crud(r.Group("/members", auth), app, s.Members)
	crud(r.Group("/trustees", auth), app, s.Trustees)
	crud(r.Group("/expenses", auth), app, s.Expenses)
	crud(r.Group("/links", auth), app, s.Links)

	donations := r.Group("/donations", auth)
	crud(donations, app, s.Donations)
	r.GET("/donors", auth, controllers.ListDonors(app))

	activities := r.Group("/activities", auth)
	{
		activities.GET("", controllers.List(app, s.Activities))
		activities.GET("/:id", controllers.Get(app, s.Activities))
		activities.POST("", controllers.CreateActivity(app))
		activities.PATCH("/:id", controllers.UpdateActivity(app))
		activities.DELETE("/:id", controllers.DeleteActivity(app))
	}

	resources := r.Group("/resources", auth)
	{
		resources.GET("", controllers.List(app, s.Resources))
		resources.GET("/:id", controllers.Get(app, s.Resources))
		resources.POST("", controllers.CreateResource(app))
		resources.PATCH("/:id", controllers.Update(app, s.Resources))
		resources.DELETE("/:id", controllers.DeleteResource(app))
	}

	meetings := r.Group("/meetings", auth)
	crud(meetings, app, s.Meetings)
	meetings.POST("/:id/notify", controllers.NotifyMeeting(app))

	// posts are written by the content sync only
	posts := r.Group("/posts", auth)
	{
		posts.GET("", controllers.List(app, s.Posts))
		posts.GET("/:id", controllers.Get(app, s.Posts))
	}

	r.GET("/dashboard", auth, controllers.Dashboard(app))
}

func crud[T any, PT models.Doc[T]](g *gin.RouterGroup, app *controllers.App, col store.Collection[T]) {
	g.GET("", controllers.List[T, PT](app, col))
	g.GET("/:id", controllers.Get[T, PT](app, col))
	g.POST("", controllers.Create[T, PT](app, col))
	g.PATCH("/:id", controllers.Update[T, PT](app, col))
	g.DELETE("/:id", controllers.Delete[T, PT](app, col))
}
