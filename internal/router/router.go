package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/tidewater/internal/handler"
	"github.com/tidewater/internal/logging"
)

const sessionName = "tidewater_session"

// Options 描述路由需要的外部配置。
type Options struct {
	SessionSecret      string
	UploadDir          string
	UploadURLPath      string
	CORSAllowedOrigins []string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(logging.RequestLogger(), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 上传文件
	if opts.UploadDir != "" {
		urlPath := "/" + strings.Trim(opts.UploadURLPath, "/")
		if urlPath == "/" {
			urlPath = "/static/uploads"
		}
		r.Static(urlPath, opts.UploadDir)
	}

	r.GET("/healthz", api.HealthCheck)

	public := r.Group("/api")
	public.Use(corsMiddleware(opts.CORSAllowedOrigins))
	{
		public.GET("/pages/:slug", api.GetPublishedPage)
		public.GET("/escooters", api.ListEScooters)
		public.GET("/blog", api.ListPublishedPosts)
		public.GET("/blog/:slug", api.GetPublishedPost)
		public.POST("/bookings", api.SubmitBooking)
		// 预检请求由 cors 中间件应答
		public.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/me", api.Me)

			auth.GET("/pages", api.ListPages)
			draft := auth.Group("/pages/:slug/draft")
			{
				draft.GET("", api.GetPageDraft)
				draft.DELETE("", api.DiscardPageDraft)
				draft.POST("/save", api.SavePageDraft)
				draft.POST("/reset", api.ResetPageDraft)
				draft.PATCH("/sections/:section", api.AssignPageSection)
				draft.POST("/sections/:section/import", api.ImportPageEntries)
				draft.POST("/sections/:section/entries", api.AppendPageEntry)
				draft.PATCH("/sections/:section/entries/:id", api.UpdatePageEntry)
				draft.DELETE("/sections/:section/entries/:id", api.RemovePageEntry)
				draft.POST("/sections/:section/entries/:id/move", api.MovePageEntry)
			}

			collections := auth.Group("/collections/:name")
			{
				collections.GET("", api.ListCollection)
				collections.POST("", api.CreateCollectionItem)
				collections.PUT("/:id", api.UpdateCollectionItem)
				collections.DELETE("/:id", api.DeleteCollectionItem)

				collections.POST("/editor", api.OpenCollectionEditor)
				collections.PATCH("/editor", api.EditCollectionDraft)
				collections.DELETE("/editor", api.CloseCollectionEditor)
				collections.POST("/editor/submit", api.SubmitCollectionDraft)
				collections.POST("/editor/lists/:field", api.AppendCollectionListValue)
				collections.DELETE("/editor/lists/:field/:index", api.RemoveCollectionListValue)
			}

			auth.GET("/leads", api.ListLeads)
			auth.POST("/uploads", api.UploadImage)

			auth.POST("/blog/generate", api.GenerateBlogPost)
			auth.POST("/blog/polish", api.PolishBlogPost)

			auth.GET("/settings", api.GetSystemSettings)
			auth.PUT("/settings", api.UpdateSystemSettings)
			auth.POST("/settings/test-ai", api.TestAIConnection)
		}
	}

	return r
}

// corsMiddleware 为公开接口配置跨域，未配置来源时允许任意来源。
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
