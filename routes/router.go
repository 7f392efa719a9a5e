package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/microforum/apperr"
	"github.com/cppla/microforum/config"
	"github.com/cppla/microforum/controllers"
	"github.com/cppla/microforum/middleware"
	"github.com/cppla/microforum/services"
	"github.com/cppla/microforum/store"
	"github.com/cppla/microforum/utils"
	"github.com/cppla/microforum/web"
)

// Deps carries everything the router needs to serve requests.
type Deps struct {
	Config   config.AppConfig
	Auth     *services.AuthService
	Posts    *services.PostService
	Comments *services.CommentService
	// Logger writes access and panic logs. When nil, a rolling file logger is opened at Config.GinPath.
	Logger *zap.Logger
}

// NewDeps builds stores and services on top of db.
func NewDeps(cfg config.AppConfig, db *gorm.DB, log *zap.Logger) Deps {
	users := store.NewCredentialStore(db)
	content := store.NewContentStore(db)
	signer := utils.NewTokenSigner(cfg.JWTSecret, cfg.TokenTTL)
	return Deps{
		Config:   cfg,
		Auth:     services.NewAuthService(users, signer, cfg.BcryptCost, log),
		Posts:    services.NewPostService(content, users, log),
		Comments: services.NewCommentService(content, users, log),
	}
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	gl := deps.Logger
	if gl == nil {
		var err error
		gl, err = utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress, false)
		if err != nil {
			utils.L().Warn("gin logger unavailable, falling back to default recovery", zap.Error(err))
		}
	}
	if gl != nil {
		r.Use(middleware.Ginzap(gl, time.RFC3339, true))
		r.Use(middleware.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
	}
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/", serveIndex)
	r.GET("/health", func(ctx *gin.Context) {
		utils.Respond(ctx, http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		r.GET("/metrics", middleware.MetricsHandler())
	}

	userController := controllers.NewUserController(deps.Auth)
	postController := controllers.NewPostController(deps.Posts)
	commentController := controllers.NewCommentController(deps.Comments)
	authRequired := middleware.AuthRequired(deps.Auth)

	users := r.Group("/users")
	users.POST("/register", userController.Register)
	users.POST("/login", userController.Login)
	users.GET("", authRequired, userController.ListUsers)
	users.PUT("/:id", authRequired, userController.UpdateUser)
	users.DELETE("/:id", authRequired, userController.DeleteUser)

	posts := r.Group("/posts")
	posts.GET("", postController.ListPosts)
	posts.POST("", authRequired, postController.CreatePost)
	posts.PUT("/:id", authRequired, postController.UpdatePost)
	posts.DELETE("/:id", authRequired, postController.DeletePost)

	comments := r.Group("/comments")
	comments.GET("/:postId", commentController.ListComments)
	comments.POST("", authRequired, commentController.CreateComment)
	comments.DELETE("/:id", authRequired, commentController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, apperr.NotFoundError("route not found"))
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	return corsCfg
}

func serveIndex(ctx *gin.Context) {
	body, err := web.Index()
	if err != nil {
		utils.Fail(ctx, apperr.InternalError(err))
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
