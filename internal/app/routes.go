package app

import (
	"net/http"

	"tasktracker/internal/auth"
	"tasktracker/internal/cache"
	"tasktracker/internal/client"
	"tasktracker/internal/config"
	"tasktracker/internal/graph"
	"tasktracker/internal/handlers"
	"tasktracker/internal/repo"
	"tasktracker/internal/service"
	"tasktracker/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps is what Setup wires routes from. Repos, when set, replaces the
// Postgres repos built from DB.
type Deps struct {
	Config config.Config
	Log    zerolog.Logger
	DB     *pgxpool.Pool
	Redis  *redis.Client
	API    *client.Client
	Repos  *Repos
}

type Repos struct {
	Users repo.UserRepo
	Tasks repo.TaskRepo
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, d Deps) {
	cfg := d.Config
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	repos := d.Repos
	if repos == nil {
		repos = &Repos{Users: repo.NewPGUserRepo(d.DB), Tasks: repo.NewPGTaskRepo(d.DB)}
	}
	sessions := auth.NewStore(d.Redis, cfg.Session.TTL.Duration())
	users := service.NewUserService(repos.Users)
	tasks := service.NewTaskService(repos.Tasks, repos.Users, cache.NewTaskCache(d.Redis, cfg.Redis.DefaultTTL.Duration()))

	api := r.Group("/api", auth.LoadSession(sessions, users, d.Log))
	api.GET("", rootHandler(cfg))

	gql := graph.NewHandler(graph.NewSchema(), tasks, d.Log)
	api.POST("/graphql", gql.Serve)

	var provider auth.Provider
	if cfg.GitHub.Enabled() {
		provider = auth.NewGitHubProvider(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.RedirectURL)
	}
	handlers.NewAuthHandler(sessions, users, provider, cfg.Session.Secure, d.Log).Routes(api.Group("/auth"))

	if d.API != nil {
		web.NewServer(d.API, d.Log, provider != nil).Register(r)
	}
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Task Tracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"graphql": "/api/graphql",
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}
