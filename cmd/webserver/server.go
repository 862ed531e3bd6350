package main

import (
	"encoding/gob"
	"net/http"
	"time"

	"duoquiz"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	db         *duoquiz.DB
	generator  *duoquiz.QuizGenerator
	aggregator *duoquiz.FolderAggregator
	reconciler *duoquiz.Reconciler
	suggester  *duoquiz.FolderSuggester
	progress   *duoquiz.ProgressTracker
	sessions   *sessions.CookieStore
	jwtSecret  []byte
	log        *duoquiz.Logger
}

// PlayTally is the cookie-session record of the folder sitting in progress
type PlayTally struct {
	FolderID string `json:"folderId"`
	Answered int    `json:"answered"`
	Correct  int    `json:"correct"`
}

func init() {
	gob.Register(PlayTally{})
}

// ServerDeps are the collaborators a Server is built from
type ServerDeps struct {
	Store         duoquiz.DocumentStore
	Oracle        duoquiz.Oracle
	Events        duoquiz.Publisher
	Logger        *duoquiz.Logger
	JWTSecret     string
	SessionSecret string
	TranscriptDir string
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = duoquiz.NopLogger()
	}
	db := duoquiz.NewDB(deps.Store)

	generator := duoquiz.NewQuizGenerator(deps.Oracle, db, deps.Events, logger)
	if deps.TranscriptDir != "" {
		generator.WithTranscripts(deps.TranscriptDir)
	}

	store := sessions.NewCookieStore([]byte(deps.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		db:         db,
		generator:  generator,
		aggregator: duoquiz.NewFolderAggregator(db, logger),
		reconciler: duoquiz.NewReconciler(db, deps.Events, logger),
		suggester:  duoquiz.NewFolderSuggester(deps.Oracle, db, logger),
		progress:   duoquiz.NewProgressTracker(db, logger),
		sessions:   store,
		jwtSecret:  []byte(deps.JWTSecret),
		log:        logger,
	}
}

// Router builds the gin engine with every route registered
func (s *Server) Router(corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}

	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/", s.authenticate())

	users := api.Group("/users")
	users.POST("", s.createUser)
	users.GET("/me", s.getMe)
	users.PUT("/me/interests", s.updateInterests)

	api.GET("/dashboard", s.dashboard)

	folders := api.Group("/folders")
	folders.POST("", s.createFolder)
	folders.GET("", s.listFolders)
	folders.GET("/:id", s.getFolder)
	folders.DELETE("/:id", s.deleteFolder)
	folders.GET("/:id/with-games", s.folderWithGames)
	folders.POST("/:id/reconcile", s.reconcileFolder)

	games := api.Group("/games")
	games.POST("", s.createGame)
	games.GET("", s.listGames)
	games.GET("/folder/:folderId", s.listFolderGames)
	games.GET("/:id", s.getGame)

	ai := api.Group("/ai")
	ai.POST("/generate-games", s.generateGames)
	ai.POST("/generate-random", s.generateRandom)
	ai.POST("/generate-from-folder/:folderId", s.generateFromFolder)
	ai.POST("/suggest-folder", s.suggestFolder)

	progress := api.Group("/progress")
	progress.POST("/:folderId/:gameId", s.recordAnswer)
	progress.GET("/:folderId", s.getProgress)

	return r
}
