package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tacticshub/internal/auth"
	"tacticshub/internal/catalog"
	"tacticshub/internal/compositions"
	synchub "tacticshub/internal/sync"
	"tacticshub/pkg/database"
	"tacticshub/pkg/utils"
)

func main() {
	srvCfg, err := utils.LoadServerConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	authCfg, err := utils.LoadAuthConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	authRepo := auth.NewRepo(db)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	err = auth.EnsureAdmin(seedCtx, authRepo, authCfg.AdminUsername, authCfg.AdminEmail, authCfg.AdminPassword)
	cancelSeed()
	if err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	if mw := corsMiddleware(srvCfg.CORSOrigins); mw != nil {
		router.Use(mw)
	}

	hub := synchub.NewHub(nil)
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(srvCfg.TCPAddr, hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	required := auth.AuthMiddleware(tokenSvc, authRepo)
	optional := auth.OptionalAuth(tokenSvc, authRepo)

	api := router.Group("/api")
	auth.NewHandler(authRepo, tokenSvc).RegisterRoutes(api.Group("/auth"))
	auth.NewUsersHandler(authRepo).RegisterRoutes(api.Group("/users"), required)

	catRepo := catalog.NewRepo(db)
	catalog.NewHandler(catRepo, hub, nil).RegisterRoutes(api, required, auth.RequireAdmin())

	compositions.NewHandler(compositions.NewRepo(db), catRepo, hub, nil).RegisterRoutes(api, optional, required)

	httpSrv := &http.Server{
		Addr:              srvCfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
