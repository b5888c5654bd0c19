package main

import (
	"context"
	"intersect-service/internal/adapters/cache"
	"intersect-service/internal/adapters/repositories"
	"intersect-service/internal/api"
	"intersect-service/internal/config"
	"intersect-service/internal/platform/db"
	"log"
	"net/http"
	"time"
)

// main is the application composition root.
// It wires Postgres and Redis adapters behind ports when configured, falling
// back to in-memory stores, and starts the HTTP server.
func main() {
	config.Load()

	solverCfg, err := config.SolverFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	port := config.Get("PORT", "8080")
	databaseURL := config.Get("DATABASE_URL", "")
	redisURL := config.Get("REDIS_URL", "")

	ctx := context.Background()
	deps := api.Deps{Config: solverCfg}

	if databaseURL != "" {
		conn, err := db.Open(ctx, databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatal(err)
		}
		deps.Observations = repositories.NewSQLObservationRepository(conn)
		deps.Store = repositories.NewSQLSolutionRepository(conn)
		log.Println("Storage: postgres")
	} else {
		seedPath := config.Get("SEED_PATH", "")
		seed, err := loadSeed(seedPath, solverCfg)
		if err != nil {
			log.Fatal(err)
		}
		deps.Observations = repositories.NewMemoryObservationRepository(seed)
		deps.Store = repositories.NewMemorySolutionRepository()
		log.Printf("Storage: memory seeded=%d", len(seed))
	}

	if redisURL != "" {
		ttl, err := time.ParseDuration(config.Get("CACHE_TTL", "24h"))
		if err != nil {
			log.Fatalf("CACHE_TTL: %v", err)
		}
		solutionCache, err := cache.OpenRedisSolutionCache(ctx, redisURL, ttl)
		if err != nil {
			log.Fatal(err)
		}
		defer solutionCache.Close()
		deps.Cache = solutionCache
		log.Printf("Solution cache: redis ttl=%s", ttl)
	}

	router := api.NewRouter(deps)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
