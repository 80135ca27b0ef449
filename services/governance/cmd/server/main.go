package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/catalog"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/db"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/services/governance/internal/engine"
	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/services/governance/internal/store"
)

func main() {
	ctx := context.Background()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("stage catalog: %v", err)
	}

	mem := store.NewMemory()
	var sessions store.SessionStore = mem
	var scans store.ScanStore = mem
	var overrides store.OverrideStore = mem

	if os.Getenv("DATABASE_URL") != "" {
		pool, err := db.Connect(ctx)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		sessions = store.NewPostgres(pool)
		log.Printf("sessions: postgres")
	} else {
		log.Printf("sessions: in-memory (state is lost on restart)")
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		client, err := store.ConnectRedis(redisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		rs := store.NewRedis(client)
		scans = rs
		overrides = rs
		log.Printf("scan/override store: redis (24h TTL)")
	} else {
		log.Printf("scan/override store: in-memory (24h retention)")
	}

	eng := engine.New(sessions, scans, overrides, cat)

	port := os.Getenv("SERVICE_PORT")
	if port == "" {
		port = "8084"
	}
	log.Printf("governance service listening on :%s", port)
	if err := http.ListenAndServe(":"+port, newRouter(eng)); err != nil {
		log.Fatal(err)
	}
}
