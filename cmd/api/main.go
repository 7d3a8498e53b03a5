package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pforhan/teven-sub000/internal/access"
	"github.com/pforhan/teven-sub000/internal/httpapi"
	"github.com/pforhan/teven-sub000/internal/obs"
	"github.com/pforhan/teven-sub000/internal/scheduling"
	"github.com/pforhan/teven-sub000/internal/store/pg"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("TEVEN_PG_DSN")
	if dsn == "" {
		log.Fatal("missing TEVEN_PG_DSN")
	}
	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	accessSvc, err := access.NewService(store)
	if err != nil {
		log.Fatalf("access service: %v", err)
	}
	schedulingSvc, err := scheduling.NewService(store)
	if err != nil {
		log.Fatalf("scheduling service: %v", err)
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := accessSvc.EnsureBuiltins(bootCtx); err != nil {
		bootCancel()
		log.Fatalf("seed builtin roles: %v", err)
	}
	bootCancel()

	api := httpapi.New(httpapi.ReadyProbe{DB: store.DB()}, version, accessSvc, schedulingSvc)

	addr := os.Getenv("TEVEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting teven-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = store.Close()
	log.Println("Stopped")
}
