package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"CandleViewer/internal/analyzer"
	"CandleViewer/internal/collector"
	"CandleViewer/internal/config"
	"CandleViewer/internal/importer"
	"CandleViewer/internal/scheduler"
	"CandleViewer/internal/store"
	"CandleViewer/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CandleViewer starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Open databases
	st, err := store.Open(cfg.Database.PricesPath, cfg.Database.AnalysisPath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	// Init fetcher and importer
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	from, to := cfg.Range()
	im := importer.New(st, fetcher, cfg.Import.CSVPath, cfg.Import.TickersFile, from, to)

	// Init analyzer
	an := analyzer.New(st)

	// Init scheduler (optional)
	if cfg.Schedule.RefreshCron != "" {
		sched := scheduler.NewScheduler(st, im, an)
		if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
			log.Fatalf("[FATAL] register refresh task: %v", err)
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
			go sched.RefreshNow()
		}
	}

	// Init HTTP server
	srv := web.NewServer(st, im, an)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Server.ListenAddr)
	}()

	log.Println("[INFO] CandleViewer is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}
	log.Println("[INFO] CandleViewer stopped")
}
