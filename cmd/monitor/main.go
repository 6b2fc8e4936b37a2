package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradeSentry/internal/config"
	"TradeSentry/internal/feed"
	"TradeSentry/internal/monitor"
	"TradeSentry/internal/notifier"
	"TradeSentry/internal/scanner"
	"TradeSentry/internal/store"
)

func main() {
	var (
		cfgPath = flag.String("config", "configs/config.yaml", "path to config file")
		dryRun  = flag.Bool("dry-run", false, "log alerts instead of sending them")
		test    = flag.Bool("test", false, "send a canned alert through both channels and exit")
		scan    = flag.Bool("scan", false, "run the pre-market scanner once and exit")
	)
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TradeSentry starting...")

	if v := os.Getenv("CONFIG_PATH"); v != "" && *cfgPath == "configs/config.yaml" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *dryRun {
		cfg.Monitor.DryRun = true
	}

	fetcher := feed.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	if *scan {
		runScan(fetcher, cfg.Watchlist)
		return
	}

	// delivery config only matters once we actually send
	if !cfg.Monitor.DryRun {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("[FATAL] config validation: %v", err)
		}
	}

	email := notifier.NewEmailSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
		cfg.Email.From, cfg.Email.Password, cfg.Email.To)
	sms := notifier.NewSMSSender(cfg.SMS.GatewayAddress, email,
		cfg.SMS.TwilioSID, cfg.SMS.TwilioToken, cfg.SMS.TwilioFrom, cfg.SMS.TwilioTo)
	nt := notifier.New(email, sms, cfg.Monitor.DryRun)

	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	col := feed.NewCollector(fetcher)
	mon := monitor.New(ctx, col, st, nt, cfg)

	if *test {
		mon.RunTest()
		return
	}

	if err := mon.RegisterAll(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	mon.Start()
	defer mon.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, polling now")
		go mon.RunPollNow()
	}

	log.Println("[INFO] TradeSentry is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TradeSentry stopped")
}

func runScan(fetcher feed.Fetcher, watchlist []string) {
	results := scanner.ScanWatchlist(fetcher, watchlist, time.Now())
	if len(results) == 0 {
		fmt.Println("no scan results (insufficient history?)")
		return
	}
	fmt.Printf("Pre-market scan - %s\n\n", time.Now().Format("2006-01-02"))
	for _, r := range results {
		fmt.Printf("%-6s %-14s $%.2f  %s/%s  %s $%.2f (%+.1f%%)  score %d (%s, %s)\n",
			r.Symbol, r.Status, r.Close, r.Pattern, r.Direction,
			r.SupportLabel, r.Support, r.DistancePct, r.Score, r.Grade, r.Recommend)
		if r.Bias != "" {
			fmt.Printf("       %s\n", r.Bias)
		}
		if p := r.Plan; p != nil {
			fmt.Printf("       entry $%.2f  stop $%.2f  T1 $%.2f  T2 $%.2f  re-entry stop $%.2f  R:R %.1f\n",
				p.Entry, p.Stop, p.Target1, p.Target2, p.ReentryStop, p.RewardRisk)
		}
		fmt.Println()
	}
}
