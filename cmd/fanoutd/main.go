package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"topicbus/internal/config"
	"topicbus/internal/logging"
	"topicbus/internal/metrics"
	"topicbus/internal/pubsub"
)

// event is the synthetic payload fanoutd publishes.
type event struct {
	Seq uint64
	At  time.Time
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config (built-in defaults when empty)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	logging.Init(cfg.LogLevel)
	logger := logging.NewDefaultLogger()

	policy, err := cfg.Channel.Policy()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	opts := []pubsub.Option{
		pubsub.WithLogger(logger),
		pubsub.WithOverflowPolicy(policy),
	}
	var prom *metrics.Prom
	if cfg.Metrics.Enabled {
		prom = metrics.NewProm()
		opts = append(opts, pubsub.WithMetrics(prom))
	}
	if cfg.Channel.HistorySize > 0 {
		opts = append(opts, pubsub.WithHistory(cfg.Channel.HistorySize))
	}

	pub, factory, err := pubsub.New[string, event](cfg.Channel.Capacity, opts...)
	if err != nil {
		log.Fatalf("Failed to create channel: %v", err)
	}
	defer factory.Close()

	logger.Infof("Starting fanoutd: capacity=%d policy=%s topics=%v",
		cfg.Channel.Capacity, cfg.Channel.OverflowPolicy, cfg.Publish.Topics)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// One consumer per configured topic.
	for _, topic := range cfg.Publish.Topics {
		sub := factory.GetSubscription(topic)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sub.Close()
			for {
				ev, err := sub.Next(ctx)
				if err != nil {
					return
				}
				logger.Infof("topic %s: event %d at %s", sub.Topic(), ev.Seq, ev.At.Format(time.RFC3339))
			}
		}()
	}

	if prom != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("metrics server: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Infof("Metrics listening on %s", cfg.Metrics.ListenAddr)
	}

	// Publisher loop: round-robin events over the configured topics.
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.Publish.Interval)
		defer ticker.Stop()
		var seq uint64
		for {
			select {
			case <-ctx.Done():
				pub.Close()
				return
			case t := <-ticker.C:
				topic := cfg.Publish.Topics[seq%uint64(len(cfg.Publish.Topics))]
				if err := pub.Publish(ctx, topic, event{Seq: seq, At: t}); err != nil {
					if !errors.Is(err, context.Canceled) {
						logger.Warnf("publish: %v", err)
					}
					pub.Close()
					return
				}
				seq++
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	fmt.Println("\nShutting down fanoutd...")
	cancel()
	wg.Wait()
}
