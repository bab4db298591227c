package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainwatch/spvpeer/checkpoint"
	"github.com/chainwatch/spvpeer/dialer"
	"github.com/chainwatch/spvpeer/peer"
	"github.com/chainwatch/spvpeer/present"
	"github.com/chainwatch/spvpeer/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dialTimeout bounds how long connecting to the remote peer may take.
const dialTimeout = 10 * time.Second

// reconnect backoff bounds: consecutive dial failures back off exponentially
// from minBackoff up to maxBackoff. Every successful dial resets the backoff
// to minBackoff, so a session that ends on its own with an error (i.e. not
// because the process was asked to stop) is redialed after minBackoff.
const (
	minBackoff = 2 * time.Second
	maxBackoff = time.Minute
)

func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "connect to a peer and track the configured watch list",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSPVPeer(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spvpeer.yaml", "path to the YAML config file")

	return cmd
}

func resolveNetwork(name string) (wire.BitcoinNet, error) {
	switch name {
	case "dogemainnet", "", "mainnet":
		return wire.DogeMainNet, nil
	case "dogetestnet", "testnet":
		return wire.DogeTestNet, nil
	default:
		return 0, fmt.Errorf("unknown network %q", name)
	}
}

func runSPVPeer(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	netMagic, err := resolveNetwork(cfg.Network)
	if err != nil {
		return err
	}

	watched, err := cfg.watchedHashes()
	if err != nil {
		return err
	}

	store, err := checkpoint.OpenBoltStore(cfg.CheckpointPath)
	if err != nil {
		return fmt.Errorf("open checkpoint store: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go serveMetrics(ctx, cfg.MetricsAddress, log)

	d := dialer.New(dialTimeout)
	presenter := present.NewLogPresenter(log)

	backoff := minBackoff

	for ctx.Err() == nil {
		conn, err := d.Dial(ctx, cfg.PeerAddress)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			log.Warnw("dial failed, backing off", "error", err, "backoff", backoff)
			sleepOrDone(ctx, backoff)
			backoff = nextBackoff(backoff)

			continue
		}

		p, err := peer.New(peer.Config{
			Conn:            conn,
			Store:           store,
			Net:             netMagic,
			ProtocolVersion: wire.ProtocolVersion,
			UserAgent:       cfg.UserAgent,
			WatchedHashes:   watched,
			Presenter:       presenter,
			Logger:          log,
		})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("construct peer: %w", err)
		}

		backoff = minBackoff

		err = p.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warnw("session ended, reconnecting", "error", err, "backoff", backoff)
			sleepOrDone(ctx, backoff)
			backoff = nextBackoff(backoff)
		}
	}

	return nil
}

func nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > maxBackoff {
		next = maxBackoff
	}

	return next
}

func sleepOrDone(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func serveMetrics(ctx context.Context, addr string, log *zap.SugaredLogger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warnw("metrics server stopped", "error", err)
	}
}
