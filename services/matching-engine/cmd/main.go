package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/grpclib/health"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/httplib/healthcheck"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/redis"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/app/engine"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/app/httpserver"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/app/processor"
	marketdata "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/market-data"
	matchpublisher "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/match-publisher"
	orderreader "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/order-reader"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/pkg/config"
)

const serviceName = "matching-engine"

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}

	log = l
}

type stopper interface {
	Stop(ctx context.Context) error
}

func main() {
	defer func() { _ = log.Sync() }()

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	policy, err := engine.ParseMarketRemainderPolicy(cfg.Engine.MarketRemainderPolicy)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "parse_engine_config"})
		return
	}
	scale := quant.NewScale(cfg.Engine.PriceDecimals, cfg.Engine.QuantityDecimals)

	opts := engine.DefaultEngineOptions()
	opts.Pair = cfg.Pair
	opts.MarketRemainderPolicy = policy
	opts.StatsWindow = cfg.Engine.StatsWindow
	opts.RecentTradesLimit = cfg.Engine.RecentTradesLimit
	opts.MaxPrice = quant.Price(cfg.Engine.MaxPrice)
	opts.MaxQuantity = quant.Quantity(cfg.Engine.MaxQuantity)
	eng := engine.NewEngineWithOptions(log, opts)

	checks := map[string]healthcheck.Check{
		"engine": func(context.Context) error { return eng.Validate() },
	}
	var stoppers []stopper

	if cfg.MarketData.Enabled {
		rclient := redis.NewClient(log, &cfg.Redis)
		if err := rclient.Connect(ctx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
			return
		}
		defer func() {
			if err := rclient.Disconnect(context.Background()); err != nil {
				log.Error(err, logger.Field{Key: "action", Value: "close_redis_client"})
			}
		}()
		checks["redis"] = rclient.Ping

		mdPublisher := marketdata.NewPublisher(rclient, eng, cfg.Pair, scale, cfg.MarketData.DepthLevels, cfg.Redis.DefaultTTL, log)
		eng.Subscribe(mdPublisher.HandleEvent)
		mdPublisher.Start(ctx)
		stoppers = append(stoppers, mdPublisher)
	}

	if cfg.MatchKafka.Enabled {
		mPublisher := matchpublisher.NewPublisher(cfg.MatchKafka, cfg.Pair, scale, log)
		eng.Subscribe(mPublisher.HandleEvent)
		mPublisher.Start(ctx)
		stoppers = append(stoppers, mPublisher)
	}

	if cfg.OrderKafka.Enabled {
		oReader := orderreader.NewReader(cfg.OrderKafka, log)
		proc := processor.NewProcessor(eng, oReader, scale, log)
		if err := proc.Start(ctx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "start_processor"})
			return
		}
		// the processor stops first so no command is applied after publishers exit
		stoppers = append([]stopper{proc}, stoppers...)
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthServer.Register(grpcServer)
	healthServer.InitService(serviceName)

	lis, err := net.Listen("tcp", ":"+cfg.App.GRPCPort)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "listen_grpc"})
		return
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "serve_grpc"})
		}
	}()

	httpServer := httpserver.NewServer(eng, cfg.Pair, scale, checks, log)
	go func() {
		if err := httpServer.ListenAndServe(":" + cfg.App.HTTPPort); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "serve_http"})
			sigChan <- syscall.SIGTERM
		}
	}()

	log.Info("Matching engine started successfully",
		logger.Field{Key: "pair", Value: cfg.Pair},
		logger.Field{Key: "policy", Value: policy},
		logger.Field{Key: "orderKafka", Value: cfg.OrderKafka.Enabled},
		logger.Field{Key: "matchKafka", Value: cfg.MatchKafka.Enabled},
		logger.Field{Key: "marketData", Value: cfg.MarketData.Enabled},
	)

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	healthServer.Shutdown()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_http"})
	}

	for _, s := range stoppers {
		if err := s.Stop(shutdownCtx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "stop_component"})
		}
	}

	// Cancel the main context once every component has drained
	cancel()
	grpcServer.GracefulStop()

	log.Info("Matching engine shutdown complete")
}
