package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vvakame/shopgate/gateway"
	"github.com/vvakame/shopgate/internal/config"
	"github.com/vvakame/shopgate/internal/log"
	"github.com/vvakame/shopgate/internal/server"
)

func main() {
	err := realMain()
	if err != nil {
		stdlog.Fatal(err)
	}
}

func realMain() error {
	var (
		configFile  = flag.String("config", "", "path to a YAML config file")
		envFile     = flag.String("env", ".env", "path to a dotenv file, ignored when missing")
		printSchema = flag.Bool("print-schema", false, "print the composed schema and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile, *configFile)
	if err != nil {
		return err
	}

	logger, err := log.New(cfg.Log.Format, cfg.Log.Verbosity)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithLogger(ctx, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gw, err := gateway.NewGateway(ctx, gateway.ConfigFrom(cfg, reg))
	if err != nil {
		logger.Error(err, "failed to execute NewGateway")
		return err
	}

	if *printSchema {
		_, err = fmt.Fprint(os.Stdout, gw.SDL())
		return err
	}

	for _, svc := range gw.Clients().Services() {
		logger.Info("downstream service", "name", svc.Name(), "url", svc.BaseURL())
	}

	h := server.NewHandler(ctx, cfg, gw, reg)

	return server.ListenAndServe(ctx, cfg.Addr(), h)
}
