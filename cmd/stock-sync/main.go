// stock-sync ejecuta la generación o la conciliación del ledger de una empresa desde la línea de comandos.
//
//	stock-sync --mode=generate --company=<uuid>
//	stock-sync --mode=sync --company=<uuid>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jhoicas/inventario-stock/internal/bootstrap"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

const (
	modeGenerate = "generate"
	modeSync     = "sync"
)

func main() {
	flags := pflag.NewFlagSet("stock-sync", pflag.ExitOnError)
	mode := flags.String("mode", modeSync, "generate | sync")
	companyID := flags.String("company", "", "ID de la empresa (requerido)")
	_ = flags.Parse(os.Args[1:])

	if err := run(*mode, *companyID); err != nil {
		fmt.Fprintln(os.Stderr, "stock-sync:", err)
		os.Exit(1)
	}
}

func run(mode, companyID string) error {
	if companyID == "" {
		return fmt.Errorf("--company requerido")
	}
	if mode != modeGenerate && mode != modeSync {
		return fmt.Errorf("--mode desconocido %q", mode)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "stock-sync"}).WithCompany(companyID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeStores, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	switch mode {
	case modeGenerate:
		res, err := svc.Generate.GenerateStockDetails(ctx, companyID)
		if err != nil {
			return err
		}
		log.Info().
			Int("created", res.Created).
			Int("updated", res.Updated).
			Int("skipped", res.Skipped).
			Msg("generación terminada")
	case modeSync:
		res, err := svc.Reconcile.SyncStockDetails(ctx, companyID)
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			log.Warn().Msg(e)
		}
		log.Info().
			Int("processed", res.ProcessedProducts).
			Int("skipped", res.Skipped).
			Msg(res.Message)
	}
	return nil
}
