// Command prerender generates the detail page of every listed item into the
// configured page store, ahead of serving.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"todoblog/application"
	"todoblog/infrastructure/config"
	"todoblog/infrastructure/factories"
	"todoblog/interfaces/web/presenters"
	"todoblog/logging"
)

func main() {
	strict := flag.Bool("strict", false, "exit non-zero when any page fails to generate")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, logger, *strict)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger, strict bool) int {
	backend, err := factories.NewBackend(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("setup failed: ")+err.Error())
		return 1
	}
	defer backend.Close()

	presenter := presenters.NewItemPresenter(cfg.AppTitle, nil)
	service := application.NewStaticPageService(
		backend.Data,
		backend.Pages,
		presenters.NewDetailRenderer(presenter),
		cfg.StaticFallback,
	)

	report, err := service.Prerender(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("prerender failed: ")+err.Error())
		return 1
	}

	fmt.Println(renderReport(report, cfg.StaticFallback))
	if strict && len(report.Failed) > 0 {
		return 2
	}
	return 0
}
