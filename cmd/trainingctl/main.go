package main

import (
	"context"
	"fmt"
	"os"

	"github.com/noah-isme/training-registration-api/internal/cli"
	"github.com/noah-isme/training-registration-api/internal/platform"
	"github.com/noah-isme/training-registration-api/internal/repository"
	"github.com/noah-isme/training-registration-api/internal/service"
	"github.com/noah-isme/training-registration-api/pkg/config"
	"github.com/noah-isme/training-registration-api/pkg/logger"
)

func main() {
	cmd := cli.NewRootCommand(openServices)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}

func openServices(ctx context.Context) (*cli.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	backend, err := platform.Open(ctx, cfg, nil, logr)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRegistrationRepository(backend.Store, cfg.Storage.Key)
	validator := service.NewRegistrationValidator(nil, cfg.Location(), nil)
	registrations := service.NewRegistrationService(repo, validator, backend.Notifier, nil, logr, service.RegistrationConfig{})
	exporter := service.NewExportService(service.ExportConfig{Location: cfg.Location()}, logr, nil, nil)

	return &cli.Services{
		Registrations: registrations,
		Exporter:      exporter,
		Close: func() {
			backend.Close()
			_ = logr.Sync()
		},
	}, nil
}
