package app

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sponza-next/internal/config"
	"github.com/sponza-next/internal/provider"
	"github.com/sponza-next/internal/router"
	"github.com/sponza-next/internal/worker"
)

// BuildRunner assembles the services for the requested run mode.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if mode == "" {
		mode = ModeAll
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
		services = append(services, NewHTTPService("api", &http.Server{
			Addr:    addr,
			Handler: engine,
		}))
	}

	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, fmt.Errorf("build worker service: %w", err)
			}
			services = append(services, workerService)
		} else if mode == ModeWorker {
			return nil, errors.New("worker mode requires queue.enabled")
		}
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("unknown run mode: %s", mode)
	}
	return NewRunner(services...), nil
}

// Run builds and runs services from the options.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	return RunWithOptions(runner, opts)
}
