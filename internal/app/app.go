// internal/app/app.go
package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Noty-chan/aether-journal/internal/api"
	"github.com/Noty-chan/aether-journal/internal/auth"
	"github.com/Noty-chan/aether-journal/internal/config"
	"github.com/Noty-chan/aether-journal/internal/di"
	"github.com/Noty-chan/aether-journal/internal/seed"
	"github.com/Noty-chan/aether-journal/internal/services"
	"github.com/Noty-chan/aether-journal/internal/storage"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// App holds the long-lived services of the process.
type App struct {
	Config      *config.Config
	Repository  *storage.JSONRepository
	Index       *storage.EventIndex
	Coordinator *services.CampaignCoordinator
	Pairing     *auth.PairingManager
	WebSocket   *api.WebSocketManager

	logger *utils.Logger
}

// InitLogger points the process logger at LOG_DIR and LOG_LEVEL.
func InitLogger(cfg *config.Config) error {
	logger := utils.GetLogger()
	logger.SetLogLevel(utils.ParseLogLevel(cfg.LogLevel))
	if cfg.LogDir == "" {
		return nil
	}
	return utils.InitLogger(filepath.Join(cfg.LogDir, "aether-journal.log"))
}

// InitServices builds every service in dependency order and registers it
// in container.
func InitServices(cfg *config.Config, container *di.Container) (*App, error) {
	a := &App{Config: cfg, logger: utils.GetLogger()}

	var opts []storage.Option
	if cfg.EventIndexPath != "" {
		index, err := storage.OpenEventIndex(cfg.EventIndexPath)
		if err != nil {
			return nil, fmt.Errorf("open event index: %w", err)
		}
		a.Index = index
		opts = append(opts, storage.WithEventIndex(index))
		a.logger.Info("Event index enabled", map[string]interface{}{"path": cfg.EventIndexPath})
	}

	repo, err := storage.NewJSONRepository(cfg.CampaignPath, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open campaign store: %w", err)
	}
	a.Repository = repo
	if reason := repo.RecoveryReason(); reason != "" {
		a.logger.Warn("Campaign store was recovered", map[string]interface{}{"reason": reason})
	}

	if cfg.LoadDemo {
		if err := a.loadDemo(); err != nil {
			a.Close()
			return nil, err
		}
	}

	coordinator, err := services.NewCampaignCoordinator(repo, services.DefaultEnv())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Coordinator = coordinator

	a.Pairing = auth.NewPairingManager()
	if cfg.HostPin != "" {
		if err := a.Pairing.Preset(cfg.HostPin); err != nil {
			a.Close()
			return nil, fmt.Errorf("preset host pin: %w", err)
		}
	}

	a.WebSocket = api.NewWebSocketManager(repo.ListEvents, cfg.WSSendBuffer, cfg.WSPingTimeout)
	a.WebSocket.Start()
	coordinator.SetPublisher(a.WebSocket)

	container.Register(api.ServiceRepository, repo)
	container.Register(api.ServiceCoordinator, coordinator)
	container.Register(api.ServicePairing, a.Pairing)
	container.Register(api.ServiceWebSocket, a.WebSocket)
	if a.Index != nil {
		container.Register(api.ServiceEventIndex, a.Index)
	}

	a.logger.Info("Services initialized", map[string]interface{}{
		"campaign": repo.Path(),
		"last_seq": repo.LastSeq(),
		"services": container.GetNames(),
	})
	return a, nil
}

func (a *App) loadDemo() error {
	state, err := a.Repository.Load()
	if err != nil {
		return fmt.Errorf("load campaign: %w", err)
	}
	if _, err := seed.LoadIfEmpty(a.Repository, state, a.Config.DemoPath); err != nil {
		return fmt.Errorf("load demo campaign: %w", err)
	}
	return nil
}

// Close stops the hub and releases the event index.
func (a *App) Close() error {
	var errs []error
	if a.WebSocket != nil {
		a.WebSocket.Close()
	}
	if a.Index != nil {
		if err := a.Index.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event index: %w", err))
		}
	}
	return errors.Join(errs...)
}
