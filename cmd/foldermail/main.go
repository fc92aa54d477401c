package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foldermail/internal/config"
	"foldermail/internal/database"
	"foldermail/internal/folders"
	"foldermail/internal/handlers"
	"foldermail/internal/i18n"
	"foldermail/internal/middleware"
	"foldermail/internal/models"
	"foldermail/internal/remote"
	"foldermail/internal/services"
	"foldermail/internal/sse"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 优先加载.env.local，然后是.env
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("[INFO] No .env file found, using system environment variables")
		} else {
			log.Println("[INFO] Loaded configuration from .env file")
		}
	} else {
		log.Println("[INFO] Loaded configuration from .env.local file")
	}

	cfg := config.Load()
	if path := os.Getenv("FOLDERMAIL_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			log.Fatalf("Failed to load config file %s: %v", path, err)
		}
		log.Printf("[INFO] Loaded configuration overlay from %s", path)
	} else if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	middleware.SetDevelopmentMode(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitializeWithOptions(database.Options{
		Path:   cfg.Database.Path,
		PureGo: cfg.Database.PureGo,
		Debug:  cfg.IsDebug(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	account := cfg.AccountName()
	prefs := services.NewPreferenceService(db, account)

	service, closeRemote := newRemoteService(cfg, prefs)
	defer closeRemote()

	sseService := sse.NewService(account, &sse.SSEConfig{
		MaxConnections:    cfg.SSE.MaxConnections,
		ConnectionTimeout: cfg.SSE.ConnectionTimeout,
		HeartbeatInterval: cfg.SSE.HeartbeatInterval,
		CleanupInterval:   cfg.SSE.CleanupInterval,
		EnableHeartbeat:   cfg.SSE.EnableHeartbeat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sseService.Start(ctx); err != nil {
		log.Fatalf("Failed to start SSE service: %v", err)
	}
	defer sseService.Stop()

	controller := folders.NewController(service, folders.Options{
		Account:             account,
		Translator:          i18n.New(cfg.Folders.Locale),
		Dialogs:             &folders.EventDialogs{Publisher: sseService.Publisher()},
		Publisher:           sseService.Publisher(),
		ConfirmTimeout:      cfg.Folders.ConfirmTimeout,
		LiftDelay:           cfg.Folders.LiftDelay,
		DiscardStaleDeletes: cfg.Folders.DiscardStaleDeletes,
		Settings:            loadSettings(ctx, prefs),
		Debug:               cfg.IsDebug(),
	})
	defer controller.Close()

	if err := controller.Refresh(ctx); err != nil {
		log.Printf("[WARN] Failed to request folder list: %v", err)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORS.Origins))
	handlers.New(cfg, controller, sseService).RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[INFO] foldermail server starting on %s (remote: %s)", server.Addr, cfg.Remote.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("[INFO] Shutting down...")

		// SSE连接会一直阻塞，先停止SSE服务再关闭HTTP服务器
		sseService.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[ERROR] Server stopped: %v", err)
	}
}

// newRemoteService 按配置创建远端服务
func newRemoteService(cfg *config.Config, prefs services.PreferenceService) (remote.Service, func()) {
	switch cfg.Remote.Mode {
	case config.RemoteModeIMAP:
		svc := remote.NewIMAPService(remote.IMAPConfig{
			Host:     cfg.Remote.IMAP.Host,
			Port:     cfg.Remote.IMAP.Port,
			Security: cfg.Remote.IMAP.Security,
			Username: cfg.Remote.IMAP.Username,
			Password: cfg.Remote.IMAP.Password,
		}, prefs)
		return svc, func() {
			if err := svc.Close(); err != nil {
				log.Printf("[WARN] IMAP logout: %v", err)
			}
		}
	default:
		return remote.NewJSONClient(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout), func() {}
	}
}

// loadSettings 读取保存的视图设置
func loadSettings(ctx context.Context, prefs services.PreferenceService) folders.Settings {
	var settings folders.Settings
	var err error
	if settings.HideUnsubscribed, err = prefs.BoolSetting(ctx, models.SettingHideUnsubscribed); err != nil {
		log.Printf("[WARN] Failed to load %s: %v", models.SettingHideUnsubscribed, err)
	}
	if settings.UnhideKolabFolders, err = prefs.BoolSetting(ctx, models.SettingUnhideKolabFolders); err != nil {
		log.Printf("[WARN] Failed to load %s: %v", models.SettingUnhideKolabFolders, err)
	}
	return settings
}
