package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"investor-radar/internal/radar/config"
	delivery "investor-radar/internal/radar/delivery/http"
	_ "investor-radar/internal/radar/docs"
	"investor-radar/internal/radar/presenter"
	"investor-radar/internal/radar/repository"
	"investor-radar/internal/radar/service"
	"investor-radar/pkg/common"
	"investor-radar/pkg/logger"
	"investor-radar/pkg/redis"
	"investor-radar/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the radar web server",
	Run:   runServe,
}

var searchCmd = &cobra.Command{
	Use:           "search [query]",
	Short:         "Searches a company and prints its risk profile",
	Args:          cobra.MinimumNArgs(1),
	RunE:          runSearch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Radar Web", logger.Field("name", cfg.App.Name), logger.StringField("radar_api", cfg.RadarAPI.BaseURL))

	// Initialize response cache
	var responseCache repository.ResponseCache
	switch cfg.Cache.Provider {
	case common.CacheProviderRedis:
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		responseCache = repository.NewRedisResponseCache(redisClient)
	case common.CacheProviderMemory, "":
		responseCache = repository.NewMemoryResponseCache(cfg.Cache.TTL)
	default:
		appLogger.Fatal("Invalid cache provider specified in config", logger.StringField("provider", cfg.Cache.Provider))
	}

	// Initialize repositories
	radarRepo := repository.NewRadarAPIRepository(cfg, appLogger)
	cachedRepo := repository.NewCachedRadarRepository(radarRepo, responseCache, cfg.Cache.TTL, cfg.Cache.Prefix, appLogger)

	// Initialize services
	sessionSvc := service.NewSessionService(cachedRepo, appLogger, cfg.Session.TTL, cfg.RadarAPI.TrendingLimit)
	if cfg.Warmup.Enabled {
		warmupSvc, err := service.NewWarmupService(cachedRepo, appLogger, cfg.Warmup.Schedule)
		if err != nil {
			appLogger.Fatal("Invalid warmup schedule", logger.ErrorField(err))
		}
		go warmupSvc.Start(ctx)
	}

	renderer, err := delivery.NewTemplateRenderer()
	if err != nil {
		appLogger.Fatal("Failed to parse templates", logger.ErrorField(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(delivery.RequestLogger(appLogger))

	// Initialize handlers and routes
	dashboardHandler := delivery.NewDashboardHandler(sessionSvc, appLogger, cfg.Session.CookieName, cfg.Session.TTL, utils.LoadLocation(cfg.App.TimeZone))
	dashboardHandler.RegisterRoutes(e)
	apiV1 := e.Group("/api/v1")
	dashboardHandler.RegisterAPIRoutes(apiV1)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx := cmd.Context()
	dashboard := service.NewDashboard(repository.NewRadarAPIRepository(cfg, appLogger), appLogger, cfg.RadarAPI.TrendingLimit)
	if err := dashboard.Search(ctx, strings.Join(args, " ")); err != nil {
		return err
	}

	page := presenter.BuildPage(dashboard.Snapshot(), "", utils.LoadLocation(cfg.App.TimeZone))
	return printPage(cmd.OutOrStdout(), page)
}

func printPage(out io.Writer, page presenter.PageView) error {
	if len(page.Results) == 0 {
		_, err := fmt.Fprintf(out, "No companies found for %q\n", page.Query)
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tKEY\tNAME\tSYMBOL\tRISK\tPRICE\tCHANGE%")
	for _, card := range page.Results {
		marker := ""
		if card.Selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", marker, card.Key, card.Name, card.Symbol, card.RiskLevel, card.Price, card.ChangePercent)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	detail := page.Detail
	if detail == nil {
		return nil
	}
	fmt.Fprintf(out, "\n%s (%s • %s) risk: %s\n", detail.Name, detail.Symbol, detail.Exchange, detail.RiskLevel)
	fmt.Fprintf(out, "  price: %s", detail.Price)
	if detail.ShowChange {
		fmt.Fprintf(out, "  change: %s", detail.Change)
	}
	if detail.ShowVolume {
		fmt.Fprintf(out, "  volume: %s", detail.Volume)
	}
	if detail.ShowMarketCap {
		fmt.Fprintf(out, "  market cap: %s", detail.MarketCap)
	}
	fmt.Fprintln(out)

	for _, tab := range detail.NewsTabs {
		fmt.Fprintf(out, "\n[%s] %d\n", tab.Label, tab.Count)
		if tab.Placeholder != "" {
			fmt.Fprintf(out, "  %s\n", tab.Placeholder)
			continue
		}
		for _, item := range tab.Items {
			fmt.Fprintf(out, "  %s  %s (%s)\n", item.Date, item.Title, item.Source)
		}
	}
	return nil
}

// @title Investor Radar API
// @version 1.0
// @description Session-scoped view of company search results, risk labels and news sentiment.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "radar-web"}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-radar.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, searchCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing radar-web CLI: %s\n", err)
		os.Exit(1)
	}
}
