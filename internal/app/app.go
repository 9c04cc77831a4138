package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thatredkite/pyrobot/internal/app/handlers/discord/attempt_handler"
	"github.com/thatredkite/pyrobot/internal/app/handlers/discord/maxtries_handler"
	"github.com/thatredkite/pyrobot/internal/app/handlers/discord/reset_handler"
	"github.com/thatredkite/pyrobot/internal/app/handlers/discord/setrole_handler"
	"github.com/thatredkite/pyrobot/internal/app/handlers/http/attempt_report_handler"
	"github.com/thatredkite/pyrobot/internal/app/handlers/http/health_handler"
	"github.com/thatredkite/pyrobot/internal/app/handlers/http/reset_attempts_handler"
	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/domain/questions"
	"github.com/thatredkite/pyrobot/internal/infra/config"
	discordinfra "github.com/thatredkite/pyrobot/internal/infra/discord"
	"github.com/thatredkite/pyrobot/internal/infra/logger"
)

const questionFileName = "questions.json"

type Services struct {
	store repository.AttemptStore
	bank  *questions.Bank
}

type App struct {
	config   *config.Config
	log      *zap.Logger
	redis    *redis.Client
	discord  *discordgo.Session
	platform *discordinfra.Platform
	server   *http.Server

	Services
	handlers map[string]discordinfra.InteractionHandler
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	log, err := logger.New(configImpl.Debug)
	if err != nil {
		return nil, fmt.Errorf("logger.New: %w", err)
	}

	rdb, err := InitRedis(configImpl, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	app := &App{
		config: configImpl,
		log:    log,
		redis:  rdb,
	}

	app.initServices()

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() {
	app.store = repository.NewRedisStore(app.redis)
	app.bank = questions.NewBank(filepath.Join(app.config.DataDir, questionFileName))
}

// ListenAndServeDiscord подключает бота к шлюзу Discord
func (app *App) ListenAndServeDiscord() error {
	session, err := discordgo.New("Bot " + app.config.DiscordBot.Token)
	if err != nil {
		return fmt.Errorf("discordgo.New: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	app.discord = session
	app.platform = discordinfra.NewPlatform(session, app.log)

	app.bootstrapHandlersDiscord()
	session.AddHandler(app.onReady)
	session.AddHandler(app.onInteraction)

	if err := session.Open(); err != nil {
		return fmt.Errorf("discordgo open: %w", err)
	}
	return nil
}

// bootstrapHandlersDiscord - регистрирует обработчики подкоманд бота
func (app *App) bootstrapHandlersDiscord() {
	timeout := app.config.PromptTimeout()
	app.handlers = map[string]discordinfra.InteractionHandler{
		"attempt": discordinfra.Recover(app.log,
			attempt_handler.NewAttemptHandler(app.store, app.bank, app.platform, app.log, timeout).Handle),
		"setrole": discordinfra.Recover(app.log,
			setrole_handler.NewSetRoleHandler(app.store).Handle),
		"maxtries": discordinfra.Recover(app.log,
			maxtries_handler.NewMaxTriesHandler(app.store).Handle),
		"reset": discordinfra.Recover(app.log,
			reset_handler.NewResetHandler(app.store).Handle),
	}
}

func (app *App) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	if err := RegisterCommands(s); err != nil {
		app.log.Error("failed to register slash commands", zap.Error(err))
		return
	}
	app.log.Info("slash commands registered", zap.String("bot", s.State.User.Username))
}

// onInteraction маршрутизирует вызовы /pyrotest к обработчикам подкоманд.
func (app *App) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandName || len(data.Options) == 0 {
		return
	}

	if i.GuildID == "" {
		_ = discordinfra.Respond(s, i, "This command can only be used in a server.")
		return
	}

	subcommand := data.Options[0].Name
	handler, ok := app.handlers[subcommand]
	if !ok {
		return
	}
	if err := handler(s, i); err != nil {
		app.log.Error("command handler failed",
			zap.String("subcommand", subcommand),
			zap.String("guild_id", i.GuildID),
			zap.Error(err))
	}
}

// ListenAndServeHTTP запускает административный HTTP сервер
func (app *App) ListenAndServeHTTP() error {
	router := chi.NewRouter()

	router.Method(http.MethodGet, "/healthz",
		health_handler.NewHealthHandler(app.redis))
	router.Method(http.MethodGet, "/guilds/{guildID}/users/{userID}/attempts",
		attempt_report_handler.NewAttemptReportHandler(app.store))
	router.Method(http.MethodPost, "/guilds/{guildID}/users/{userID}/reset",
		reset_attempts_handler.NewResetAttemptsHandler(app.store))

	app.server = &http.Server{
		Addr:    app.config.HTTPAddr(),
		Handler: router,
	}

	return app.server.ListenAndServe()
}

// Run запускает бота и HTTP сервер и блокируется до сигнала завершения.
func (app *App) Run() error {
	if err := app.ListenAndServeDiscord(); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}

	go func() {
		if err := app.ListenAndServeHTTP(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.Error("http server failed", zap.Error(err))
		}
	}()

	app.log.Info("pyrobot is running",
		zap.String("http_addr", app.config.HTTPAddr()),
		zap.Duration("prompt_timeout", app.config.PromptTimeout()))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	return app.Shutdown()
}

// Shutdown останавливает HTTP сервер, шлюз Discord и соединение с Redis.
func (app *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			app.log.Warn("http server shutdown failed", zap.Error(err))
		}
	}
	if app.discord != nil {
		if err := app.discord.Close(); err != nil {
			app.log.Warn("discord session close failed", zap.Error(err))
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.log.Warn("redis close failed", zap.Error(err))
		}
	}
	_ = app.log.Sync()
	return nil
}
