package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xaenox/copilot-bot/internal/bot"
	"github.com/xaenox/copilot-bot/internal/console"
	"github.com/xaenox/copilot-bot/internal/game"
	"github.com/xaenox/copilot-bot/internal/responder"
	"github.com/xaenox/copilot-bot/pkg/config"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	render     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "copilot",
	Short: "Offline Copilot-style assistant",
	Long: `copilot answers chat messages, arithmetic, comparisons, rankings,
summaries and brainstorms with structured Markdown. It never calls a network API.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("render") {
			cfg.Render.Enabled = render
		}

		logger, err = newLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runChat,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat (default)",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Serve the assistant as a Telegram bot",
	Long: `Long-polls Telegram with the token from telegram.token or TELEGRAM_TOKEN.
Exchanges are stored per Telegram user in the configured history store.`,
	Args: cobra.NoArgs,
	RunE: runTelegram,
}

var rpsCmd = &cobra.Command{
	Use:   "rps",
	Short: "Play rock-paper-scissors in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runGame,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&render, "render", false, "Render Markdown replies for the terminal")

	rootCmd.AddCommand(chatCmd, telegramCmd, rpsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newResponder() *responder.Responder {
	return responder.New(responder.Style{
		MaxTableCols:        cfg.Responder.MaxTableCols,
		ShortReplyThreshold: cfg.Responder.ShortReplyThreshold,
	}, logger.Named("responder"))
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := []console.Option{console.WithHistoryLimit(cfg.History.Limit)}
	if cfg.Render.Enabled {
		r, err := console.NewGlamourRenderer(cfg.Render.WordWrap)
		if err != nil {
			logger.Warn("Markdown rendering disabled", zap.Error(err))
		} else {
			opts = append(opts, console.WithRenderer(r))
		}
	}

	session := console.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), newResponder(), store, logger.Named("console"), opts...)
	return session.Run(ctx)
}

func runTelegram(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := bot.New(cfg.Telegram.Token, store, newResponder(), cfg.History.Limit, logger.Named("bot"))
	if err != nil {
		return err
	}
	return b.Start(ctx)
}

func runGame(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	session := game.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), game.RandomChooser{}, logger.Named("game"))
	return session.Run(ctx)
}
