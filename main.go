package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/bhuvan2018/Portfolio/internal/assistant"
	"github.com/bhuvan2018/Portfolio/internal/config"
	"github.com/bhuvan2018/Portfolio/internal/contact"
	"github.com/bhuvan2018/Portfolio/internal/content"
	"github.com/bhuvan2018/Portfolio/internal/kv"
	"github.com/bhuvan2018/Portfolio/internal/logger"
	"github.com/bhuvan2018/Portfolio/internal/visits"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio website server",
		// Running portfolio with no subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(newVisitsCmd(), newPurgeCmd())
	return root
}

func newVisitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "visits",
		Short: "Print the number of visitor profiles and visits",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := openStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			t, err := st.tally.Tally(cmd.Context(), ":"+visits.CountKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profiles: %d\nvisits:   %d\n", t.Keys, t.Total)
			return nil
		},
	}
}

func newPurgeCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete visitor data not written within --older-than",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := openStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if st.purger == nil {
				return errors.New("purge is only supported with the SQLite store; Redis keys expire on their own")
			}
			n, err := st.purger.PurgeOlderThan(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", defaultRetention, "remove entries idle for longer than this")
	return cmd
}

// stores bundles the profile and session stores with what the admin
// pages need from the backend.
type stores struct {
	profiles kv.Store
	sessions kv.Store
	tally    kv.Tallier
	purger   purger
	closers  []func() error
}

func (s *stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// openStores uses Redis for both scopes when REDIS_URL is set. Otherwise
// profiles live in SQLite and sessions in memory.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.RedisURL != "" {
		profiles, err := kv.NewRedis(ctx, cfg.RedisURL, 0)
		if err != nil {
			return nil, err
		}
		return &stores{
			profiles: profiles,
			sessions: profiles.WithTTL(cfg.SessionTTL),
			tally:    profiles,
			closers:  []func() error{profiles.Close},
		}, nil
	}

	db, err := kv.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &stores{
		profiles: db,
		sessions: kv.NewMemoryStore(cfg.SessionTTL),
		tally:    db,
		purger:   db,
		closers:  []func() error{db.Close},
	}, nil
}

func newResponder(cfg config.AssistantConfig, log *zap.Logger) assistant.Responder {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		completer := assistant.NewOpenAICompleter(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens)
		return assistant.NewModelResponder(completer, cfg.SystemPrompt, log)
	case config.ProviderAnthropic:
		completer := assistant.NewAnthropicCompleter(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens)
		return assistant.NewModelResponder(completer, cfg.SystemPrompt, log)
	default:
		return assistant.KeywordResponder{Selector: assistant.DefaultSelector()}
	}
}

func newSender(cfg config.MailConfig, log *zap.Logger) contact.Sender {
	if cfg.ResendAPIKey != "" {
		s, err := contact.NewResendSender(cfg.ResendAPIKey, cfg.From, cfg.FromName, cfg.To)
		if err == nil {
			return s
		}
		log.Warn("resend not usable, trying SMTP", zap.Error(err))
	}
	s, err := contact.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.From, cfg.To)
	if err != nil {
		log.Warn("contact form has no mail transport", zap.Error(err))
		return contact.NoopSender{}
	}
	return s
}

func newServer(cfg *config.Config, log *zap.Logger, portfolio *content.Portfolio, st *stores) (*server, error) {
	secure := cfg.IsProduction()

	admin, err := newAdminAuth(cfg.Admin, secure, log.Named("admin"))
	if err != nil {
		return nil, err
	}

	chats := assistant.NewHub(assistant.WidgetOptions{
		Responder: newResponder(cfg.Assistant, log.Named("assistant")),
		Delay:     cfg.Assistant.ThinkingDelay,
		Log:       log.Named("assistant"),
	}, cfg.Assistant.IdleTTL)

	return &server{
		log:         log,
		portfolio:   portfolio,
		profiles:    st.profiles,
		sessions:    st.sessions,
		counter:     visits.NewCounter(log.Named("visits"), cfg.CounterVisible),
		chats:       chats,
		contact:     contact.NewService(newSender(cfg.Mail, log), log.Named("contact")),
		admin:       admin,
		tally:       st.tally,
		purger:      st.purger,
		corsOrigins: cfg.CORSOrigins,
		secure:      secure,
		startedAt:   time.Now(),
	}, nil
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogFile, cfg.IsProduction())
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := newServer(cfg, log, portfolio, st)
	if err != nil {
		return err
	}
	defer s.chats.Close()

	r, err := s.router()
	if err != nil {
		return err
	}

	// Clean up old visitor data for privacy compliance (run in background)
	if st.purger != nil {
		go func() {
			if _, err := s.cleanupOldProfiles(ctx, defaultRetention); err != nil {
				log.Warn("privacy cleanup failed", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("assistant", cfg.Assistant.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	stop()

	log.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
