package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ngavatar/ngavatar/modules/account"
	"github.com/ngavatar/ngavatar/modules/avatar"
	"github.com/ngavatar/ngavatar/modules/email"
	"github.com/ngavatar/ngavatar/pkg/config"
	mailer "github.com/ngavatar/ngavatar/pkg/email"
	"github.com/ngavatar/ngavatar/pkg/file"
	"github.com/ngavatar/ngavatar/pkg/httpserver"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/logger"
	"github.com/ngavatar/ngavatar/pkg/pg"
	"github.com/ngavatar/ngavatar/pkg/requestid"
	"github.com/ngavatar/ngavatar/pkg/session"
	"github.com/ngavatar/ngavatar/pkg/template"
)

type appConfig struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"./templates"`
	StaticDir    string `env:"STATIC_DIR" envDefault:"./static"`

	HTTP    httpserver.Config
	PG      pg.Config
	Session session.Config
	Account account.Config
	Email   email.Config
	Avatar  avatar.Config
	Mailer  mailer.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("ngavatar exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.WithEnvironment(cfg.Env, "ngavatar"))
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	views := template.NewDir(cfg.TemplatesDir)

	sessions := session.NewManager(session.NewPGStore(pool), cfg.Session.TTL)
	if cfg.Session.CleanupInterval > 0 {
		go cleanupSessions(ctx, sessions, cfg.Session.CleanupInterval, log)
	}

	accountRepo := account.NewPGRepository(pool)
	accountSvc := account.NewService(accountRepo, log)
	guard := account.NewGuard(sessions, accountRepo, log, cfg.Account.SigninPath)

	sender, err := newSender(cfg.Mailer)
	if err != nil {
		return fmt.Errorf("create mail sender: %w", err)
	}

	emailRepo := email.NewPGRepository(pool)
	emailSvc := email.NewService(cfg.Email, emailRepo, sender, views, log)
	emailHandlers := email.NewHandlers(emailSvc, guard, views, log)

	storage, err := file.NewLocalStorage(cfg.Avatar.StorageDir, "/avatar")
	if err != nil {
		return fmt.Errorf("create avatar storage: %w", err)
	}
	avatarSvc := avatar.NewService(cfg.Avatar, avatar.NewPGRepository(pool), storage, emailRepo, log)
	avatarHandlers := avatar.NewHandlers(avatarSvc, emailSvc, guard, views, log)

	accountHandlers := account.NewHandlers(
		cfg.Account, accountSvc, sessions, guard, views,
		profileVars(emailSvc, avatarSvc), log,
	)

	adapter := httpx.NewAdapter(log, errorPage(views, log))

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.HandleFunc("/", adapter.Handle(
		httpx.AllowMethods(http.MethodGet)(indexPage(views))))
	r.Get("/favicon.ico", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(cfg.StaticDir, "favicon.ico"))
	})
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, func(ctx context.Context) error {
		return pool.Ping(ctx)
	}))

	accountHandlers.Register(r, adapter)
	emailHandlers.Register(r, adapter)
	avatarHandlers.Register(r, adapter)

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("ngavatar listening", slog.String("addr", cfg.HTTP.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("ngavatar stopped")
		}),
	)
	return srv.Run(ctx, r)
}

// newSender picks Postmark when configured and the filesystem dev
// sender otherwise.
func newSender(cfg mailer.Config) (mailer.EmailSender, error) {
	if cfg.PostmarkServerToken != "" {
		return mailer.NewPostmarkClient(cfg)
	}
	return mailer.NewDevSender(cfg.DevDir), nil
}

// profileVars assembles the email and avatar listings shown on the user
// main page.
func profileVars(emails *email.Service, avatars *avatar.Service) account.ProfileVarsFunc {
	return func(ctx context.Context, accountID int64) (map[string]any, error) {
		mails, err := emails.List(ctx, accountID)
		if err != nil {
			return nil, err
		}
		emailVars := make([]map[string]any, 0, len(mails))
		for _, m := range mails {
			v := map[string]any{
				"ID":       m.ID,
				"Address":  m.Address,
				"Hash":     m.Hash,
				"Verified": m.Verified,
				"AvatarID": int64(0),
			}
			if m.AvatarID != nil {
				v["AvatarID"] = *m.AvatarID
			}
			emailVars = append(emailVars, v)
		}

		avs, err := avatars.List(ctx, accountID)
		if err != nil {
			return nil, err
		}
		avatarVars := make([]map[string]any, 0, len(avs))
		for _, a := range avs {
			avatarVars = append(avatarVars, map[string]any{
				"ID":    a.ID,
				"Title": a.Title,
			})
		}

		return map[string]any{
			"emails":  emailVars,
			"avatars": avatarVars,
		}, nil
	}
}

// indexPage renders the public landing page.
func indexPage(views template.Dir) httpx.HandlerFunc {
	return func(req *httpx.Request) (*httpx.Response, error) {
		body, err := views.Render("index", nil)
		if err != nil {
			return nil, err
		}
		return httpx.HTML(body), nil
	}
}

// errorPage renders error responses through the shared error template,
// falling back to the adapter's plain-text page when rendering fails.
func errorPage(views template.Dir, log *slog.Logger) httpx.ErrorPageFunc {
	return func(status int) *httpx.Response {
		body, err := views.Render("error", map[string]any{
			"status": status,
			"text":   httpx.StatusLine(status),
		})
		if err != nil {
			log.Error("failed to render error page",
				slog.Int("status", status), slog.String("error", err.Error()))
			return nil
		}
		return httpx.ErrorPage(status, body)
	}
}

func cleanupSessions(ctx context.Context, sessions *session.Manager, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.Cleanup(ctx); err != nil {
				log.ErrorContext(ctx, "session cleanup failed", slog.String("error", err.Error()))
			}
		}
	}
}
