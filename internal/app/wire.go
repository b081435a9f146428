package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/auth"
	"github.com/winpay/platform/internal/grid"
	"github.com/winpay/platform/internal/handler"
	adminhandler "github.com/winpay/platform/internal/handler/admin"
	"github.com/winpay/platform/internal/infra"
	"github.com/winpay/platform/internal/ledger"
	"github.com/winpay/platform/internal/policy"
	"github.com/winpay/platform/internal/provider"
	"github.com/winpay/platform/internal/repository"
	"github.com/winpay/platform/internal/round"
	"github.com/winpay/platform/internal/service"
)

// Deps holds everything New needs to assemble the application.
type Deps struct {
	Pool   *pgxpool.Pool
	Cfg    *infra.Config
	JWTMgr *auth.JWTManager
	Logger *slog.Logger
}

// App is the wired application: the HTTP router plus the background
// round settler. The settler must be started by the caller.
type App struct {
	Router  chi.Router
	Settler *round.Settler
}

// New assembles repositories, the ledger engine, services, handlers and
// routes into a runnable App.
func New(deps Deps) (*App, error) {
	pool := deps.Pool
	cfg := deps.Cfg
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	accountRepo := repository.NewAccountRepository()
	entryRepo := repository.NewLedgerEntryRepository()
	betRepo := repository.NewBetRepository()
	roundRepo := repository.NewRoundRepository()
	gridRepo := repository.NewGridGameRepository()
	paymentRepo := repository.NewPaymentRepository()
	outboxRepo := repository.NewOutboxRepository()
	authUserRepo := repository.NewAuthUserRepository()

	// Ledger engine
	ledgerEngine := ledger.NewEngine(accountRepo, entryRepo, outboxRepo)

	// Round outcome generator and grid engine
	generator := round.NewGenerator(cfg.ServerSeed)
	gridEngine := grid.NewEngine(cfg.GridHouseEdge)
	rngClient := provider.NewRandomOrgClient(cfg.RandomOrgAPIKey, logger)

	// Withdrawal policy
	withdrawalPolicy := policy.DefaultWithdrawalPolicy()
	if cfg.MinWithdrawal > 0 {
		withdrawalPolicy.MinAmount = cfg.MinWithdrawal
	}

	// Services
	authSvc := service.NewAuthService(pool, authUserRepo, accountRepo, outboxRepo, jwtMgr, logger)
	walletSvc := service.NewWalletService(pool, accountRepo, entryRepo, logger)
	bettingSvc, err := service.NewBettingService(pool, ledgerEngine, betRepo, roundRepo, cfg.BetLockMargin, cfg.MinBetAmount, logger)
	if err != nil {
		return nil, err
	}
	gridSvc := service.NewGridService(pool, ledgerEngine, gridEngine, rngClient, gridRepo, outboxRepo, cfg.MinBetAmount, logger)
	approvalSvc := service.NewApprovalService(pool, ledgerEngine, paymentRepo, accountRepo, entryRepo, outboxRepo, withdrawalPolicy, cfg.WagerMultiple, logger)
	adminSvc, err := service.NewAdminService(pool, ledgerEngine, generator, accountRepo, entryRepo, outboxRepo, cfg.BetLockMargin, logger)
	if err != nil {
		return nil, err
	}

	// Background settler
	settler, err := round.NewSettler(pool, ledgerEngine, generator, betRepo, roundRepo, outboxRepo, cfg.BetLockMargin, logger)
	if err != nil {
		return nil, err
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	betHandler := handler.NewBetHandler(bettingSvc)
	gridHandler := handler.NewGridHandler(gridSvc)
	paymentHandler := handler.NewPaymentHandler(approvalSvc)

	// Admin handlers
	paymentsAdmin := adminhandler.NewPaymentsHandler(approvalSvc)
	playersAdmin := adminhandler.NewPlayersHandler(adminSvc)
	reportsAdmin := adminhandler.NewReportsHandler(adminSvc)
	roundsAdmin := adminhandler.NewRoundsHandler(adminSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (no auth)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/admin/login", authHandler.AdminLogin)
		})

		// Round info and results (no auth)
		r.Route("/rounds", func(r chi.Router) {
			r.Get("/{mode}/current", betHandler.CurrentRound)
			r.Get("/{mode}/results", betHandler.Results)
		})

		// Player-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.AuthenticatePlayer(jwtMgr))

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/balance", walletHandler.Balance)
				r.Get("/entries", walletHandler.Entries)
			})

			r.Route("/bets", func(r chi.Router) {
				r.Post("/", betHandler.Place)
				r.Get("/", betHandler.History)
			})

			r.Route("/grid", func(r chi.Router) {
				r.Post("/start", gridHandler.Start)
				r.Post("/reveal", gridHandler.Reveal)
				r.Post("/cashout", gridHandler.CashOut)
				r.Get("/active", gridHandler.Active)
				r.Get("/history", gridHandler.History)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/deposits", paymentHandler.SubmitDeposit)
				r.Get("/deposits", paymentHandler.ListDeposits)
				r.Post("/withdrawals", paymentHandler.RequestWithdrawal)
				r.Get("/withdrawals", paymentHandler.ListWithdrawals)
			})
		})

		// Admin-authenticated routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.AuthenticateAdmin(jwtMgr))
			r.Use(auth.RequireRole("admin", "superadmin"))

			r.Get("/dashboard", reportsAdmin.Dashboard)

			r.Route("/players", func(r chi.Router) {
				r.Get("/", playersAdmin.Search)
				r.Post("/{id}/freeze", playersAdmin.SetFrozen)
				r.Post("/{id}/credit", playersAdmin.Credit)
			})

			r.Route("/deposits", func(r chi.Router) {
				r.Get("/", paymentsAdmin.ListDeposits)
				r.Post("/{id}/approve", paymentsAdmin.ApproveDeposit)
				r.Post("/{id}/reject", paymentsAdmin.RejectDeposit)
			})

			r.Route("/withdrawals", func(r chi.Router) {
				r.Get("/", paymentsAdmin.ListWithdrawals)
				r.Post("/{id}/approve", paymentsAdmin.ApproveWithdrawal)
				r.Post("/{id}/reject", paymentsAdmin.RejectWithdrawal)
			})

			r.Get("/rounds/{mode}/preview", roundsAdmin.Preview)
		})
	})

	return &App{Router: r, Settler: settler}, nil
}

// ParseJWTExpiries converts the configured expiry strings into durations.
func ParseJWTExpiries(cfg *infra.Config) (player, admin time.Duration, err error) {
	player, err = time.ParseDuration(cfg.JWTPlayerExpiry)
	if err != nil {
		return 0, 0, err
	}
	admin, err = time.ParseDuration(cfg.JWTAdminExpiry)
	if err != nil {
		return 0, 0, err
	}
	return player, admin, nil
}
