package main

import (
	"context"
	"crypto/ed25519"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dafiprotocol/gateway/internal/api"
	"github.com/dafiprotocol/gateway/internal/config"
	"github.com/dafiprotocol/gateway/internal/contract"
	"github.com/dafiprotocol/gateway/internal/database"
	"github.com/dafiprotocol/gateway/internal/export"
	"github.com/dafiprotocol/gateway/internal/identity"
	"github.com/dafiprotocol/gateway/internal/ledger"
	"github.com/dafiprotocol/gateway/internal/portfolio"
	"github.com/dafiprotocol/gateway/internal/registration"
	"github.com/dafiprotocol/gateway/internal/snapshot"
	"github.com/dafiprotocol/gateway/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	app := &cli.App{
		Name:  "gateway",
		Usage: "asset tokenization gateway for the DAFI platform",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, snapshot worker and KYC worker",
				Action: runServe,
			},
			{
				Name:  "export",
				Usage: "write a one-off platform report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "path of the .xlsx report; with --sheets the report goes to Google Sheets instead",
					},
					&cli.BoolFlag{
						Name:  "sheets",
						Usage: "write to the configured Google Sheets spreadsheet",
					},
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// gatewaySession builds the signing session for ledger requests. A configured
// seed wins; otherwise the wallet provider is asked to authorize one.
func gatewaySession(ctx context.Context, cfg config.Config) (*identity.Session, error) {
	if cfg.GatewaySeed != "" {
		seed, err := hex.DecodeString(cfg.GatewaySeed)
		if err != nil || len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("GATEWAY_SEED must be %d hex-encoded bytes", ed25519.SeedSize)
		}
		return identity.NewSession(cfg.GatewayPrincipal, ed25519.NewKeyFromSeed(seed)), nil
	}

	var wallet identity.Wallet
	if cfg.WalletProviderURL != "" {
		wallet = identity.NewRemoteWallet(cfg.WalletProviderURL)
	} else {
		local, err := identity.NewLocalWallet(cfg.GatewayPrincipal)
		if err != nil {
			return nil, fmt.Errorf("creating local wallet: %w", err)
		}
		wallet = local
	}

	provider := identity.NewProvider(wallet)
	session, err := provider.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting wallet: %w", err)
	}
	return session, nil
}

func buildContracts(cfg config.Config) *contract.Service {
	return contract.NewService(
		ledger.NewRegistry(cfg.RegistryURL),
		ledger.NewInvestments(cfg.InvestmentsURL),
		ledger.NewReturns(cfg.ReturnsURL),
	)
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	session, err := gatewaySession(ctx, cfg)
	if err != nil {
		return err
	}

	contracts := buildContracts(cfg)
	portfolioSvc := portfolio.NewService(contracts)

	kycClient := ledger.NewKYC(cfg.KYCURL)
	profileRepo := registration.NewPgRepository(pool)
	registrationSvc := registration.NewService(profileRepo, kycClient)

	snapshotRepo := snapshot.NewPgRepository(pool)
	snapshotSvc := snapshot.NewService(portfolioSvc, snapshotRepo)

	if _, err := snapshotRepo.EnsureEntity(ctx, cfg.SnapshotSlug, "DAFI Platform", "Marketplace-wide asset and investment state"); err != nil {
		return fmt.Errorf("ensuring snapshot entity: %w", err)
	}

	var hook worker.AfterSnapshotHook
	if cfg.SpreadsheetID != "" && cfg.GoogleCredentialsJSON != "" {
		writer, err := export.NewSheetsWriter(ctx, cfg.SpreadsheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		hook = export.NewService(writer)
	}

	snapshotWorker := worker.NewSnapshotWorker(snapshotSvc, cfg.SnapshotSlug, cfg.SnapshotWorkerInterval, hook)
	go snapshotWorker.Run(ctx)

	kycWorker := worker.NewKYCWorker(registrationSvc, cfg.KYCWorkerInterval)
	go kycWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, administrative endpoints are unprotected")
	}

	handler := api.NewHandler(contracts, registrationSvc, portfolioSvc, snapshotSvc, session, cfg.SnapshotSlug)
	srv := api.NewServer(cfg.HTTPPort, handler, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func runExport(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	contracts := buildContracts(cfg)
	portfolioSvc := portfolio.NewService(contracts)

	overview, err := portfolioSvc.GetPlatformOverview(ctx)
	if err != nil {
		return fmt.Errorf("building platform overview: %w", err)
	}

	var writer export.ReportWriter
	if c.Bool("sheets") {
		if cfg.SpreadsheetID == "" || cfg.GoogleCredentialsJSON == "" {
			return fmt.Errorf("SPREADSHEET_ID and GOOGLE_CREDENTIALS_JSON are required for --sheets")
		}
		writer, err = export.NewSheetsWriter(ctx, cfg.SpreadsheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
	} else {
		path := c.String("out")
		if path == "" {
			path = cfg.ReportPath
		}
		writer = export.NewXLSXWriter(path)
	}

	if err := export.NewService(writer).Export(ctx, overview); err != nil {
		return err
	}
	log.Println("Report written")
	return nil
}
