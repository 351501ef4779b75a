package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sqliteadapter "github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/db/sqlite"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/filestore"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/hasher"
	httpadapter "github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/http"
	rpcadapter "github.com/SoloPlayerFront-Dev/pcesp/internal/adapters/rpcjson"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/application"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/config"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/logging"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "pcesp",
		Usage: "Police records server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			authCommand(),
			ranksCommand(),
			officersCommand(),
			itemsCommand(),
			reportsCommand(),
			auditCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP and JSON-RPC servers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file; PCESP_* environment variables override it", Sources: cli.EnvVars("PCESP_CONFIG")},
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path"},
			&cli.StringFlag{Name: "upload-dir", Usage: "directory for photos and attachments"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Server.Addr = c.String("addr")
			}
			if c.IsSet("rpc-socket") {
				cfg.Server.RPCSocket = c.String("rpc-socket")
			}
			if c.IsSet("db-path") {
				cfg.Database.Path = c.String("db-path")
			}
			if c.IsSet("upload-dir") {
				cfg.Storage.UploadDir = c.String("upload-dir")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Logging.Environment, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := sqliteadapter.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return err
	}

	files, err := filestore.NewLocal(cfg.Storage.UploadDir)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repo := sqliteadapter.NewRecordsRepository(db)
	service := application.NewRecordsService(repo, hasher.NewBcrypt(0), files, logger, metrics.New(reg))
	created, err := service.BootstrapChief(ctx, application.BootstrapInput{
		Badge:     cfg.Bootstrap.Badge,
		Name:      cfg.Bootstrap.Name,
		Password:  cfg.Bootstrap.Password,
		RankName:  cfg.Bootstrap.RankName,
		RankLevel: cfg.Bootstrap.RankLevel,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Warn("bootstrap chief created, change the password", zap.String("badge", cfg.Bootstrap.Badge))
	}

	router := httpadapter.NewRouter(service, httpadapter.Options{
		Logger:     logger.Named("http"),
		Gatherer:   reg,
		UploadDir:  files.Dir(),
		SessionTTL: cfg.Auth.SessionTTL,
	})
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router, ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout}

	rpcSrv, err := rpcadapter.Start(cfg.Server.RPCSocket, service, logger.Named("rpc"))
	if err != nil {
		return err
	}
	defer func() {
		_ = rpcSrv.Close()
	}()
	logger.Info("json-rpc listening", zap.String("socket", cfg.Server.RPCSocket))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authentication commands",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Login and store CLI token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Value: "uds"},
					&cli.StringFlag{Name: "server", Value: defaultServer},
					&cli.StringFlag{Name: "socket", Value: defaultSocket},
					&cli.StringFlag{Name: "badge", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "token-name", Value: "cli"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := cliConfig{Transport: c.String("transport"), Server: c.String("server"), Socket: c.String("socket")}
					var out struct {
						Token string `json:"token"`
						Badge string `json:"badge"`
					}
					if err := doLogin(ctx, cfg, c.String("badge"), c.String("password"), c.String("token-name"), &out); err != nil {
						return err
					}
					cfg.Token = out.Token
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("logged in as badge %s\n", out.Badge)
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "Show current authenticated officer",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out struct {
						ID    uint   `json:"id"`
						Name  string `json:"name"`
						Badge string `json:"badge"`
						Rank  string `json:"rank"`
						Level int    `json:"level"`
					}
					if err := doWhoAmI(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{
						{"id", uintToString(out.ID)},
						{"name", out.Name},
						{"badge", out.Badge},
						{"rank", out.Rank},
						{"level", fmt.Sprint(out.Level)},
					})
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "Clear local CLI auth token",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					_ = doLogout(ctx, cfg)
					cfg.Token = ""
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Println("logged out")
					return nil
				},
			},
		},
	}
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
