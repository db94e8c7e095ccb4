package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	sqliteadapter "github.com/onichandame/porter/internal/adapters/db/sqlite"
	rpcadapter "github.com/onichandame/porter/internal/adapters/rpcjson"
	"github.com/onichandame/porter/internal/application"
	"github.com/onichandame/porter/internal/config"
	"github.com/onichandame/porter/internal/domain"
	"github.com/onichandame/porter/internal/logger"
	"github.com/onichandame/porter/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "porter",
		Usage: "Service and gate registry daemon and CLI",
		Commands: []*cli.Command{
			daemonCommand(),
			servicesCommand(),
			gatesCommand(),
			configCommand(),
			versionCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDaemon(ctx, config.Default())
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func daemonCommand() *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "Run the registry daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file path"},
			&cli.StringFlag{Name: "socket", Usage: "control socket path"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("socket") {
				cfg.Socket = c.String("socket")
			}
			if c.IsSet("db-path") {
				cfg.DBPath = c.String("db-path")
			}
			return runDaemon(ctx, cfg)
		},
	}
}

func runDaemon(ctx context.Context, cfg config.Config) error {
	lg := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = lg.Sync() }()

	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return err
	}

	repo := sqliteadapter.NewRegistryRepository(db)
	service := application.NewRegistryService(repo)

	srv, err := rpcadapter.Start(cfg.Socket, service)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()
	lg.Info("registry daemon ready",
		logger.String("socket", cfg.Socket),
		logger.String("db", cfg.DBPath))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		lg.Info("received signal, shutting down", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}
	return nil
}

func servicesCommand() *cli.Command {
	return &cli.Command{
		Name:  "services",
		Usage: "Manage backend services",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List services",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "include-deleted", Usage: "show soft-deleted records"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Service
					if err := doServicesList(ctx, cfg, c.Bool("include-deleted"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printServices(out)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one service",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true},
					&cli.BoolFlag{Name: "include-deleted", Usage: "allow soft-deleted records"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Service
					if err := doServicesGet(ctx, cfg, c.Uint("id"), c.Bool("include-deleted"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printService(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Register a backend service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Required: true},
					&cli.IntFlag{Name: "port", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Service
					if err := doServicesCreate(ctx, cfg, c.String("host"), c.Int("port"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printService(out)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Change a service's endpoint",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "host"},
					&cli.IntFlag{Name: "port"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var host *string
					if c.IsSet("host") {
						v := c.String("host")
						host = &v
					}
					var port *int
					if c.IsSet("port") {
						v := c.Int("port")
						port = &v
					}
					var out domain.Service
					if err := doServicesUpdate(ctx, cfg, c.Uint("id"), host, port, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printService(out)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Soft-delete a service",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if err := doServicesDelete(ctx, cfg, c.Uint("id")); err != nil {
						return err
					}
					printDeleted("service", c.Uint("id"))
					return nil
				},
			},
		},
	}
}

func gatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "gates",
		Usage: "Manage front-facing gates",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List gates",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "include-deleted", Usage: "show soft-deleted records"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Gate
					if err := doGatesList(ctx, cfg, c.Bool("include-deleted"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printGates(out)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one gate",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true},
					&cli.BoolFlag{Name: "include-deleted", Usage: "allow soft-deleted records"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Gate
					if err := doGatesGet(ctx, cfg, c.Uint("id"), c.Bool("include-deleted"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printGate(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Open a gate in front of a service",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "service-id", Required: true},
					&cli.StringFlag{Name: "host", Required: true},
					&cli.IntFlag{Name: "port", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Gate
					if err := doGatesCreate(ctx, cfg, c.Uint("service-id"), c.String("host"), c.Int("port"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printGate(out)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Change a gate's endpoint or target service",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true},
					&cli.UintFlag{Name: "service-id"},
					&cli.StringFlag{Name: "host"},
					&cli.IntFlag{Name: "port"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var serviceID *uint
					if c.IsSet("service-id") {
						v := c.Uint("service-id")
						serviceID = &v
					}
					var host *string
					if c.IsSet("host") {
						v := c.String("host")
						host = &v
					}
					var port *int
					if c.IsSet("port") {
						v := c.Int("port")
						port = &v
					}
					var out domain.Gate
					if err := doGatesUpdate(ctx, cfg, c.Uint("id"), serviceID, host, port, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printGate(out)
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Soft-delete a gate",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if err := doGatesDelete(ctx, cfg, c.Uint("id")); err != nil {
						return err
					}
					printDeleted("gate", c.Uint("id"))
					return nil
				},
			},
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change CLI connection settings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "socket", Usage: "daemon control socket path"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if c.IsSet("socket") {
				cfg.Socket = c.String("socket")
				if err := saveConfig(cfg); err != nil {
					return err
				}
			}
			printKV([][2]string{{"socket", cfg.Socket}})
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println(version.String())
			return nil
		},
	}
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
