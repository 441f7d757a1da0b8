// Package main is the clickatell command line: SMS operations against the
// configured transport, the callback server and its database chores.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/arcturial/clickatell/internal/config"
	"github.com/arcturial/clickatell/internal/server"
	"github.com/arcturial/clickatell/pkg/cache"
	"github.com/arcturial/clickatell/pkg/clickatell"
	"github.com/arcturial/clickatell/pkg/db"
	"github.com/arcturial/clickatell/pkg/transport"
)

const usage = `Usage: clickatell [command]
       clickatell send <to,...> <text> [from]  Send a message to one or more recipients.
       clickatell balance                      Show the account balance.
       clickatell query <apiMsgId>             Show the delivery status of a message.
       clickatell coverage <msisdn>            Check whether a number can be reached.
       clickatell charge <apiMsgId>            Show the charge of a message.
       clickatell stop <apiMsgId>              Stop a scheduled message.
       clickatell status <apiMsgId>            Show the last cached callback status (REDIS_ADDR).
       clickatell serve                        Start the callback server and gateway.
       clickatell migrate up                   Run database migrations.
       clickatell migrate down                 Roll back one migration (not supported).
       clickatell migrate status               Show migration status.
       clickatell ensure-db [name]             Create database if missing (default name: clickatell_test).
       clickatell clear                        Truncate stored callbacks; schema is preserved.

Commands:
  serve (default)  Start the callback receiver, the NATS gateway and the message log.
  send ... stop    Run one operation through CLICKATELL_TRANSPORT and print the translated output.
  status           Read the delivery status cache filled by the callback server.

Environment: CLICKATELL_TRANSPORT (default http), CLICKATELL_USER, CLICKATELL_PASSWORD,
CLICKATELL_API_ID, CLICKATELL_TOKEN, CLICKATELL_OUTPUT (json, xml, raw), DATABASE_URL,
MIGRATION_PATH, REDIS_ADDR, COMMS_URL, HTTP_PORT. A .env file in the working directory is loaded first.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "send", "balance", "query", "coverage", "charge", "stop":
		if err := runOperation(cmd, args[1:]); err != nil {
			log.Fatalf("clickatell %s: %v", cmd, err)
		}
		return
	case "status":
		if len(args) < 2 {
			log.Fatalf("clickatell status: require apiMsgId")
		}
		if err := runStatus(args[1]); err != nil {
			log.Fatalf("clickatell status: %v", err)
		}
		return
	case "migrate":
		if len(args) < 2 {
			log.Fatalf("clickatell migrate: require subcommand (up, down, status)")
		}
		sub := args[1]
		switch sub {
		case "up":
			if err := runMigrateUp(); err != nil {
				log.Fatalf("clickatell migrate up: %v", err)
			}
		case "status":
			if err := runMigrateStatus(); err != nil {
				log.Fatalf("clickatell migrate status: %v", err)
			}
		case "down":
			if err := runMigrateDown(); err != nil {
				log.Fatalf("clickatell migrate down: %v", err)
			}
		default:
			log.Fatalf("clickatell migrate: unknown subcommand %q (use up, down, status)", sub)
		}
		return
	case "clear":
		if err := runClear(); err != nil {
			log.Fatalf("clickatell clear: %v", err)
		}
		return
	case "ensure-db":
		dbName := "clickatell_test"
		if len(args) > 1 && args[1] != "" {
			dbName = args[1]
		}
		if err := runEnsureDB(dbName); err != nil {
			log.Fatalf("clickatell ensure-db: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		break
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("clickatell: %v", err)
	}
}

// operationCall maps a command and its arguments to a transport operation.
func operationCall(cmd string, args []string) (string, []interface{}, error) {
	need := func(n int, what string) error {
		if len(args) < n {
			return fmt.Errorf("require %s", what)
		}
		return nil
	}

	switch cmd {
	case "send":
		if err := need(2, "<to,...> <text>"); err != nil {
			return "", nil, err
		}
		to := splitRecipients(args[0])
		if len(to) == 0 {
			return "", nil, errors.New("require at least one recipient")
		}
		call := []interface{}{to, args[1]}
		if len(args) > 2 && args[2] != "" {
			call = append(call, args[2])
		}
		return transport.OpSendMessage, call, nil
	case "balance":
		return transport.OpGetBalance, nil, nil
	case "query":
		if err := need(1, "<apiMsgId>"); err != nil {
			return "", nil, err
		}
		return transport.OpQueryMessage, []interface{}{args[0]}, nil
	case "coverage":
		if err := need(1, "<msisdn>"); err != nil {
			return "", nil, err
		}
		return transport.OpRouteCoverage, []interface{}{args[0]}, nil
	case "charge":
		if err := need(1, "<apiMsgId>"); err != nil {
			return "", nil, err
		}
		return transport.OpGetMessageCharge, []interface{}{args[0]}, nil
	case "stop":
		if err := need(1, "<apiMsgId>"); err != nil {
			return "", nil, err
		}
		return transport.OpStopMessage, []interface{}{args[0]}, nil
	}
	return "", nil, fmt.Errorf("unknown operation command %q", cmd)
}

func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runOperation(cmd string, args []string) error {
	op, callArgs, err := operationCall(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	server.SetupLogging(cfg)
	if err := cfg.ValidateForClient(); err != nil {
		return err
	}
	opts, err := cfg.ClientOptions()
	if err != nil {
		return err
	}
	client, err := clickatell.New(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	out, err := client.Call(ctx, op, callArgs...)
	if err != nil {
		return err
	}
	return printOutput(out)
}

func printOutput(out interface{}) error {
	if s, ok := out.(string); ok {
		fmt.Println(s)
		return nil
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

func runStatus(apiMsgID string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}
	rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rc.Close()

	st, err := cache.NewStatusCache(rc, cfg.StatusCacheTTL).Get(context.Background(), apiMsgID)
	if errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("no status cached for %s", apiMsgID)
	}
	if err != nil {
		return err
	}
	return printOutput(st)
}

func runMigrateUp() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	migrations, err := db.LoadMigrationFiles(cfg.MigrationPath)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := db.RunMigrations(ctx, pool, migrations); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func runMigrateStatus() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	return db.MigrationStatus(ctx, pool, cfg.MigrationPath)
}

func runMigrateDown() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	return db.MigrationDown(ctx, pool, cfg.MigrationPath)
}

func runClear() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.ClearCallbacks(ctx, pool); err != nil {
		return fmt.Errorf("clear callbacks: %w", err)
	}
	return nil
}

func runEnsureDB(dbName string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	targetURL, err := db.WithDatabaseName(cfg.DatabaseURL, dbName)
	if err != nil {
		return err
	}
	if err := db.EnsureDatabase(context.Background(), targetURL); err != nil {
		return err
	}
	fmt.Printf("Database %q is ready.\n", dbName)
	return nil
}
