// employeectl is the administrative companion of the employee API. It seeds
// the configured store from a JSON file, prints the audit log written by the
// API, and hashes the administrator password for AUTH_ADMIN_PASSWORD_HASH.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/audit"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/bootstrap"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/service"
	"github.com/spec-kit/employee-service/internal/worker"
)

const (
	commandSeed         = "seed"
	commandAudit        = "audit"
	commandHashPassword = "hash-password"

	seedActor = "employeectl"
)

type arguments struct {
	command  string
	verbose  bool
	seedFile io.ReadCloser
	auditDir string
	password string
	cost     int
}

func parseArgs(args []string) (*arguments, error) {
	app := kingpin.New("employeectl", "Administrative utility for the employee service.")
	verbose := app.Flag("verbose", "Write service logs to stdout.").Default("false").Bool()

	seed := app.Command(commandSeed, "Create employees from a JSON array through the configured store.")
	seedFile := seed.Flag("file", "JSON file holding an array of employees.").Required().File()

	auditCmd := app.Command(commandAudit, "Print the entries of an audit log.")
	auditDir := auditCmd.Flag("path", "Audit log directory (AUDIT_LOG_PATH of the API).").Required().ExistingDir()

	hash := app.Command(commandHashPassword, "Print a bcrypt hash suitable for AUTH_ADMIN_PASSWORD_HASH.")
	password := hash.Flag("password", "Plaintext administrator password.").Required().String()
	cost := hash.Flag("cost", "bcrypt cost factor.").Default("12").Int()

	command, err := app.Parse(args)
	if err != nil {
		return nil, err
	}

	if command == commandHashPassword && (*cost < bcrypt.MinCost || *cost > bcrypt.MaxCost) {
		return nil, errors.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	a := &arguments{
		command:  command,
		verbose:  *verbose,
		auditDir: *auditDir,
		password: *password,
		cost:     *cost,
	}
	if command == commandSeed {
		a.seedFile = *seedFile
	}
	return a, nil
}

func (a *arguments) execute(ctx context.Context, output io.Writer) error {
	switch a.command {
	case commandSeed:
		defer a.seedFile.Close()
		return a.runSeed(ctx, output)
	case commandAudit:
		return dumpAudit(a.auditDir, output)
	case commandHashPassword:
		hashed, err := auth.HashPassword(a.password, a.cost)
		if err != nil {
			return errors.WithMessage(err, "could not hash password")
		}
		fmt.Fprintln(output, hashed)
		return nil
	default:
		return errors.Errorf("unknown command %q", a.command)
	}
}

func (a *arguments) runSeed(ctx context.Context, output io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.WithMessage(err, "failed to load config")
	}
	if err := requireDurableStore(cfg); err != nil {
		return err
	}

	logger := zap.NewNop()
	if a.verbose {
		if logger, err = observability.NewLogger(cfg.Logger, cfg.App); err != nil {
			return errors.WithMessage(err, "failed to init logger")
		}
		defer logger.Sync() //nolint:errcheck
	}

	store, err := bootstrap.OpenEmployeeStore(ctx, cfg, logger)
	if err != nil {
		return errors.WithMessage(err, "failed to open employee store")
	}
	defer store.Close()

	dispatcher := events.NewInMemoryDispatcher()
	if cfg.Audit.LogPath != "" {
		auditLog, err := audit.Open(cfg.Audit.LogPath)
		if err != nil {
			return err
		}
		defer auditLog.Close()
		worker.StartAuditWorker(service.NewAuditService(dispatcher, auditLog, logger, cfg.Audit))
	}

	svc := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: store.Repo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	_, err = seedEmployees(ctx, svc, a.seedFile, output)
	return err
}

// requireDurableStore rejects stores that lose their records when the
// process exits.
func requireDurableStore(cfg *config.Config) error {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory, "":
		return errors.Errorf("seed needs a durable store, got STORE_DRIVER=%q", cfg.Store.Driver)
	case config.StoreDriverBadger:
		if cfg.Badger.Path == "" {
			return errors.New("seed needs BADGER_PATH when STORE_DRIVER=badger")
		}
	}
	return nil
}

// seedEmployees creates every record in r, stopping at the first invalid one.
func seedEmployees(ctx context.Context, svc *service.EmployeeService, r io.Reader, output io.Writer) (int, error) {
	var records []dto.EmployeeRequest
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, errors.WithMessage(err, "seed file must hold a JSON array of employees")
	}

	ctx = service.WithActor(ctx, events.Actor{Subject: seedActor})
	for i, rec := range records {
		dob, ok := dto.ParseDate(rec.DateOfBirth)
		if !ok {
			return i, errors.Errorf("record %d: invalid date_of_birth %q, expected YYYY-MM-DD", i, rec.DateOfBirth)
		}
		emp, err := svc.CreateEmployee(ctx, service.EmployeeInput{
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
			Email:       rec.Email,
			DateOfBirth: dob,
			Position:    rec.Position,
		})
		if err != nil {
			return i, errors.WithMessagef(err, "record %d", i)
		}
		fmt.Fprintf(output, "created employee %d %s %s\n", emp.ID, emp.FirstName, emp.LastName)
	}
	return len(records), nil
}

func dumpAudit(dir string, output io.Writer) error {
	exists, err := audit.Exists(dir)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("no audit log in %s", dir)
	}

	log, err := audit.Open(dir)
	if err != nil {
		return err
	}
	defer log.Close()

	iter := log.Iterator()
	for entry, err := iter.Next(); err != io.EOF; entry, err = iter.Next() {
		if err != nil {
			return errors.WithMessage(err, "failed reading audit log")
		}
		actor := entry.Event.Actor.Subject
		if actor == "" {
			actor = "-"
		}
		fmt.Fprintf(output, "% 6d %s %-16s employee=%d actor=%s\n",
			entry.Index,
			entry.Event.Timestamp.UTC().Format(time.RFC3339),
			entry.Event.Type,
			entry.Event.EmployeeID,
			actor)
	}
	return nil
}

func main() {
	kingpin.Version("0.1.0")
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		kingpin.Fatalf("failed to parse arguments, %s, try --help", err)
	}
	if err := args.execute(context.Background(), os.Stdout); err != nil {
		kingpin.Fatalf("%s", err)
	}
}
