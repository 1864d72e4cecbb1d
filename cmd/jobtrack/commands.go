package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/api/dto"
	"github.com/spec-kit/job-tracker/internal/client"
	"github.com/spec-kit/job-tracker/internal/config"
	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/filter"
	"github.com/spec-kit/job-tracker/internal/observability"
	"github.com/spec-kit/job-tracker/internal/stats"
)

const usage = `usage: jobtrack [global flags] <command> [flags]

commands:
  register  -name NAME            create the account given by -email/-password
  dashboard                       summary, weekly and monthly statistics
  list      [-status S] [-q TEXT] [-month YYYY-MM]
  add       -title T -company C -date YYYY-MM-DD [-location L] [-status S] [-notes N]
  update    -id ID -title T -company C -date YYYY-MM-DD [-location L] [-status S] [-notes N]
  delete    -id ID
`

var errUsage = errors.New("invalid usage")

type app struct {
	session *client.Session
	logger  *zap.Logger
	out     io.Writer
	email   string
	pass    string
	now     func() time.Time
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	global := flag.NewFlagSet("jobtrack", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }
	baseURL := global.String("api", cfg.Client.BaseURL, "API base URL")
	email := global.String("email", cfg.Client.Email, "account email")
	password := global.String("password", cfg.Client.Password, "account password")
	verbose := global.Bool("v", false, "debug logging on stderr")
	if err := global.Parse(args); err != nil {
		return err
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(config.LoggerConfig{Level: level, Output: "stderr"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	a := &app{
		session: client.NewSession(client.Config{BaseURL: *baseURL, Timeout: cfg.Client.Timeout()}, logger),
		logger:  logger,
		out:     out,
		email:   *email,
		pass:    *password,
		now:     time.Now,
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errUsage
	}
	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "register":
		return a.register(ctx, cmdArgs)
	case "dashboard":
		return a.withSession(ctx, func() error { return a.dashboard(ctx, cmdArgs) })
	case "list":
		return a.withSession(ctx, func() error { return a.list(ctx, cmdArgs) })
	case "add":
		return a.withSession(ctx, func() error { return a.add(ctx, cmdArgs) })
	case "update":
		return a.withSession(ctx, func() error { return a.update(ctx, cmdArgs) })
	case "delete":
		return a.withSession(ctx, func() error { return a.remove(ctx, cmdArgs) })
	default:
		global.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) withSession(ctx context.Context, fn func() error) error {
	if a.email == "" || a.pass == "" {
		return fmt.Errorf("%w: -email and -password (or JOBTRACKER_EMAIL/JOBTRACKER_PASSWORD) are required", errUsage)
	}
	if _, err := a.session.Login(ctx, a.email, a.pass); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer func() {
		if err := a.session.Logout(context.WithoutCancel(ctx)); err != nil {
			a.logger.Debug("logout failed", zap.Error(err))
		}
	}()
	return fn()
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.session.Register(ctx, *name, a.email, a.pass)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	fmt.Fprintf(a.out, "Registered %s <%s> (%s)\n", user.Name, user.Email, domain.Initials(user.Name))
	return nil
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.session.Load(ctx, domain.StatusAll); err != nil {
		return err
	}
	renderDashboard(a.out, a.session.Dashboard(stats.NewContext(a.now(), time.Local)))
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	status := fs.String("status", domain.StatusAll, "status filter")
	query := fs.String("q", "", "search text")
	month := fs.String("month", domain.StatusAll, "month filter, YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.session.Load(ctx, domain.StatusAll); err != nil {
		return err
	}
	apps := a.session.Filter(filter.Criteria{Status: *status, Query: *query})
	apps, err := filter.ByMonth(apps, *month)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	renderApplications(a.out, apps)
	return nil
}

func applicationFlags(fs *flag.FlagSet) *dto.ApplicationRequest {
	req := &dto.ApplicationRequest{}
	fs.StringVar(&req.JobTitle, "title", "", "job title")
	fs.StringVar(&req.Company, "company", "", "company")
	fs.StringVar(&req.Location, "location", "", "location")
	fs.StringVar(&req.Date, "date", "", "application date, YYYY-MM-DD")
	fs.StringVar(&req.Status, "status", string(domain.StatusApplied), "status")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	return req
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	req := applicationFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	created, err := a.session.Create(ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", created.ID)
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(a.out)
	id := fs.String("id", "", "application id")
	req := applicationFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}
	updated, err := a.session.Update(ctx, *id, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", updated.ID)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.out)
	id := fs.String("id", "", "application id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}
	if err := a.session.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", *id)
	return nil
}
