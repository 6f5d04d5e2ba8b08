package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/services"
	"fintrack/internal/worker"
)

const cacheCleanupInterval = time.Minute

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var run func(*app, []string) error
	switch os.Args[1] {
	case "add":
		run = runAdd
	case "edit":
		run = runEdit
	case "delete":
		run = runDelete
	case "list":
		run = runList
	case "home":
		run = runHome
	case "overview":
		run = runOverview
	case "chart":
		run = runChart
	case "categories":
		run = runCategories
	case "watch":
		run = runWatch
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stderr, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.GracefulShutdown(logger)
	a, err := newApp(ctx, logger, cfg)
	if err != nil {
		cancel()
		cli.Fatal(logger, "Failed to start", err)
	}

	err = run(a, os.Args[2:])
	a.Close()
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("fintrack - personal income and expense tracker")
	fmt.Println("\nUsage:")
	fmt.Println("  fintrack <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add         Record a new transaction")
	fmt.Println("  edit        Change an existing transaction")
	fmt.Println("  delete      Remove a transaction")
	fmt.Println("  list        Show the transactions of a month")
	fmt.Println("  home        Show this month's spending")
	fmt.Println("  overview    Show all-time totals per category")
	fmt.Println("  chart       Write the expense breakdown of a month as PNG")
	fmt.Println("  categories  List categories")
	fmt.Println("  watch       Print the monthly summary whenever transactions change")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'fintrack <command> -h' for more information on a command.")
}

// app holds what every subcommand needs.
type app struct {
	ctx    context.Context
	logger *log.Logger
	cfg    *config.Config

	store    *backend.BackendResult
	notifier *amqp.Client
	caches   *cache.Manager
	svc      *services.TransactionService
}

func newApp(ctx context.Context, logger *log.Logger, cfg *config.Config) (*app, error) {
	a := &app{
		ctx:    ctx,
		logger: logger,
		cfg:    cfg,
	}
	a.store = cli.InitBackend(ctx, logger, cfg)
	a.notifier = cli.InitAMQP(ctx, logger, cfg)

	var decoded *cache.LRUCache[[]core.Transaction]
	a.caches, decoded = cli.InitCache(logger, cfg)

	svc, err := cli.InitService(ctx, logger, a.store.Store, decoded, a.notifier)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.svc = svc
	return a, nil
}

func (a *app) Close() {
	a.caches.Stop()
	if err := a.notifier.Close(); err != nil {
		a.logger.Warn("Failed to close AMQP client", log.FieldError, err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close store", log.FieldError, err)
	}
}

func (a *app) currency() string {
	return a.cfg.Currency
}

func (a *app) dateStyle() core.DateStyle {
	return core.DateStyle(a.cfg.DateStyle)
}

func runAdd(a *app, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	f := bindInputFlags(fs)
	fs.Parse(args)

	in, err := f.input(nil)
	if err != nil {
		return err
	}
	tx, err := a.svc.Add(a.ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s (%s) on %s: %s\n", tx.Name, tx.ID,
		core.FormatDate(tx.Date, a.dateStyle()), core.FormatMoney(tx.Amount, a.currency()))
	return nil
}

func runEdit(a *app, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "ID or unique ID prefix of the transaction")
	f := bindInputFlags(fs)
	fs.Parse(args)

	full, err := a.svc.Resolve(*id)
	if err != nil {
		return fmt.Errorf("%q: %w", *id, err)
	}
	current, err := a.svc.Get(full)
	if err != nil {
		return err
	}

	in, err := f.input(&current)
	if err != nil {
		return err
	}
	tx, err := a.svc.Update(a.ctx, full, in)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s (%s): %s\n", tx.Name, tx.ID, core.FormatMoney(tx.Amount, a.currency()))
	return nil
}

func runDelete(a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "ID or unique ID prefix of the transaction")
	fs.Parse(args)

	full, err := a.svc.Resolve(*id)
	if err != nil {
		return fmt.Errorf("%q: %w", *id, err)
	}
	if err := a.svc.Delete(a.ctx, full); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", full)
	return nil
}

func runList(a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	q := bindQueryFlags(fs)
	fs.Parse(args)

	query, err := q.query(a.dateStyle())
	if err != nil {
		return err
	}
	v := a.svc.Month(time.Now(), query)

	fmt.Printf("%s\n\n", v.Range.StartDate.Format("January 2006"))
	report.WriteTransactions(os.Stdout, v.Sections, a.currency(), query.DateStyle)
	if len(v.Transactions) > 0 {
		report.WriteTotal(os.Stdout, v.Total, a.currency())
	}
	return nil
}

func runHome(a *app, args []string) error {
	fs := flag.NewFlagSet("home", flag.ExitOnError)
	fs.Parse(args)

	report.WriteHome(os.Stdout, a.svc.Home(time.Now()), a.currency())
	return nil
}

func runOverview(a *app, args []string) error {
	fs := flag.NewFlagSet("overview", flag.ExitOnError)
	fs.Parse(args)

	report.WriteOverview(os.Stdout, a.svc.Overview(), a.currency())
	return nil
}

func runChart(a *app, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	q := bindQueryFlags(fs)
	out := fs.String("out", "chart.png", "Output PNG file")
	fs.Parse(args)

	query, err := q.query(a.dateStyle())
	if err != nil {
		return err
	}
	v := a.svc.Month(time.Now(), query)

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	title := v.Range.StartDate.Format("January 2006")
	if err := report.RenderPie(f, title, v.Slices); err != nil {
		os.Remove(*out)
		return err
	}
	a.logger.Info("Chart written", log.FieldOperation, log.OpRender, "path", *out, log.FieldCount, len(v.Slices))
	fmt.Printf("Chart of %s written to %s\n", title, *out)
	return nil
}

func runCategories(a *app, args []string) error {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	used := fs.Bool("used", false, "Only list categories that have transactions")
	fs.Parse(args)

	if *used {
		report.WriteCategories(os.Stdout, a.svc.Categories())
		return nil
	}
	report.WriteCategories(os.Stdout, core.AllCategories())
	return nil
}

func runWatch(a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)

	if a.notifier == nil {
		return errors.New("watch needs a reachable broker, set AMQP_URL")
	}

	ctx := log.WithContext(a.ctx, a.logger.WithComponent(log.ComponentWorker))
	g, ctx := errgroup.WithContext(ctx)

	w := worker.NewReloadWorker(a.svc, func(_ context.Context, msg *amqp.TransactionsChangedMessage) {
		fmt.Printf("\n[%s] %s %s\n", msg.Timestamp.Local().Format(time.DateTime), msg.Operation, msg.ID)
		report.WriteHome(os.Stdout, a.svc.Home(time.Now()), a.currency())
	})
	g.Go(func() error {
		return a.notifier.ConsumeChanged(ctx, w.HandleChanged)
	})

	g.Go(func() error {
		a.caches.StartCleanup(ctx, cacheCleanupInterval)
		<-ctx.Done()
		return nil
	})

	report.WriteHome(os.Stdout, a.svc.Home(time.Now()), a.currency())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
