package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"bookshop/internal/config"
	"bookshop/internal/console"
	"bookshop/internal/http/handlers"
	applog "bookshop/internal/log"
	"bookshop/internal/repos"
	"bookshop/internal/services"
)

const usage = `usage: bookshop [-driver sqlite|pgx] [-dsn DSN] <command> [args...]

commands:
  list                      show the catalog operations
  seed                      load the demo catalog into an empty store
  serve                     start the HTTP report server
  <operation> [args...]     run an operation by name or number;
                            a missing parameter is read from stdin
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		applog.Error(nil, "cli.fail", err, nil)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(argv []string, stdin io.Reader, stdout io.Writer) error {
	cfg := config.Load()

	fset := flag.NewFlagSet("bookshop", flag.ContinueOnError)
	fset.SetOutput(os.Stderr)
	fset.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fset.StringVar(&cfg.DBDriver, "driver", cfg.DBDriver, "store driver: sqlite or pgx")
	fset.StringVar(&cfg.DBDSN, "dsn", cfg.DBDSN, "sqlite file or postgres URL")
	if err := fset.Parse(argv); err != nil {
		return err
	}
	args := fset.Args()
	if len(args) == 0 {
		fset.Usage()
		return errors.New("no command given")
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	}

	if args[0] == "list" {
		return list(stdout)
	}

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	switch args[0] {
	case "seed":
		seeded, err := repos.SeedIfEmpty(db)
		if err != nil {
			return err
		}
		applog.Info(nil, "catalog.seed", map[string]any{"inserted": seeded})
		return nil
	case "serve":
		app := handlers.NewApp(handlers.NewDeps(db, cfg), cfg)
		return app.Listen(":" + cfg.Port)
	}

	op, err := services.Lookup(args[0])
	if err != nil {
		return err
	}
	con := console.New(stdin, stdout).WithPrompts(os.Stderr)
	catalog := services.NewCatalogService(repos.NewBookRepo(db), repos.NewAuthorRepo(db), repos.NewCategoryRepo(db))
	out, err := services.NewRunner(catalog, cfg.Mutations, con).Run(op, args[1:])
	if err != nil {
		return err
	}
	return con.WriteLine(out)
}

func list(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, op := range services.Operations {
		param := op.Param
		if len(op.Optional) > 0 {
			param = fmt.Sprint(op.Optional)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", op.Number, op.Name, op.Title, param)
	}
	return tw.Flush()
}
