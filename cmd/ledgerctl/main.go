// Command ledgerctl is the operator tool of the expense tracker: it audits wallet
// aggregates and prints the charts users see, straight from the database.
package main

import (
	"context" // Command context
	"flag"    // Flag parsing
	"io"      // Output sink
	"os"      // Exit status
	"path"    // Program name

	"expense_tracker/internal/config"          // Configuration
	"expense_tracker/internal/db"              // Database setup
	"expense_tracker/internal/store"           // Store contract
	"expense_tracker/internal/store/gormstore" // MySQL backed store

	"github.com/google/subcommands" // Subcommand dispatch
	"github.com/sirupsen/logrus"    // Logging library
)

// env is what every command needs: a store and somewhere to print
type env struct {
	open func() (store.Store, error)
	out  io.Writer
}

func openDatabase() (store.Store, error) {
	cfg := config.LoadConfig()
	conn, err := db.Open(cfg.DSN(), true)
	if err != nil {
		return nil, err
	}
	return gormstore.New(conn), nil
}

func commands(e *env) []subcommands.Command {
	return []subcommands.Command{
		&auditCmd{env: e},
		&statsCmd{env: e},
	}
}

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands(&env{open: openDatabase, out: os.Stdout}) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
