package main

import (
	"context"
	"fmt"
	"os"

	"db_forms/internal/config"
	"db_forms/internal/connectors"
	"db_forms/internal/domain"
	"db_forms/internal/logger"
	"db_forms/internal/schema"
	"db_forms/internal/services/forms"
	"db_forms/internal/shell"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var program = "db_forms"

func main() {
	if err := run(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, program+": error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app одно соединение и сервис на все время работы программы
type app struct {
	cfg   *config.Config
	l     *logger.Log
	store connectors.Store
	svc   *forms.Service
}

func open(configFile string) (*app, error) {
	cfg, err := config.GetConfig(configFile)
	if err != nil {
		return nil, err
	}
	l, err := logger.NewLogger(cfg.Logger.Target, cfg.Logger.Level, cfg.Logger.Filename)
	if err != nil {
		return nil, err
	}

	store, err := connectors.New(cfg.Store)
	if err != nil {
		l.Close()
		return nil, err
	}
	if err := store.Connect(); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to connect to %s store: %w", cfg.Store.Driver, err)
	}
	l.Infof("%s store connection successful", cfg.Store.Driver)

	svc := forms.NewService(store, l, forms.WithStrictFields(cfg.Forms.StrictFields))
	return &app{cfg: cfg, l: l, store: store, svc: svc}, nil
}

func (a *app) close() {
	if a.store.Pending() {
		a.l.Warn("closing with uncommitted changes, they are discarded")
	}
	if err := a.store.Disconnect(); err != nil {
		a.l.Errorf("disconnect failed: %v", err)
	}
	a.l.Close()
}

func setupColor() {
	color.NoColor = os.Getenv("TERM") == "dumb" ||
		(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func run() error {
	var configFile string
	var commit bool

	withApp := func(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			setupColor()
			a, err := open(configFile)
			if err != nil {
				return err
			}
			defer a.close()
			return fn(cmd.Context(), a, args)
		}
	}

	var cmdShell = &cobra.Command{
		Use:   "shell",
		Short: "Interactive session: get, insert, edit, delete, save",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return shell.New(a.svc, os.Stdin, os.Stdout, interactive()).Run(ctx)
		}),
	}

	var cmdTables = &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range schema.DisplayNames() {
				fmt.Println(name)
			}
			return nil
		},
	}

	var cmdFields = &cobra.Command{
		Use:   "fields <table>",
		Short: "List the form fields of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := schema.Resolve(args[0])
			if err != nil {
				return err
			}
			for _, f := range fields {
				fmt.Printf("%-14s %-8s %s\n", f.Column, f.Kind, f.Label)
			}
			return nil
		},
	}

	var cmdGet = &cobra.Command{
		Use:   "get <table>",
		Short: "Show the contents of a table",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			display, err := a.svc.Refresh(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(shell.RenderTable(display))
			return nil
		}),
	}

	mutate := func(action domain.Action) func(ctx context.Context, a *app, args []string) error {
		return func(ctx context.Context, a *app, args []string) error {
			var rowID string
			var values domain.RowValues
			table, rest := args[0], args[1:]
			if action != domain.Insert {
				rowID, rest = rest[0], rest[1:]
			}
			if action != domain.Delete {
				values = domain.RowValues(rest)
			}
			out := a.svc.Submit(ctx, table, action, values, rowID)
			if !out.OK {
				return fmt.Errorf("%s: %s", out.Title, out.Message)
			}
			fmt.Println(out.Message)
			if out.Display != nil {
				fmt.Println(shell.RenderTable(out.Display))
			}
			if !commit {
				color.New(color.FgMagenta, color.Bold).Print("warning: ")
				fmt.Println("changes not committed; pass --commit to save them")
				return nil
			}
			if c := a.svc.Commit(); !c.OK {
				return fmt.Errorf("%s: %s", c.Title, c.Message)
			}
			fmt.Println("Changes saved to the database.")
			return nil
		}
	}

	var cmdInsert = &cobra.Command{
		Use:   "insert <table> <value>...",
		Short: "Insert a row, one value per column",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withApp(mutate(domain.Insert)),
	}
	var cmdUpdate = &cobra.Command{
		Use:     "update <table> <id> <value>...",
		Aliases: []string{"edit"},
		Short:   "Replace every column of the row with this id",
		Args:    cobra.MinimumNArgs(2),
		RunE:    withApp(mutate(domain.Update)),
	}
	var cmdDelete = &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete the row with this id",
		Args:  cobra.ExactArgs(2),
		RunE:  withApp(mutate(domain.Delete)),
	}
	for _, c := range []*cobra.Command{cmdInsert, cmdUpdate, cmdDelete} {
		c.Flags().BoolVar(&commit, "commit", false, "commit the change to the database")
	}

	var rootCmd = &cobra.Command{
		Use:           program,
		Short:         "Browse and edit the bookstore database",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          cmdShell.RunE,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "configuration file")
	rootCmd.AddCommand(cmdShell, cmdTables, cmdFields, cmdGet, cmdInsert, cmdUpdate, cmdDelete)

	return rootCmd.ExecuteContext(context.Background())
}
