package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	applog "github.com/vburojevic/registrar/internal/log"
	"github.com/vburojevic/registrar/internal/query"
)

// Run executes the CLI and returns a process exit code.
func Run() int {
	base, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	rootCmd := newRootCmd(base, stdioIsTerminal)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// cli carries the resolved configuration from the root command to its
// subcommands.
type cli struct {
	base  Config
	cfg   Config
	flags rootFlags
	isTTY func() bool
}

func newRootCmd(base Config, isTTY func() bool) *cobra.Command {
	c := &cli{base: base, cfg: base, isTTY: isTTY}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Browse and manage organizations, members, students and more",
		Long: "registrar is a back-office console for a multi-tenant school registry. " +
			"It talks to the registrar REST API or, without --api-url, to a local data directory.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgFromFlags(c.base, c.flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior:
			// - If stdin and stdout are a TTY => TUI
			// - Else => first page of organizations
			if c.isTTY() {
				return c.runTUI("")
			}
			return c.runList(cmd, "organizations", listRequest{PageSize: c.cfg.PageSize}, false)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.flags.apiURL, "api-url", base.APIURL, "Registrar API base URL (empty: use the local data directory)")
	pf.StringVar(&c.flags.tenant, "tenant", base.Tenant, "Tenant to operate on")
	pf.StringVar(&c.flags.dataDir, "data", base.DataDir, "Local data directory")
	pf.IntVar(&c.flags.pageSize, "page-size", base.PageSize, "Rows per page")
	pf.StringVar(&c.flags.logFile, "log-file", base.LogFile, "Write logs to this file (.json for JSON lines)")
	pf.StringVar(&c.flags.logLevel, "log-level", base.LogLevel, "Log level: debug|info|warn|error|silent")
	pf.StringVar(&c.flags.theme, "theme", base.Theme, "TUI theme: mocha|macchiato|frappe|latte|plain")
	pf.BoolVar(&c.flags.noColor, "no-color", false, "Disable color output (TUI + table)")

	rootCmd.AddCommand(c.newTUICmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newDeleteCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newSeedCmd())
	rootCmd.AddCommand(newConfigCmd(func() Config { return c.cfg }))
	rootCmd.SetHelpCommand(newHelpCmd(rootCmd))
	return rootCmd
}

// logger builds the logger for a non-TUI command: the log file when one is
// configured, otherwise stderr.
func (c *cli) logger(errOut io.Writer) (*logrus.Logger, func() error, error) {
	return applog.New(applog.Options{File: c.cfg.LogFile, Level: c.cfg.LogLevel, Output: errOut})
}

func (c *cli) open(cmd *cobra.Command) (*backend, func() error, error) {
	logger, closeLog, err := c.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	b, err := openBackend(c.cfg, logger.WithField("tenant", c.cfg.Tenant))
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}
	return b, closeLog, nil
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

// -------------------------
// tui
// -------------------------

func (c *cli) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [entity]",
		Short: "Open the interactive console, optionally on one entity tab",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := ""
			if len(args) == 1 {
				b, err := lookupBinding(args[0])
				if err != nil {
					return err
				}
				start = b.Name()
			}
			return c.runTUI(start)
		},
	}
}

// -------------------------
// list
// -------------------------

func (c *cli) newListCmd() *cobra.Command {
	var (
		req    listRequest
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "Print one page of an entity list",
		Example: "  registrar list orgs --filter status=active --sort name:desc\n" +
			"  registrar list notifications --filter audience=students --search exam --json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PageSize = c.cfg.PageSize
			return c.runList(cmd, args[0], req, asJSON)
		},
	}
	cmd.Flags().StringVar(&req.Search, "search", "", "Search term")
	cmd.Flags().StringVar(&req.Sort, "sort", "", "Sort column, e.g. name or name:desc")
	cmd.Flags().StringArrayVar(&req.Filters, "filter", nil, "Filter as key=value (repeatable, comma separated values)")
	cmd.Flags().IntVar(&req.Page, "page", 1, "Page number (1-based)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON instead of a table")
	return cmd
}

func (c *cli) runList(cmd *cobra.Command, entity string, req listRequest, asJSON bool) error {
	bnd, err := lookupBinding(entity)
	if err != nil {
		return err
	}
	if req.Page < 1 || req.Page > query.MaxPageNumber {
		return fmt.Errorf("invalid --page %d (want 1..%d)", req.Page, query.MaxPageNumber)
	}
	if req.PageSize == 0 {
		req.PageSize = c.cfg.PageSize
	}
	b, closeLog, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := c.context(cmd)
	defer cancel()
	t, err := bnd.List(ctx, b, req)
	if err != nil {
		return err
	}
	return renderList(cmd.OutOrStdout(), bnd.Name(), t, asJSON, c.cfg.NoColor)
}

// -------------------------
// show
// -------------------------

func (c *cli) newShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <entity> <id>",
		Short: "Show details for a single record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bnd, err := lookupBinding(args[0])
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[1])
			if id == "" {
				return fmt.Errorf("missing %s id", bnd.Singular())
			}
			b, closeLog, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := c.context(cmd)
			defer cancel()
			fields, item, err := bnd.Show(ctx, b, id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), item)
			}
			renderFields(cmd.OutOrStdout(), fields, c.cfg.NoColor)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

// -------------------------
// delete
// -------------------------

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>...",
		Short: "Delete one or more records",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bnd, err := lookupBinding(args[0])
			if err != nil {
				return err
			}
			b, closeLog, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := c.context(cmd)
			defer cancel()
			var errs []error
			for _, id := range args[1:] {
				if err := bnd.Delete(ctx, b, strings.TrimSpace(id)); err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", bnd.Singular(), id)
			}
			return errors.Join(errs...)
		},
	}
}
