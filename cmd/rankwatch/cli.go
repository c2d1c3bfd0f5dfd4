package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/ops"
	"github.com/hpungsan/rankwatch/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "rankwatch",
		Usage:   "Keyword ranking monitor client",
		Version: Version,
		Commands: []*cli.Command{
			loginCmd(env),
			registerCmd(env),
			logoutCmd(env),
			statusCmd(env),
			listCmd(env),
			showCmd(env),
			addCmd(env),
			crawlCmd(env),
			exportCmd(env),
			serveCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loginCmd creates the login command.
func loginCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authenticate with the monitoring backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Usage: "Account email"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Usage: "Account password"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Login(c.Context, env, ops.LoginInput{
				Email:    c.String("email"),
				Password: c.String("password"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// registerCmd creates the register command.
func registerCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create a new account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Usage: "Account email"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Usage: "Account password"},
			&cli.StringFlag{Name: "confirm", Usage: "Password confirmation (defaults to --password)"},
		},
		Action: func(c *cli.Context) error {
			confirm := c.String("password")
			if c.IsSet("confirm") {
				confirm = c.String("confirm")
			}
			output, err := ops.Register(c.Context, env, ops.RegisterInput{
				Email:           c.String("email"),
				Password:        c.String("password"),
				ConfirmPassword: confirm,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// logoutCmd creates the logout command.
func logoutCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Discard the stored credential and return to guest mode",
		Action: func(c *cli.Context) error {
			output, err := ops.Logout(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the current session",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Status(env))
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List monitored keywords",
		Action: func(c *cli.Context) error {
			output, err := ops.ListKeywords(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one keyword with recent crawl runs",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.KeywordDetail(c.Context, env, ops.KeywordDetailInput{
				ID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// addCmd creates the add command.
func addCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Register a new keyword to monitor",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Category label"},
			&cli.StringFlag{Name: "names", Usage: "Comma-separated business names to match"},
			&cli.StringFlag{Name: "domains", Usage: "Comma-separated domains to match"},
			&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.CreateKeyword(c.Context, env, ops.CreateKeywordInput{
				Query:         c.Args().First(),
				Category:      c.String("category"),
				TargetNames:   c.String("names"),
				TargetDomains: c.String("domains"),
				Notes:         c.String("notes"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// crawlCmd creates the crawl command.
func crawlCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "crawl",
		Usage:     "Trigger an immediate crawl for a keyword",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.TriggerCrawl(c.Context, env, ops.TriggerCrawlInput{
				ID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Download the keyword CSV export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Directory to write the CSV into"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, env, ops.ExportInput{
				Dir: c.String("dir"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the dashboard web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind to"},
			&cli.IntFlag{Name: "port", Value: 8077, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(env, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rwErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rwErr.Code, rwErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
