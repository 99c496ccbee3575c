package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ericbqEtos/artefakt-extension/internal/config"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/ops"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
	"github.com/ericbqEtos/artefakt-extension/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "artefakt",
		Usage:   "Local source capture and citation store",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(db, cfg),
			citeCmd(db, cfg),
			fetchCmd(db),
			updateCmd(db),
			deleteCmd(db),
			listCmd(db),
			trailCmd(db),
			purgeCmd(db),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// captureCmd creates the capture command.
func captureCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Capture a source (optionally reads page HTML from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Required: true, Usage: "Page URL"},
			&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: "Research session ID"},
			&cli.StringFlag{Name: "predecessor", Usage: "ID of the source this capture was derived from"},
			&cli.StringFlag{Name: "selection", Usage: "Selected text at capture time"},
			&cli.StringFlag{Name: "tab-title", Usage: "Browser tab title"},
			&cli.StringFlag{Name: "method", Value: "manual", Usage: "Capture method: manual|automatic|recorded"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "notes", Usage: "Initial notes (markdown)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CaptureInput{
				URL:       c.String("url"),
				SessionID: c.String("session"),
				Selection: c.String("selection"),
				TabTitle:  c.String("tab-title"),
				Method:    captureMethod(c.String("method")),
			}

			// Page HTML arrives via stdin when piped
			if stdinHasData() {
				html, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.HTML = html
			}

			if pred := c.String("predecessor"); pred != "" {
				input.PredecessorID = &pred
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}
			if notes := c.String("notes"); notes != "" {
				input.Notes = &notes
			}

			output, err := ops.Capture(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// citeCmd creates the cite command.
func citeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "cite",
		Usage:     "Generate citations for sources by ID or session",
		ArgsUsage: "[id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: "Cite every source in a session"},
			&cli.StringFlag{Name: "style", Usage: "Citation style: apa|mla|chicago|ieee|harvard"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CiteInput{
				SessionID: c.String("session"),
				Style:     c.String("style"),
			}
			if c.NArg() > 0 {
				input.IDs = c.Args().Slice()
			}

			engine := ops.NewEngine(db, cfg)
			output, err := ops.Cite(c.Context, db, engine, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a source by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted sources"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.Fetch(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a source's notes, excerpt, tags, or groups",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "notes", Usage: "New notes (markdown)"},
			&cli.StringFlag{Name: "excerpt", Usage: "New excerpt"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags (empty clears)"},
			&cli.StringFlag{Name: "groups", Usage: "New comma-separated group IDs (empty clears)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{
				ID: c.Args().First(),
			}

			if c.IsSet("notes") {
				notes := c.String("notes")
				input.Notes = &notes
			}
			if c.IsSet("excerpt") {
				excerpt := c.String("excerpt")
				input.Excerpt = &excerpt
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				input.Tags = &tags
			}
			if c.IsSet("groups") {
				groups := parseTags(c.String("groups"))
				input.GroupIDs = &groups
			}

			output, err := ops.Update(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a source",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{
				ID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List captured sources",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted sources"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.List(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// trailCmd creates the trail command.
func trailCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "trail",
		Usage:     "Show a session's capture trail in chronological order",
		ArgsUsage: "<session-id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Trail(c.Context, db, ops.TrailInput{
				SessionID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted sources",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 30d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8417, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
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
	if aErr, ok := err.(*errors.ArtefaktError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseDuration parses "30d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 30d")
}

// captureMethod maps a CLI method flag to the source capture method.
func captureMethod(s string) source.CaptureMethod {
	switch s {
	case "automatic":
		return source.CaptureAutomatic
	case "recorded":
		return source.CaptureRecorded
	default:
		return source.CaptureManual
	}
}
