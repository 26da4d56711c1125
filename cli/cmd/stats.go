package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/wardenlabs/warden/cli/render"
	"github.com/wardenlabs/warden/history"
	"github.com/wardenlabs/warden/ledger"
)

// StatsCommand returns the stats command with subcommands.
// Stats returns aggregated, derived facts over archived records.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show aggregated statistics over archived records",
		Subcommands: []*cli.Command{
			statsHistoryCommand(),
			statsTimelineCommand(),
		},
	}
}

func statsHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Summarize a state's committed mutation history",
		Flags: append(LedgerFlags(),
			&cli.StringFlag{Name: "state-id", Usage: "State id to summarize", Required: true},
		),
		Action: statsHistoryAction,
	}
}

func statsHistoryAction(c *cli.Context) error {
	h, err := loadArchivedHistory(c)
	if err != nil {
		return err
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(h.Statistics())
}

func statsTimelineCommand() *cli.Command {
	return &cli.Command{
		Name:  "timeline",
		Usage: "Show the chronological changes at or under a path",
		Flags: append(LedgerFlags(),
			&cli.StringFlag{Name: "state-id", Usage: "State id to inspect", Required: true},
			&cli.StringFlag{Name: "path", Usage: "Dotted state path (e.g. flags.NewCheckout)", Required: true},
		),
		Action: statsTimelineAction,
	}
}

func statsTimelineAction(c *cli.Context) error {
	h, err := loadArchivedHistory(c)
	if err != nil {
		return err
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(h.TimelineForPath(c.String("path")))
}

// loadArchivedHistory materializes a History view from archived records.
func loadArchivedHistory(c *cli.Context) (history.History, error) {
	store, err := buildStore(c.Context, c)
	if err != nil {
		return history.History{}, err
	}
	defer func() { _ = store.Close() }()

	stateID := c.String("state-id")
	entries, err := ledger.ReadHistory(c.Context, store, c.String("ledger-dataset"), stateID)
	if err != nil {
		return history.History{}, err
	}
	return history.History{StateID: stateID, Entries: entries}, nil
}
