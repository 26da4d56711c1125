package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/wardenlabs/warden/cli/render"
	"github.com/wardenlabs/warden/ledger"
)

// InspectCommand returns the inspect command with subcommands.
// Inspect returns raw archived records, unaggregated.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect archived audit and history records for a state",
		Subcommands: []*cli.Command{
			inspectAuditCommand(),
			inspectHistoryCommand(),
		},
	}
}

func inspectAuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Show archived audit entries for a state, chronological",
		Flags: append(LedgerFlags(),
			&cli.StringFlag{Name: "state-id", Usage: "State id to inspect", Required: true},
		),
		Action: inspectAuditAction,
	}
}

func inspectAuditAction(c *cli.Context) error {
	store, err := buildStore(c.Context, c)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := ledger.ReadAudit(c.Context, store, c.String("ledger-dataset"), c.String("state-id"))
	if err != nil {
		return err
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(entries)
}

func inspectHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show archived history entries for a state, chronological",
		Flags: append(LedgerFlags(),
			&cli.StringFlag{Name: "state-id", Usage: "State id to inspect", Required: true},
		),
		Action: inspectHistoryAction,
	}
}

func inspectHistoryAction(c *cli.Context) error {
	store, err := buildStore(c.Context, c)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := ledger.ReadHistory(c.Context, store, c.String("ledger-dataset"), c.String("state-id"))
	if err != nil {
		return err
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(entries)
}
