// Package cmd implements the warden CLI commands.
//
// All commands are read-only views over an exported ledger; the CLI
// never executes mutations.
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/wardenlabs/warden/ledger"
)

// DefaultDataset is the default ledger dataset name.
const DefaultDataset = "warden"

// CommonFlags returns the flags shared by all commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "pretty", Usage: "Indent JSON output"},
	}
}

// LedgerFlags returns the flags for ledger-reading commands.
func LedgerFlags() []cli.Flag {
	return append(CommonFlags(),
		&cli.StringFlag{Name: "ledger-dataset", Usage: "Ledger dataset name", Value: DefaultDataset},
		&cli.StringFlag{Name: "ledger-backend", Usage: "Ledger backend: fs or s3", Required: true},
		&cli.StringFlag{Name: "ledger-path", Usage: "Ledger path (fs: directory, s3: bucket/prefix)", Required: true},
		&cli.StringFlag{Name: "ledger-region", Usage: "AWS region for the s3 backend"},
	)
}

// buildStore creates a ledger store from the command's flags.
func buildStore(ctx context.Context, c *cli.Context) (ledger.Store, error) {
	backend := c.String("ledger-backend")
	path := c.String("ledger-path")

	switch backend {
	case "fs":
		return ledger.NewFSStore(path)
	case "s3":
		bucket, prefix := ledger.ParseS3Path(path)
		return ledger.NewS3Store(ctx, ledger.S3Config{
			Bucket: bucket,
			Prefix: prefix,
			Region: c.String("ledger-region"),
		})
	default:
		return nil, fmt.Errorf("unsupported ledger-backend: %s (must be fs or s3)", backend)
	}
}
