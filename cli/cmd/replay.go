package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/wardenlabs/warden/cli/render"
	"github.com/wardenlabs/warden/history"
	"github.com/wardenlabs/warden/types"
)

// ReplayCommand returns the replay command.
// Replay folds archived change-sets over an initial JSON state and
// prints the reconstructed state.
func ReplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "Reconstruct a state from its archived history",
		Flags: append(LedgerFlags(),
			&cli.StringFlag{Name: "state-id", Usage: "State id to replay", Required: true},
			&cli.StringFlag{Name: "initial", Usage: "Path to the initial state JSON file"},
			&cli.StringFlag{Name: "until", Usage: "Replay only entries up to this RFC 3339 timestamp"},
		),
		Action: replayAction,
	}
}

func replayAction(c *cli.Context) error {
	h, err := loadArchivedHistory(c)
	if err != nil {
		return err
	}

	initial := map[string]any{}
	if path := c.String("initial"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read initial state: %w", err)
		}
		if err := json.Unmarshal(data, &initial); err != nil {
			return fmt.Errorf("parse initial state: %w", err)
		}
	}

	var final map[string]any
	if untilStr := c.String("until"); untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return fmt.Errorf("invalid --until timestamp: %w", err)
		}
		final = history.ReplayUntil(h, initial, until, ApplyChanges)
	} else {
		final = history.Replay(h, initial, ApplyChanges)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(final)
}

// ApplyChanges folds recorded changes into a generic JSON-shaped state.
// Additions and modifications set the path to the recorded After
// value; removals delete the path. The input map is not mutated.
func ApplyChanges(state map[string]any, changes []types.StateChange) map[string]any {
	out := deepCopy(state)
	for _, change := range changes {
		switch change.Kind {
		case types.ChangeRemoved:
			deletePath(out, change.Path)
		default:
			setPath(out, change.Path, change.After)
		}
	}
	return out
}

// deepCopy clones a JSON-shaped map.
func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// setPath sets a dotted path, creating intermediate maps as needed.
func setPath(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			m[part] = value
			return
		}
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
}

// deletePath removes a dotted path. Missing segments are a no-op.
func deletePath(m map[string]any, path string) {
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			delete(m, part)
			return
		}
		next, ok := m[part].(map[string]any)
		if !ok {
			return
		}
		m = next
	}
}
