package feed

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

const maxLineSize = 1 << 20

// ReplayResult counts the lines a replay went through.
type ReplayResult struct {
	Lines     int
	Malformed int
	Rejected  int
}

// Replay reads newline-delimited JSON messages from r and applies them in
// order. Malformed lines and rejected events are counted and skipped; only
// read errors and cancellation stop the replay.
func Replay(ctx context.Context, r io.Reader, a *Applier) (ReplayResult, error) {
	var res ReplayResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		res.Lines++

		ev, err := Decode(line)
		if err != nil {
			res.Malformed++
			a.log.Warn().Err(err).Int("line", res.Lines).Msg("Skipping malformed replay line")
			continue
		}
		if err := a.Apply(ev); err != nil {
			res.Rejected++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("replay: %w", err)
	}
	return res, nil
}
