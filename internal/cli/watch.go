package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mcoot/kafanski-duel/internal/api/response"
)

// Settled reports whether polling can stop: the caller has to move or the
// duel will never change again
func Settled(d response.Duel) bool {
	switch d.Status {
	case "finished", "declined", "expired":
		return true
	}
	return d.YourTurn
}

// Watch polls a duel every interval until it settles or ctx is done.
// onChange is called with the first state and every state that differs
// from the previous one by update time.
func Watch(ctx context.Context, c *Client, id string, interval time.Duration, onChange func(response.Duel)) (response.Duel, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last response.Duel
	seen := false
	for {
		var d response.Duel
		if err := c.Get(ctx, fmt.Sprintf("/api/v1/duels/%s", id), &d); err != nil {
			return last, err
		}
		if !seen || !d.UpdatedAt.Equal(last.UpdatedAt) || d.Status != last.Status {
			if onChange != nil {
				onChange(d)
			}
		}
		last, seen = d, true

		if Settled(d) {
			return d, nil
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}
