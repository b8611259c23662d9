package browser

import (
	"context"
	"math/rand"
	"time"
)

// RandomDelay waits for a random duration between min and max milliseconds,
// returning early if ctx is done.
func RandomDelay(ctx context.Context, min, max int) error {
	d := time.Duration(min) * time.Millisecond
	if max > min {
		d = time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	}
	return Sleep(ctx, d)
}

// Sleep pauses for d unless ctx is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MouseJiggle simulates random mouse movements to prevent idle detection
func MouseJiggle(ctx context.Context, page Page) error {
	for i := 0; i < 3; i++ {
		x := float64(rand.Intn(800) + 100)
		y := float64(rand.Intn(500) + 100)
		if err := page.MoveMouse(x, y); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 100, 300); err != nil {
			return err
		}
	}
	return nil
}

// SmoothScroll simulates human scrolling and ends at the bottom of the page
// to trigger lazy-loaded cards.
func SmoothScroll(ctx context.Context, page Page) error {
	if err := page.Wheel(0, 500); err != nil {
		return err
	}
	if err := RandomDelay(ctx, 500, 1000); err != nil {
		return err
	}

	//human-like correction
	if err := page.Wheel(0, -200); err != nil {
		return err
	}
	if err := RandomDelay(ctx, 500, 800); err != nil {
		return err
	}

	_, err := page.Evaluate("() => window.scrollTo(0, document.body.scrollHeight)", nil)
	return err
}

// Humanize runs the warm-up routine used before reading a results page.
func Humanize(ctx context.Context, page Page) error {
	if err := RandomDelay(ctx, 1000, 2000); err != nil {
		return err
	}
	if err := MouseJiggle(ctx, page); err != nil {
		return err
	}
	if err := SmoothScroll(ctx, page); err != nil {
		return err
	}
	return RandomDelay(ctx, 500, 1000)
}
