package action

import (
	"fmt"
	"time"
)

var allowedScrollDirections = map[string]bool{"up": true, "down": true}
var allowedScrollTypes = map[string]bool{"once": true, "untilBottom": true, "untilTop": true}

// Scroll scrolls the page. direction is "up"/"down"; scrollType is
// "once"/"untilBottom"/"untilTop"; distance defaults to half the viewport
// height when nil. untilBottom/untilTop repeat until the scroll position
// stops changing (or, for untilTop, reaches zero), clamping the final step
// so it never overshoots the limit.
func (h *Handler) Scroll(direction, scrollType string, distance *int) (Result, error) {
	if !allowedScrollDirections[direction] {
		return fail(fmt.Sprintf("invalid direction %q", direction)), nil
	}
	if !allowedScrollTypes[scrollType] {
		return fail(fmt.Sprintf("invalid scrollType %q", scrollType)), nil
	}

	step, err := h.viewportInnerHeight()
	if err != nil {
		step = 600
	}
	step /= 2
	if distance != nil && *distance >= 0 {
		step = *distance
	}

	perform := func(d int) error {
		delta := d
		if direction == "up" {
			delta = -d
		}
		_, evalErr := h.page.Evaluate(`(d) => { window.scrollBy(0, d); }`, delta)
		return evalErr
	}

	switch scrollType {
	case "once":
		if err := perform(step); err != nil {
			return fail(fmt.Sprintf("scroll error: %v", err)), nil
		}
		return ok("scrolled once"), nil

	case "untilBottom":
		prev := -1
		for {
			current, _ := h.scrollY()
			if current == prev {
				break
			}
			maxScroll, _ := h.maxScrollHeight()
			remaining := maxScroll - current
			thisStep := step
			if remaining >= 0 && thisStep > remaining {
				thisStep = remaining
			}
			if thisStep <= 0 {
				break
			}
			prev = current
			if err := perform(thisStep); err != nil {
				return fail(fmt.Sprintf("scroll error: %v", err)), nil
			}
			time.Sleep(1 * time.Second)
		}
		return ok("scrolled to bottom"), nil

	case "untilTop":
		prev := -1
		for {
			current, _ := h.scrollY()
			if current <= 0 || current == prev {
				break
			}
			thisStep := step
			if current-thisStep <= 0 {
				thisStep = current
			}
			prev = current
			if err := perform(thisStep); err != nil {
				return fail(fmt.Sprintf("scroll error: %v", err)), nil
			}
			time.Sleep(1 * time.Second)
		}
		return ok("scrolled to top"), nil
	}

	return fail("unreachable scrollType"), nil
}

func (h *Handler) scrollY() (int, error) {
	v, err := h.page.Evaluate(`() => window.scrollY`, nil)
	if err != nil {
		return 0, err
	}
	f, _ := v.(float64)
	return int(f), nil
}

func (h *Handler) maxScrollHeight() (int, error) {
	v, err := h.page.Evaluate(`() => document.documentElement.scrollHeight - window.innerHeight`, nil)
	if err != nil {
		return 0, err
	}
	f, _ := v.(float64)
	return int(f), nil
}

func (h *Handler) viewportInnerHeight() (int, error) {
	v, err := h.page.Evaluate(`() => window.innerHeight`, nil)
	if err != nil {
		return 0, err
	}
	f, _ := v.(float64)
	return int(f), nil
}
