package runner

import (
	"github.com/webqa-agent/webqa-engine/pkg/action"
	"github.com/webqa-agent/webqa-engine/pkg/browser"
)

const maxScrollShots = 5

// scrolledScreenshots captures one screenshot, then scrolls down once per
// step capturing one per step, for up to maxScrollShots screenshots in all.
// It stops early only when a scroll or a capture fails; it does not check
// whether the bottom of the page has been reached.
func scrolledScreenshots(session *browser.Session) ([]string, error) {
	handler := action.NewHandler(session.Page())

	shot, err := handler.B64Screenshot()
	if err != nil {
		return nil, err
	}
	shots := []string{shot}

	for i := 0; i < maxScrollShots-1; i++ {
		if _, err := handler.Scroll("down", "once", nil); err != nil {
			break
		}
		shot, err := handler.B64Screenshot()
		if err != nil {
			break
		}
		shots = append(shots, shot)
	}
	return shots, nil
}
