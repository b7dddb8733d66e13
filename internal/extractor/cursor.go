package extractor

import "github.com/pable/go-hockey-xg/internal/model"

// cursor walks one game's events in source order. It remembers the two
// events before the current one so a delayed-penalty marker (which has no
// usable coordinates) can be stepped over.
type cursor struct {
	events []model.Event
	next   int

	prior  *model.Event // event immediately before the current one
	prior2 *model.Event // event before prior
}

func newCursor(events []model.Event) *cursor {
	return &cursor{events: events}
}

// advance moves to the next event. It returns false when the game is done.
func (c *cursor) advance() (*model.Event, bool) {
	if c.next >= len(c.events) {
		return nil, false
	}
	if c.next > 0 {
		c.prior2 = c.prior
		c.prior = &c.events[c.next-1]
	}
	ev := &c.events[c.next]
	c.next++
	return ev, true
}

// immediate is the event directly before the current one, or nil at the
// start of the game.
func (c *cursor) immediate() *model.Event {
	return c.prior
}

// previous is the event the current one is compared against: the immediate
// predecessor, or the one before it when the predecessor is a DELPEN.
func (c *cursor) previous() *model.Event {
	if c.prior != nil && c.prior.Type == model.EventDelPen {
		return c.prior2
	}
	return c.prior
}
