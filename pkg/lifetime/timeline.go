package lifetime

import (
	"math/big"
	"slices"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/layout"
)

// Record is one ingested comment. Width and Height come from the font
// metrics collaborator and are only required for comments that are laid
// out.
type Record struct {
	ID     string
	VPos   *big.Rat // seconds from the start of the video
	Owner  bool     // posted by the uploader; text may be a command
	Mode   layout.Mode
	Text   string
	Width  *big.Rat
	Height *big.Rat
}

// Config holds the display durations.
type Config struct {
	ScrollDuration *big.Rat // lifetime of a scrolling comment
	FixedDuration  *big.Rat // lifetime of a top or bottom comment
	OwnerExpiry    *big.Rat // lifetime of plain owner text
}

// DefaultConfig returns 5 s for scrolling comments, 3 s for fixed ones and
// 15 s for owner text.
func DefaultConfig() Config {
	return Config{
		ScrollDuration: big.NewRat(5, 1),
		FixedDuration:  big.NewRat(3, 1),
		OwnerExpiry:    big.NewRat(15, 1),
	}
}

// Event is a record with its resolved lifetime.
type Event struct {
	Record
	Command Command
	// Caption is the displayed text: the record text for viewer comments,
	// the argument text for /perm, the question for /vote start.
	Caption string
	Start   *big.Rat
	End     *big.Rat

	VoteMode   VoteMode
	Answers    []string
	ResultMode string
	Results    []int
	// VoteEnd is when the poll panel of a start or showresult vote goes
	// away. It is nil for other events.
	VoteEnd *big.Rat

	// expiry is the requested display time; zero means until the end of
	// the timeline.
	expiry *big.Rat
}

// Visible reports whether the event has a non-empty on-screen lifetime.
func (e *Event) Visible() bool { return e.Start.Cmp(e.End) < 0 }

// HasPanel reports whether the event shows a poll panel.
func (e *Event) HasPanel() bool {
	return e.Command == Vote && e.VoteMode != VoteStop && e.VoteEnd != nil && e.Start.Cmp(e.VoteEnd) < 0
}

// Timeline is the result of [Resolve].
type Timeline struct {
	// Events in start order, ties in input order.
	Events []*Event
	// Skipped lists the IDs of owner records whose command has no
	// on-screen lifetime.
	Skipped []string
	// End is the latest end over all events before owner comments were
	// extended to it.
	End *big.Rat
}

// Comments returns the viewer comments as layout input, in timeline order.
func (t *Timeline) Comments() []*layout.Comment {
	var out []*layout.Comment
	for _, e := range t.Events {
		if e.Command != None {
			continue
		}
		out = append(out, &layout.Comment{
			ID: e.ID, Start: e.Start, End: e.End, Mode: e.Mode, Width: e.Width, Height: e.Height,
		})
	}
	return out
}

// Banners returns the owner events shown as banner text.
func (t *Timeline) Banners() []*Event {
	var out []*Event
	for _, e := range t.Events {
		if (e.Command == Perm || e.Command == Vote && e.Caption != "") && e.Visible() {
			out = append(out, e)
		}
	}
	return out
}

// Panels returns the vote events that show a poll panel.
func (t *Timeline) Panels() []*Event {
	var out []*Event
	for _, e := range t.Events {
		if e.HasPanel() {
			out = append(out, e)
		}
	}
	return out
}

// Resolve turns records into events with final lifetimes.
//
// Viewer comments last the scroll or fixed duration. Owner text lasts the
// owner expiry; /perm and /vote last until the end of the timeline. In
// start order, each new owner banner ends the previous one, /clear ends it
// without replacing it, and a vote ends the previous vote's panel. /vote
// stop also ends the current owner banner.
func Resolve(records []Record, cfg Config) (*Timeline, error) {
	tl := &Timeline{}
	for _, rec := range records {
		if rec.VPos == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "record %q has no vpos", rec.ID)
		}
		ev, err := newEvent(rec, cfg)
		if errors.Is(err, errors.ErrCodeUnsupported) {
			tl.Skipped = append(tl.Skipped, rec.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		tl.Events = append(tl.Events, ev)
	}
	slices.SortStableFunc(tl.Events, func(a, b *Event) int { return a.Start.Cmp(b.Start) })
	if len(tl.Events) == 0 {
		tl.End = new(big.Rat)
		return tl, nil
	}

	tl.End = new(big.Rat).Set(slices.MaxFunc(tl.Events, func(a, b *Event) int { return a.End.Cmp(b.End) }).End)

	var last, lastVote *Event
	for _, ev := range tl.Events {
		if ev.Command == Vote {
			if ev.VoteMode == VoteShowResult && lastVote != nil {
				ev.Answers = lastVote.Answers
			}
			if lastVote != nil {
				lastVote.VoteEnd = minRat(lastVote.VoteEnd, ev.Start)
			}
			if ev.VoteMode == VoteStop {
				if last != nil {
					last.End = minRat(last.End, ev.Start)
					last = nil
				}
				lastVote = nil
			} else {
				ev.VoteEnd = new(big.Rat).Set(tl.End)
				lastVote = ev
			}
			if ev.Caption == "" {
				continue
			}
		}
		switch ev.Command {
		case Perm, Vote:
			if last != nil {
				last.End = minRat(last.End, ev.Start)
			}
			if ev.expiry.Sign() == 0 {
				ev.End = new(big.Rat).Set(tl.End)
			}
			last = ev
		case Clear:
			if last != nil {
				last.End = minRat(last.End, ev.Start)
				last = nil
			}
		}
	}
	return tl, nil
}

func newEvent(rec Record, cfg Config) (*Event, error) {
	start := new(big.Rat).Set(rec.VPos)
	ev := &Event{Record: rec, Start: start, Caption: rec.Text}

	if !rec.Owner {
		d := cfg.ScrollDuration
		if rec.Mode.Fixed() {
			d = cfg.FixedDuration
		}
		ev.End = new(big.Rat).Add(start, d)
		return ev, nil
	}

	cmd, slash, err := parseOwner(rec.Text)
	if err != nil {
		return nil, err
	}
	ev.Command = cmd.command
	ev.Caption = cmd.text
	ev.VoteMode = cmd.voteMode
	ev.Answers = cmd.answers
	ev.ResultMode = cmd.resultMode
	ev.Results = cmd.results

	switch {
	case cmd.command == Clear:
		ev.expiry = new(big.Rat)
		ev.End = new(big.Rat).Set(start)
		return ev, nil
	case slash:
		ev.expiry = new(big.Rat)
	default:
		ev.expiry = new(big.Rat).Set(cfg.OwnerExpiry)
	}
	ev.End = new(big.Rat).Add(start, ev.expiry)
	return ev, nil
}

func minRat(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return a
	}
	return new(big.Rat).Set(b)
}
