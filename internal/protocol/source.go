package protocol

import "iter"

// Source is a single-pass forward cursor over items. Next returns ok=false
// with a nil error at end of stream.
type Source interface {
	Next() (item Item, ok bool, err error)
}

// SliceSource reads items from memory.
type SliceSource struct {
	items []Item
	pos   int
}

func NewSliceSource(items []Item) *SliceSource {
	return &SliceSource{items: items}
}

func (s *SliceSource) Next() (Item, bool, error) {
	if s.pos >= len(s.items) {
		return Item{}, false, nil
	}
	it := s.items[s.pos]
	s.pos++
	return it, true, nil
}

// Remaining is the number of unread items.
func (s *SliceSource) Remaining() int {
	return len(s.items) - s.pos
}

// PullSource adapts a push-style item sequence such as Encode.
type PullSource struct {
	next func() (Item, error, bool)
	stop func()
}

// Pull wraps seq. Call Stop when abandoning the source early.
func Pull(seq iter.Seq2[Item, error]) *PullSource {
	next, stop := iter.Pull2(seq)
	return &PullSource{next: next, stop: stop}
}

func (p *PullSource) Next() (Item, bool, error) {
	it, err, ok := p.next()
	if !ok {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}
	return it, true, nil
}

func (p *PullSource) Stop() {
	p.stop()
}
