// Package chartsync keeps two paired charts scrolled to the same offset.
package chartsync

import "sync"

type Channel int

const (
	Primary Channel = iota
	Secondary
)

func (c Channel) String() string {
	switch c {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Pair holds one offset per channel and notifies subscribers when it changes.
// It is owned by whoever composes the two charts; there is no global instance.
type Pair struct {
	mutex  sync.Mutex
	values [2]float64
	subs   [2]map[int]func(float64)
	nextID int
}

func NewPair() *Pair {
	return &Pair{
		subs: [2]map[int]func(float64){{}, {}},
	}
}

func (p *Pair) Value(ch Channel) float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.values[ch.index()]
}

// Set stores the offset and notifies the channel's subscribers.
// Setting the current value is a no-op, which keeps mirrored channels from looping.
func (p *Pair) Set(ch Channel, value float64) {
	i := ch.index()

	p.mutex.Lock()
	if p.values[i] == value {
		p.mutex.Unlock()
		return
	}
	p.values[i] = value
	listeners := make([]func(float64), 0, len(p.subs[i]))
	for _, fn := range p.subs[i] {
		listeners = append(listeners, fn)
	}
	p.mutex.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// Subscribe registers fn for changes on ch and returns a func that removes it.
func (p *Pair) Subscribe(ch Channel, fn func(float64)) (unsubscribe func()) {
	i := ch.index()

	p.mutex.Lock()
	id := p.nextID
	p.nextID++
	p.subs[i][id] = fn
	p.mutex.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mutex.Lock()
			delete(p.subs[i], id)
			p.mutex.Unlock()
		})
	}
}

// Mirror makes each channel follow the other.
func (p *Pair) Mirror() (unmirror func()) {
	stopPrimary := p.Subscribe(Primary, func(v float64) { p.Set(Secondary, v) })
	stopSecondary := p.Subscribe(Secondary, func(v float64) { p.Set(Primary, v) })
	return func() {
		stopPrimary()
		stopSecondary()
	}
}

func (c Channel) index() int {
	if c == Secondary {
		return 1
	}
	return 0
}
