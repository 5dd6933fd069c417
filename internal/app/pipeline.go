package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/debounce"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
)

// Result is the outcome of one recognition cycle.
type Result struct {
	// EventID is set only for accepted gestures.
	EventID  string            `json:"event_id,omitempty"`
	Time     time.Time         `json:"time"`
	HandSeen bool              `json:"hand_seen"`
	Gesture  gesture.Gesture   `json:"gesture"`
	Fingers  int               `json:"fingers"`
	Decision debounce.Decision `json:"-"`
	Binding  action.Binding    `json:"binding"`
}

// Accepted reports whether the cycle dispatched a key press.
func (r Result) Accepted() bool { return r.Decision == debounce.Accepted }

// Listener is notified of every accepted Result.
type Listener func(Result)

// listenerBuffer is how many accepted results may queue for a slow listener
// before further results are dropped for it.
const listenerBuffer = 16

type subscriber struct {
	fn     Listener
	events chan Result
}

// Stats summarizes pipeline activity.
type Stats struct {
	Cycles   int     `json:"cycles"`
	Accepted int     `json:"accepted"`
	Last     *Result `json:"last,omitempty"`
}

// Pipeline runs extract, classify, debounce and dispatch over one hand per cycle.
// Process must be called from a single goroutine; Stats and listeners are safe
// to use from others. Listeners run on their own goroutines and never delay Process.
type Pipeline struct {
	classifier gesture.Classifier
	gate       debounce.Gate
	dispatcher *action.Dispatcher

	state debounce.State

	mu          sync.RWMutex
	subscribers []subscriber
	closed      bool
	stats       Stats
	wg          sync.WaitGroup
}

// NewPipeline wires a classifier, a gate and a dispatcher together.
func NewPipeline(c gesture.Classifier, gate debounce.Gate, d *action.Dispatcher) *Pipeline {
	return &Pipeline{
		classifier: c,
		gate:       gate,
		dispatcher: d,
	}
}

// OnAccepted registers fn to be called after each accepted dispatch.
// Calls to one listener are made in order from a dedicated goroutine. When fn
// falls behind by more than listenerBuffer results, the extra results are dropped.
func (p *Pipeline) OnAccepted(fn Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	sub := subscriber{fn: fn, events: make(chan Result, listenerBuffer)}
	p.subscribers = append(p.subscribers, sub)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for res := range sub.events {
			sub.fn(res)
		}
	}()
}

// Close stops delivering results and waits for listeners to finish the queued ones.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		for _, sub := range p.subscribers {
			close(sub.events)
		}
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Strategy returns the active classification strategy.
func (p *Pipeline) Strategy() gesture.Strategy {
	return p.classifier.Strategy()
}

// Process runs one cycle. A nil hand skips classification and feeds None to the gate.
func (p *Pipeline) Process(ctx context.Context, hand *detector.HandLandmarks, now time.Time) Result {
	res := Result{Time: now, Gesture: gesture.None}

	if hand != nil {
		f := gesture.Extract(hand)
		res.HandSeen = true
		res.Fingers = f.Fingers.Count()
		res.Gesture = p.classifier.Classify(hand, f)
	}

	var decision debounce.Decision
	p.state, decision = p.gate.Step(p.state, res.Gesture, now)
	res.Decision = decision

	switch decision {
	case debounce.Accepted:
		res.EventID = uuid.NewString()
		res.Binding, _ = p.dispatcher.Dispatch(ctx, res.Gesture)
		logger.WithFields(logrus.Fields{
			"gesture":  res.Gesture.String(),
			"key":      res.Binding.Key,
			"action":   res.Binding.Description,
			"event_id": res.EventID,
		}).Info("Gesture accepted")
	case debounce.RejectedCooldown, debounce.RejectedRepeat:
		logger.WithFields(logrus.Fields{
			"gesture": res.Gesture.String(),
			"reason":  decision.String(),
		}).Debug("Gesture rejected")
	}

	p.record(res)
	return res
}

func (p *Pipeline) record(res Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Cycles++
	if !res.Accepted() {
		return
	}
	p.stats.Accepted++
	last := res
	p.stats.Last = &last

	if p.closed {
		return
	}
	for _, sub := range p.subscribers {
		select {
		case sub.events <- res:
		default:
			logger.WithField("event_id", res.EventID).Warn("Listener busy, event dropped")
		}
	}
}

// Stats returns a snapshot of pipeline activity.
func (p *Pipeline) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.stats
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	return s
}
