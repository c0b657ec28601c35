package eventbus

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventBus is a synchronous in-process publisher. Handlers are plain
// functions; an event is delivered to every subscriber whose signature
// matches the published arguments.
type EventBus interface {
	Publish(args ...any)
	Subscribe(handler any)
	Unsubscribe(handler any)
	Clear()
	SubscribersCount() int
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisher{log: log}
}

type publisher struct {
	log *logrus.Logger

	mu       sync.RWMutex
	handlers []any
}

// MatchSignature reports whether handler is a func whose parameters can
// accept args in order.
func MatchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			if param.Kind() != reflect.Interface && param.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		at := reflect.TypeOf(arg)
		if param.Kind() == reflect.Interface {
			if !at.Implements(param) {
				return false
			}
			continue
		}
		if !at.AssignableTo(param) {
			return false
		}
	}
	return true
}

func (p *publisher) Publish(args ...any) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}

	p.mu.RLock()
	handlers := make([]any, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.RUnlock()

	handled := false
	for _, h := range handlers {
		if !MatchSignature(h, args) {
			continue
		}
		p.call(h, in)
		handled = true
	}
	if !handled && p.log != nil {
		p.log.Warnf("eventbus.Publish: no matching subscribers for event with args: %v", in)
	}
}

// call invokes one handler with panic recovery so a misbehaving subscriber
// cannot take down the publisher.
func (p *publisher) call(h any, in []reflect.Value) {
	defer func() {
		if r := recover(); r != nil && p.log != nil {
			p.log.Errorf("eventbus: handler %s panicked: %v", reflect.TypeOf(h), r)
		}
	}()
	reflect.ValueOf(h).Call(in)
}

func (p *publisher) Subscribe(handler any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

func (p *publisher) Unsubscribe(handler any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	target := reflect.ValueOf(handler).Pointer()
	out := p.handlers[:0]
	for _, h := range p.handlers {
		if reflect.ValueOf(h).Pointer() != target {
			out = append(out, h)
		}
	}
	p.handlers = out
}

func (p *publisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = nil
}

func (p *publisher) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}
