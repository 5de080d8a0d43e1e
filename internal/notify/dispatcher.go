package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Transport delivers one rendered e-mail. Implementations make a single attempt.
type Transport interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher renders a payload and hands it to the transport.
type Dispatcher struct {
	renderer  *Renderer
	transport Transport
}

func NewDispatcher(r *Renderer, t Transport) *Dispatcher {
	return &Dispatcher{renderer: r, transport: t}
}

func (d *Dispatcher) Notify(ctx context.Context, to string, p Payload) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("notify: empty recipient")
	}
	subject, body, err := d.renderer.Render(p)
	if err != nil {
		return err
	}
	if err := d.transport.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("notify %s: %w", p.Kind(), err)
	}
	return nil
}
