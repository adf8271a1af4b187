package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPublishBuffer  = 256
	defaultDialTimeout    = 5 * time.Second
	defaultPublishTimeout = 5 * time.Second
)

var (
	// ErrPublisherBusy is returned when the outgoing buffer is full
	ErrPublisherBusy = errors.New("event buffer is full")
	// ErrPublisherClosed is returned after Close
	ErrPublisherClosed = errors.New("event publisher is closed")
)

// AMQPPublisher publishes events as persistent JSON messages on a durable
// queue through the default exchange. Publish only enqueues; a single
// goroutine owns the broker connection and reconnects when it breaks, so
// a slow or dead broker never holds up the caller.
type AMQPPublisher struct {
	url            string
	queue          string
	dialTimeout    time.Duration
	publishTimeout time.Duration
	logger         *zap.Logger

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	// owned by the run goroutine
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher starts a publisher for queue on the broker at url.
// Call Close to flush and stop it.
func NewAMQPPublisher(url, queue string, logger *zap.Logger) *AMQPPublisher {
	return newAMQPPublisher(url, queue, defaultPublishBuffer, defaultDialTimeout, logger)
}

func newAMQPPublisher(url, queue string, buffer int, dialTimeout time.Duration, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &AMQPPublisher{
		url:            url,
		queue:          queue,
		dialTimeout:    dialTimeout,
		publishTimeout: defaultPublishTimeout,
		logger:         logger,
		events:         make(chan Event, buffer),
		done:           make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Publish hands ev to the background sender. It never waits for the broker.
func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrPublisherBusy
	}
}

// Close stops accepting events, sends what is buffered while the broker is
// reachable and closes the connection.
func (p *AMQPPublisher) Close() {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

func (p *AMQPPublisher) run() {
	defer p.wg.Done()
	defer p.disconnect()

	for {
		select {
		case <-p.done:
			p.drain()
			return
		case ev := <-p.events:
			p.deliver(ev)
		}
	}
}

// drain flushes the buffer on shutdown and gives up at the first failure
func (p *AMQPPublisher) drain() {
	for {
		select {
		case ev := <-p.events:
			if err := p.send(ev); err != nil {
				p.logger.Warn("dropping buffered events on shutdown",
					zap.Int("dropped", len(p.events)+1), zap.Error(err))
				return
			}
		default:
			return
		}
	}
}

// deliver sends ev, reconnecting once if the connection went away
func (p *AMQPPublisher) deliver(ev Event) {
	err := p.send(ev)
	if err != nil {
		err = p.send(ev)
	}
	if err != nil {
		p.logger.Warn("event dropped",
			zap.String("type", string(ev.Type)),
			zap.String("event_id", ev.ID),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("event published", zap.String("type", string(ev.Type)), zap.String("event_id", ev.ID))
}

func (p *AMQPPublisher) send(ev Event) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         string(ev.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.publishTimeout)
	defer cancel()
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.disconnect()
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// channel returns the open channel, dialing the broker when there is none.
// The dial timeout also bounds the AMQP handshake.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return p.ch, nil
	}
	p.disconnect()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial: amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) disconnect() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
