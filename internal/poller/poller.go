package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultTopic   = "checkout-outbox"
	DefaultGroupID = "storefront-consumer"

	defaultErrorBackoff = time.Second
	maxErrorBackoff     = 30 * time.Second
)

// CartClearer is the part of the cart engine the poller drives
type CartClearer interface {
	Clear(ctx context.Context) domain.Cart
}

// SessionReader reports the signed-in user, if any
type SessionReader interface {
	Current() (domain.UserSession, bool)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Poller empties the cart when a checkout completes for the signed-in user
type Poller struct {
	reader   messageReader
	cart     CartClearer
	sessions SessionReader
	logger   *zap.Logger

	// backoff after a failed read, doubled per consecutive failure
	errorBackoff time.Duration
}

func NewPoller(cart CartClearer, sessions SessionReader, logger *zap.Logger, topic, groupID string, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return newPoller(reader, cart, sessions, logger)
}

func newPoller(reader messageReader, cart CartClearer, sessions SessionReader, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		reader:       reader,
		cart:         cart,
		sessions:     sessions,
		logger:       logger,
		errorBackoff: defaultErrorBackoff,
	}
}

func (p *Poller) Run(ctx context.Context) {
	delay := p.errorBackoff
	for {
		if ctx.Err() != nil {
			return
		}
		if err := p.readAndClearCart(ctx); err == nil || ctx.Err() != nil {
			delay = p.errorBackoff
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxErrorBackoff)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.logger.Warn("error closing reader", zap.Error(err))
	}
}

// readAndClearCart returns the read error; bad payloads are not errors.
func (p *Poller) readAndClearCart(ctx context.Context) error {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Warn("error reading message", zap.Error(err))
		}
		return err
	}
	p.handle(ctx, m.Value)
	return nil
}

// handle returns true when the cart was cleared
func (p *Poller) handle(ctx context.Context, value []byte) bool {
	var payload struct {
		UserID json.RawMessage `json:"user_id"`
	}
	if err := json.Unmarshal(value, &payload); err != nil {
		p.logger.Warn("error parsing message", zap.Error(err))
		return false
	}

	userID, err := parseUserID(payload.UserID)
	if err != nil {
		p.logger.Warn("missing or invalid user_id", zap.Error(err))
		return false
	}

	current, ok := p.sessions.Current()
	if !ok || current.ID != userID {
		p.logger.Debug("checkout for another user, cart kept", zap.Int64("user_id", userID))
		return false
	}

	p.cart.Clear(ctx)
	p.logger.Info("cart cleared after checkout", zap.Int64("user_id", userID))
	return true
}

// parseUserID accepts the id as a JSON number or a numeric string
func parseUserID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("user_id is missing")
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("user_id has unexpected type: %w", err)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user_id is not numeric: %w", err)
	}
	return n, nil
}
