// internal/broker/nats.go
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/matchcards/internal/models"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Connect dials NATS with bounded reconnects.
func Connect(url, name string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("NATS: disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("NATS: reconnected to %s.", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}

// Subject is the NATS subject one game's actions are published on.
func Subject(rec models.GameActionRecord) string {
	return fmt.Sprintf("game.%s.actions", rec.GameID)
}

// Publisher sends action records to NATS subjects.
type Publisher struct {
	nc *nats.Conn
}

// NewPublisher wraps a NATS connection.
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// PublishGameAction publishes rec as JSON. The context only gates the call.
func (p *Publisher) PublishGameAction(ctx context.Context, rec models.GameActionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := p.nc.Publish(Subject(rec), data); err != nil {
		return fmt.Errorf("nats publish %d: %w", rec.ActionIndex, err)
	}
	return nil
}
