package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Темы доменных событий, публикуются после успешного коммита.
const (
	SubjectTournamentJoined  = "tournament.joined"
	SubjectTournamentResults = "tournament.results"
	SubjectTournamentStatus  = "tournament.status"
	SubjectWalletDeposit     = "wallet.deposit"
	SubjectWalletWithdrawal  = "wallet.withdrawal"
	SubjectTeamJoined        = "team.joined"
	SubjectUserRegistered    = "user.registered"
)

// Event - конверт доменного события.
type Event struct {
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSPublisher подключается к url, token необязателен.
func NewNATSPublisher(url, token string, logger *slog.Logger) (Publisher, error) {
	opts := []nats.Option{
		nats.Name("arena"),
		nats.MaxReconnects(-1),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return &natsPublisher{conn: conn, logger: logger}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(Event{Subject: subject, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", subject, err)
	}
	p.logger.DebugContext(ctx, "Event published", slog.String("subject", subject))
	return nil
}

func (p *natsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("Failed to drain NATS connection", slog.Any("error", err))
	}
}

type noopPublisher struct{}

// NewNoopPublisher используется, когда NATS_URL не задан.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (noopPublisher) Close()                                             {}
