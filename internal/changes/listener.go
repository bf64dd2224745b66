package changes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"medistore/internal/domain"
	"medistore/internal/logging"
)

// Channel is the notification channel the store triggers write to.
const Channel = "store_changes"

type publisher interface {
	Publish(e domain.ChangeEvent)
}

// Listener forwards store notifications to a publisher. It holds one
// dedicated connection outside the pool for as long as it runs.
type Listener struct {
	pool   *pgxpool.Pool
	out    publisher
	retry  time.Duration
	logger *zap.Logger
}

func NewListener(pool *pgxpool.Pool, out publisher, logger *zap.Logger) *Listener {
	return &Listener{pool: pool, out: out, retry: 2 * time.Second, logger: logging.OrNop(logger)}
}

// Run listens until ctx is done, reconnecting after connection failures.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Error("changes: listener interrupted", zap.Error(err), zap.Duration("retry_in", l.retry))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retry):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return err
	}
	l.logger.Info("changes: listening", zap.String("channel", Channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		e, err := Decode([]byte(n.Payload))
		if err != nil {
			l.logger.Warn("changes: bad payload", zap.String("payload", n.Payload), zap.Error(err))
			continue
		}
		l.out.Publish(e)
	}
}

// Decode parses a trigger payload.
func Decode(payload []byte) (domain.ChangeEvent, error) {
	var e domain.ChangeEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return domain.ChangeEvent{}, err
	}
	if e.Collection == "" || e.Event == "" {
		return domain.ChangeEvent{}, errors.New("payload missing collection or event")
	}
	return e, nil
}
