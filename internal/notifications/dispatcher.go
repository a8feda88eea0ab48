package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/accounthub/internal/observability"
)

// Dispatcher fires notifications without tying them to a request
// lifecycle. The caller gets no outcome; failures go to the log and the
// metrics registry only.
type Dispatcher struct {
	notifier Notifier
	log      *slog.Logger
	prom     *observability.Prom
	timeout  time.Duration
}

func NewDispatcher(notifier Notifier, log *slog.Logger, prom *observability.Prom, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Dispatcher{
		notifier: notifier,
		log:      log,
		prom:     prom,
		timeout:  timeout,
	}
}

// DispatchAccountCreated returns immediately; the send runs on its own
// goroutine with its own deadline, detached from any request context.
func (d *Dispatcher) DispatchAccountCreated(input AccountCreatedInput) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := d.notifier.SendAccountCreated(ctx, input)

		d.prom.ObserveNotification(KindAccountCreated, err)

		if err != nil {
			d.log.Error("account creation notification failed",
				"account_id", input.AccountID,
				"err", err,
			)
			return
		}

		d.log.Info("account creation notification sent",
			"account_id", input.AccountID,
		)
	}()
}
