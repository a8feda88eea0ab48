package notifications

import "context"

const KindAccountCreated = "account.created"

type AccountCreatedInput struct {
	AccountID int64
	FirstName string
	LastName  string
	Email     string
}

type Notifier interface {
	SendAccountCreated(ctx context.Context, input AccountCreatedInput) error
}
