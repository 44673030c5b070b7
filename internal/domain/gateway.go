package domain

import "context"

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=domain

// MessageGateway sends one text message to a canonical chat address and
// returns the gateway message id.
type MessageGateway interface {
	Send(ctx context.Context, chatID, text string) (string, error)
}
