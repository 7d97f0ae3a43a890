package interfaces

import (
	"context"

	"garage_crm/internal/domain/entities"
)

// INotifier surfaces the outcome of a user action (success or failure toast).
type INotifier interface {
	Notify(ctx context.Context, n entities.Notification)
}
