package usecase

import (
	"context"
	"time"
)

// ChangeKind labels what happened to a rubber.
type ChangeKind string

const (
	ChangeRubberCreated    ChangeKind = "rubber_created"
	ChangeRubberDeleted    ChangeKind = "rubber_deleted"
	ChangeResultRecorded   ChangeKind = "result_recorded"
	ChangeContractReplaced ChangeKind = "contract_replaced"
)

// ChangeEvent is the payload handed to the change-notification hook.
// Observers poll the API for current state; the event only says that
// state moved.
type ChangeEvent struct {
	RubberID string     `json:"rubber_id"`
	Kind     ChangeKind `json:"kind"`
	At       time.Time  `json:"at"`
}

// ChangeNotifier is the explicit notification hook for external
// observers. Delivery is best-effort and must never block or fail a
// mutation; implementations log and swallow their own errors.
type ChangeNotifier interface {
	RubberChanged(ctx context.Context, event ChangeEvent)
}

func notifyChange(ctx context.Context, notifier ChangeNotifier, rubberID string, kind ChangeKind) {
	if notifier == nil {
		return
	}
	notifier.RubberChanged(ctx, ChangeEvent{
		RubberID: rubberID,
		Kind:     kind,
		At:       time.Now().UTC(),
	})
}
