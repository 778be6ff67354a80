package services

import (
	"fitquest/observability"
	"fitquest/store"
)

// ChangeEvent is the websocket message announcing a store change.
type ChangeEvent struct {
	Kind   string       `json:"kind"`
	Change store.Change `json:"change"`
}

// ChangeBus fans store changes out to the identity's websocket sessions so they revalidate.
type ChangeBus struct {
	rt *RealtimeHub
}

func NewChangeBus(rt *RealtimeHub) *ChangeBus {
	return &ChangeBus{rt: rt}
}

func (b *ChangeBus) Publish(identity string, change store.Change) {
	observability.ChangeEvents.WithLabelValues(change.Family).Inc()
	if b.rt == nil {
		return
	}
	b.rt.Broadcast(identity, ChangeEvent{Kind: "store.changed", Change: change})
}
