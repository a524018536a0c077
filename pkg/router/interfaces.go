// Package router pkg/router/interfaces.go
package router

//go:generate mockgen -destination=mock_router.go -package=router github.com/mfreeman451/meshbot/pkg/router EventSink

// EventSink receives a copy of every event the router processes. Publish
// must not block.
type EventSink interface {
	Publish(ev Event)
}
