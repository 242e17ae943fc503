package events

import (
	"time"

	"todoblog/domain/todo"
)

// ItemCreatedEvent is published after the data service confirms a creation
type ItemCreatedEvent struct {
	Item      todo.Item
	Timestamp time.Time
}

// ItemDeletedEvent is published after the data service confirms a deletion
type ItemDeletedEvent struct {
	ItemID    string
	Timestamp time.Time
}
