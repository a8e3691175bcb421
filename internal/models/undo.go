package models

// UndoKind identifies the action an UndoRecord reverses.
type UndoKind int

const (
	UndoDelete UndoKind = iota + 1
	UndoDelayMove
)

func (k UndoKind) String() string {
	switch k {
	case UndoDelete:
		return "delete"
	case UndoDelayMove:
		return "move to later"
	default:
		return "unknown"
	}
}

// UndoRecord describes a reversible destructive action. It lives only in memory.
type UndoRecord struct {
	Kind UndoKind

	// Item is the media item as it was before the action.
	Item MediaItem

	// Position is the item's index in the caller's list at the time of the action.
	Position int

	// CopyID is the media id of the copy created by a delay-move.
	CopyID string
}

// NewDeleteRecord creates an undo record for a soft delete.
func NewDeleteRecord(item MediaItem, position int) UndoRecord {
	return UndoRecord{Kind: UndoDelete, Item: item, Position: position}
}

// NewDelayMoveRecord creates an undo record for a move-to-later.
func NewDelayMoveRecord(item MediaItem, position int, copyID string) UndoRecord {
	return UndoRecord{Kind: UndoDelayMove, Item: item, Position: position, CopyID: copyID}
}
