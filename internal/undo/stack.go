// Package undo keeps the most recent destructive gallery actions and
// reverses them on request.
package undo

import (
	"sync"

	"github.com/dmitrijs2005/gallerybin/internal/models"
)

// MaxDepth is the number of actions that can be undone.
const MaxDepth = 5

// Stack is a bounded most-recent-first stack. Pushing onto a full stack
// silently drops the oldest record. It lives in memory only.
type Stack struct {
	mu      sync.Mutex
	records []models.UndoRecord
}

func NewStack() *Stack {
	return &Stack{records: make([]models.UndoRecord, 0, MaxDepth+1)}
}

// Push adds rec as the most recent record.
func (s *Stack) Push(rec models.UndoRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, models.UndoRecord{})
	copy(s.records[1:], s.records)
	s.records[0] = rec

	if len(s.records) > MaxDepth {
		s.records = s.records[:MaxDepth]
	}
}

// Pop removes and returns the most recent record. ok is false when the
// stack is empty.
func (s *Stack) Pop() (rec models.UndoRecord, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return models.UndoRecord{}, false
	}
	rec = s.records[0]
	s.records = append(s.records[:0], s.records[1:]...)
	return rec, true
}

// Peek returns the most recent record without removing it.
func (s *Stack) Peek() (models.UndoRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return models.UndoRecord{}, false
	}
	return s.records[0], true
}

func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
