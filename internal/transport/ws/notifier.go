package ws

import (
	"github.com/google/uuid"

	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

// The hub doubles as the discussion service's notifier.

func (h *Hub) DiscussionCreated(discussion *domain.Discussion) {
	event, err := NewEvent(EventTypeDiscussionNew, &discussion.DrugID, discussion)
	if err != nil {
		return
	}
	h.BroadcastToDrug(discussion.DrugID, event)
}

func (h *Hub) DiscussionDeleted(drugID, discussionID uuid.UUID) {
	event, err := NewEvent(EventTypeDiscussionDeleted, &drugID, DiscussionDeletedPayload{ID: discussionID})
	if err != nil {
		return
	}
	h.BroadcastToDrug(drugID, event)
}
