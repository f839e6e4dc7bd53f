package entity

// Conversation is a two-party message container. The participant pair is stored
// normalized (UserAId < UserBId) and carries a unique index so the same two users
// can never own more than one conversation.
type Conversation struct {
	Id            int64 `json:"id" gorm:"column:id;primaryKey"`
	UserAId       int64 `json:"user_a_id" gorm:"column:user_a_id;uniqueIndex:uk_pair"`
	UserBId       int64 `json:"user_b_id" gorm:"column:user_b_id;uniqueIndex:uk_pair"`
	LastMessageAt int64 `json:"last_message_at" gorm:"column:last_message_at"`
	UserALastRead int64 `json:"user_a_last_read" gorm:"column:user_a_last_read"`
	UserBLastRead int64 `json:"user_b_last_read" gorm:"column:user_b_last_read"`
	CreatedAt     int64 `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant reports whether userId is one of the two participants.
func (c *Conversation) HasParticipant(userId int64) bool {
	return c.UserAId == userId || c.UserBId == userId
}

// PeerOf returns the other participant's id, or 0 if userId is not a participant.
func (c *Conversation) PeerOf(userId int64) int64 {
	switch userId {
	case c.UserAId:
		return c.UserBId
	case c.UserBId:
		return c.UserAId
	default:
		return 0
	}
}

// LastReadOf returns the read watermark for the given participant.
func (c *Conversation) LastReadOf(userId int64) int64 {
	switch userId {
	case c.UserAId:
		return c.UserALastRead
	case c.UserBId:
		return c.UserBLastRead
	default:
		return 0
	}
}

// ConversationInfo represents conversation info for API responses
type ConversationInfo struct {
	Id            int64 `json:"id"`
	PeerUserId    int64 `json:"peer_user_id"`
	LastMessageAt int64 `json:"last_message_at"`
	LastRead      int64 `json:"last_read"`
	CreatedAt     int64 `json:"created_at"`
}

// ToInfo converts a Conversation to the view for the given participant.
func (c *Conversation) ToInfo(userId int64) *ConversationInfo {
	return &ConversationInfo{
		Id:            c.Id,
		PeerUserId:    c.PeerOf(userId),
		LastMessageAt: c.LastMessageAt,
		LastRead:      c.LastReadOf(userId),
		CreatedAt:     c.CreatedAt,
	}
}

// ConversationSummary is a list entry for a user's conversation screen:
// the conversation annotated with the peer's profile, the most recent
// message and the unread count for that user.
type ConversationSummary struct {
	Conversation *ConversationInfo `json:"conversation"`
	Peer         *UserInfo         `json:"peer,omitempty"`
	LastMessage  *MessageInfo      `json:"last_message,omitempty"`
	UnreadCount  int64             `json:"unread_count"`
}
