package entity

// Message is one immutable entry in a conversation's log. Only IsRead may
// change after creation, and only from false to true.
type Message struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey"`
	ConversationId int64  `json:"conversation_id" gorm:"column:conversation_id;index"`
	SenderId       int64  `json:"sender_id" gorm:"column:sender_id"`
	ReceiverId     int64  `json:"receiver_id" gorm:"column:receiver_id"`
	Content        string `json:"content" gorm:"column:content;type:text"`
	IsRead         bool   `json:"is_read" gorm:"column:is_read"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageInfo represents message info for API responses and push events
type MessageInfo struct {
	Id             int64  `json:"id"`
	ConversationId int64  `json:"conversation_id"`
	SenderId       int64  `json:"sender_id"`
	ReceiverId     int64  `json:"receiver_id"`
	Content        string `json:"content"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      int64  `json:"created_at"`
}

// ToMessageInfo converts Message to MessageInfo
func (m *Message) ToMessageInfo() *MessageInfo {
	return &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		SenderId:       m.SenderId,
		ReceiverId:     m.ReceiverId,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
