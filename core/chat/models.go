package chat

import (
	"time"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

// Channel partitions messages into independent conversations.
type Channel string

// Channels
const (
	StudentStudent Channel = "student-student"
	StudentTeacher Channel = "student-teacher"
)

var Channels = []Channel{StudentStudent, StudentTeacher}

func (ch Channel) IsKnown() bool {
	for _, c := range Channels {
		if ch == c {
			return true
		}
	}
	return false
}

// Message is never edited once sent.
type Message struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Sender     string    `json:"sender"` // user ID
	SenderName string    `json:"senderName"`
	SenderRole user.Role `json:"senderRole"`
	ChatType   Channel   `json:"chatType"`
	Timestamp  time.Time `json:"timestamp"` // UTC
}

// NewMessage contains information needed to send a Message.
// A zero Timestamp is set to the time of sending.
type NewMessage struct {
	Content    string    `json:"content" validate:"required,notblank"`
	Sender     string    `json:"sender" validate:"required"`
	SenderName string    `json:"senderName"`
	SenderRole user.Role `json:"senderRole"`
	ChatType   Channel   `json:"chatType"`
	Timestamp  time.Time `json:"timestamp"`
}

func (nm *NewMessage) Clean() {
	nm.Content = core.CleanString(nm.Content)
	nm.Sender = core.CleanString(nm.Sender)
	nm.SenderName = core.CleanString(nm.SenderName)
}
