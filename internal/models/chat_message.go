package models

import (
	"gorm.io/gorm"
)

type SenderRole string

const (
	SenderRoleUser   SenderRole = "user"
	SenderRoleOwner  SenderRole = "owner"
	SenderRoleSystem SenderRole = "system"
)

type MessageKind string

const (
	MessageKindText     MessageKind = "text"
	MessageKindImage    MessageKind = "image"
	MessageKindDocument MessageKind = "document"
)

// ChatMessage is one entry in a booking's license-verification thread.
// Messages are append-only and immutable; thread order is insertion order.
type ChatMessage struct {
	gorm.Model
	BookingID  uint        `json:"bookingId" gorm:"not null;index"`
	Booking    Booking     `json:"-"`
	SenderID   uint        `json:"senderId"`
	SenderName string      `json:"senderName" gorm:"not null"`
	SenderRole SenderRole  `json:"senderRole" gorm:"not null"`
	Kind       MessageKind `json:"kind" gorm:"not null;default:'text'"`
	Content    string      `json:"content" gorm:"not null"`
	FileName   string      `json:"fileName,omitempty"`
	FileURL    string      `json:"fileUrl,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatSeedMessage opens every new thread before either party has written.
const ChatSeedMessage = "Chat started for license verification. Please upload your driving license and other required documents."
