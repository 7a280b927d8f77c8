package models

import (
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeBooking  NotificationType = "booking"
	NotificationTypeMessage  NotificationType = "message"
	NotificationTypeDocument NotificationType = "document"
)

// Notification is a read/unread record surfaced to one user in response to a
// workflow event. Rows are never deleted; read is the only mutable field.
type Notification struct {
	gorm.Model
	UserID    uint             `json:"userId" gorm:"not null;index"`
	Type      NotificationType `json:"type" gorm:"not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"not null"`
	Read      bool             `json:"read" gorm:"not null;default:false"`
	BookingID *uint            `json:"bookingId,omitempty" gorm:"index"`
	Booking   *Booking         `json:"-" gorm:"foreignKey:BookingID"`
}

func (Notification) TableName() string {
	return "notifications"
}
