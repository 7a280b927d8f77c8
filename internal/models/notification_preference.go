package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationPreference represents user notification preferences
type NotificationPreference struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"userId"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// General realtime push toggle (WebSocket frames)
	PushEnabled bool `gorm:"column:push_enabled;default:true" json:"pushEnabled"`

	// Specific notification preferences
	BookingAlerts  bool `gorm:"column:booking_alerts;default:true" json:"bookingAlerts"`
	MessageAlerts  bool `gorm:"column:message_alerts;default:true" json:"messageAlerts"`
	DocumentAlerts bool `gorm:"column:document_alerts;default:true" json:"documentAlerts"`

	// SMS preference
	SMSEnabled bool `gorm:"column:sms_enabled;default:true" json:"smsEnabled"`
}

// TableName specifies the table name for NotificationPreference
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultPreferences returns default notification preferences for a new user
func DefaultPreferences(userID uint) *NotificationPreference {
	return &NotificationPreference{
		UserID:         userID,
		PushEnabled:    true,
		BookingAlerts:  true,
		MessageAlerts:  true,
		DocumentAlerts: true,
		SMSEnabled:     true,
	}
}
