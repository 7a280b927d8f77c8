package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/priyank071/scooty-rental/internal/models"
)

// GetNotifications lists the caller's notifications, newest first. History is
// unbounded; nothing is ever deleted.
func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var notifications []models.Notification
		if err := db.Where("user_id = ?", userId).
			Preload("Booking").
			Preload("Booking.Rider").
			Order("created_at DESC, id DESC").
			Find(&notifications).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		var unread int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userId, false).
			Count(&unread)

		c.JSON(200, gin.H{
			"notifications": notifications,
			"total":         len(notifications),
			"unreadCount":   unread,
		})
	}
}

// GetUnreadCount returns the caller's unread notification count
func GetUnreadCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var unread int64
		if err := db.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userId, false).
			Count(&unread).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count notifications"})
			return
		}

		c.JSON(200, gin.H{"unreadCount": unread})
	}
}

// MarkNotificationRead flags one notification as read. Marking an already
// read notification is a no-op, not an error.
func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		notificationId := c.Param("id")

		var notification models.Notification
		if err := db.Where("id = ? AND user_id = ?", notificationId, userId).
			First(&notification).Error; err != nil {
			c.JSON(404, gin.H{"error": "Notification not found"})
			return
		}

		if !notification.Read {
			notification.Read = true
			if err := db.Save(&notification).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to mark notification as read"})
				return
			}
		}

		c.JSON(200, notification)
	}
}

// GetNotificationPreferences returns the caller's preferences, creating the
// default row on first access.
func GetNotificationPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var prefs models.NotificationPreference
		if err := db.Where("user_id = ?", userId).First(&prefs).Error; err != nil {
			prefs = *models.DefaultPreferences(userId)
			if err := db.Create(&prefs).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to create notification preferences"})
				return
			}
		}

		c.JSON(200, prefs)
	}
}

// UpdateNotificationPreferences overwrites the caller's preference toggles.
func UpdateNotificationPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			PushEnabled    *bool `json:"pushEnabled"`
			BookingAlerts  *bool `json:"bookingAlerts"`
			MessageAlerts  *bool `json:"messageAlerts"`
			DocumentAlerts *bool `json:"documentAlerts"`
			SMSEnabled     *bool `json:"smsEnabled"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var prefs models.NotificationPreference
		if err := db.Where("user_id = ?", userId).First(&prefs).Error; err != nil {
			prefs = *models.DefaultPreferences(userId)
			if err := db.Create(&prefs).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to create notification preferences"})
				return
			}
		}

		if input.PushEnabled != nil {
			prefs.PushEnabled = *input.PushEnabled
		}
		if input.BookingAlerts != nil {
			prefs.BookingAlerts = *input.BookingAlerts
		}
		if input.MessageAlerts != nil {
			prefs.MessageAlerts = *input.MessageAlerts
		}
		if input.DocumentAlerts != nil {
			prefs.DocumentAlerts = *input.DocumentAlerts
		}
		if input.SMSEnabled != nil {
			prefs.SMSEnabled = *input.SMSEnabled
		}

		if err := db.Save(&prefs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update notification preferences"})
			return
		}

		c.JSON(200, prefs)
	}
}
