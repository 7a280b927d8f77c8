package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/priyank071/scooty-rental/internal/models"
)

// OutboundSender delivers a message to a phone number over an external
// channel (SMS, WhatsApp). Implementations live outside the workflow core.
type OutboundSender interface {
	Send(phone, message string) error
}

// Dispatcher turns workflow events into their side effects: a notification
// row, a websocket push, a Redis publication and, preferences allowing, an
// outbound SMS. Every handler mutation that must be seen by another user goes
// through here.
type Dispatcher struct {
	db  *gorm.DB
	hub *Hub
	sms OutboundSender
}

func NewDispatcher(db *gorm.DB, hub *Hub, sms OutboundSender) *Dispatcher {
	return &Dispatcher{db: db, hub: hub, sms: sms}
}

// BookingRequested notifies the owner that a rider wants one of their
// scooties.
func (d *Dispatcher) BookingRequested(booking *models.Booking, scooty *models.Scooty, rider *models.User, owner *models.User) {
	bookingID := booking.ID
	notification := models.Notification{
		UserID:    owner.ID,
		Type:      models.NotificationTypeBooking,
		Title:     "New Booking Request",
		Message:   fmt.Sprintf("%s has requested to book your %s", rider.Username, scooty.ScootyModel),
		BookingID: &bookingID,
	}

	smsBody := fmt.Sprintf("Your %s has been booked by %s. Please log in to confirm or reject the booking.",
		scooty.ScootyModel, rider.Username)

	d.deliver(owner, notification, smsBody, func(p *models.NotificationPreference) bool {
		return p.BookingAlerts
	})

	d.hub.SendBookingRequested(owner.ID, BookingRequested{
		BookingID:   booking.ID,
		ScootyID:    scooty.ID,
		ScootyModel: scooty.ScootyModel,
		RiderName:   rider.Username,
		Amount:      booking.Amount,
	})
}

// BookingDecided notifies the rider of the owner's confirm/reject decision.
func (d *Dispatcher) BookingDecided(booking *models.Booking, scooty *models.Scooty, rider *models.User) {
	bookingID := booking.ID

	var title, message, smsBody string
	if booking.Status == models.BookingStatusConfirmed {
		title = "Booking Confirmed"
		message = fmt.Sprintf("Your booking for %s has been confirmed", scooty.ScootyModel)
		smsBody = fmt.Sprintf("Your booking for %s has been confirmed. The owner will contact you for license verification.", scooty.ScootyModel)
	} else {
		title = "Booking Rejected"
		message = fmt.Sprintf("Your booking for %s has been rejected", scooty.ScootyModel)
		smsBody = "Your booking has been rejected by the owner. Please try booking another available scooty."
	}

	notification := models.Notification{
		UserID:    rider.ID,
		Type:      models.NotificationTypeBooking,
		Title:     title,
		Message:   message,
		BookingID: &bookingID,
	}

	d.deliver(rider, notification, smsBody, func(p *models.NotificationPreference) bool {
		return p.BookingAlerts
	})

	d.hub.SendBookingStatusChanged(rider.ID, BookingStatusChanged{
		BookingID: booking.ID,
		Status:    booking.Status,
	})
}

// StatusChanged tells the other booking party about an ongoing/completed/
// cancelled move. Cheaper than BookingDecided: no SMS, panel entry only.
func (d *Dispatcher) StatusChanged(booking *models.Booking, recipient *models.User) {
	bookingID := booking.ID
	notification := models.Notification{
		UserID:    recipient.ID,
		Type:      models.NotificationTypeBooking,
		Title:     "Booking Updated",
		Message:   fmt.Sprintf("Booking #%d is now %s", booking.ID, booking.Status),
		BookingID: &bookingID,
	}

	d.deliver(recipient, notification, "", func(p *models.NotificationPreference) bool {
		return p.BookingAlerts
	})

	d.hub.SendBookingStatusChanged(recipient.ID, BookingStatusChanged{
		BookingID: booking.ID,
		Status:    booking.Status,
	})
}

// MessagePosted notifies the other party of a new text message in a booking
// thread.
func (d *Dispatcher) MessagePosted(message *models.ChatMessage, recipient *models.User) {
	bookingID := message.BookingID
	notification := models.Notification{
		UserID:    recipient.ID,
		Type:      models.NotificationTypeMessage,
		Title:     "New Message",
		Message:   fmt.Sprintf("%s sent a message about booking #%d", message.SenderName, message.BookingID),
		BookingID: &bookingID,
	}

	d.deliver(recipient, notification, "", func(p *models.NotificationPreference) bool {
		return p.MessageAlerts
	})

	d.hub.SendChatMessagePosted(recipient.ID, ChatMessagePosted{
		BookingID: message.BookingID,
		Message:   *message,
	})
}

// DocumentUploaded notifies the other party that a verification document
// landed in the thread.
func (d *Dispatcher) DocumentUploaded(message *models.ChatMessage, recipient *models.User) {
	bookingID := message.BookingID
	notification := models.Notification{
		UserID:    recipient.ID,
		Type:      models.NotificationTypeDocument,
		Title:     "Document Uploaded",
		Message:   fmt.Sprintf("%s has uploaded %s for verification", message.SenderName, message.FileName),
		BookingID: &bookingID,
	}

	d.deliver(recipient, notification, "", func(p *models.NotificationPreference) bool {
		return p.DocumentAlerts
	})

	d.hub.SendChatMessagePosted(recipient.ID, ChatMessagePosted{
		BookingID: message.BookingID,
		Message:   *message,
	})
}

// OwnerDecision notifies an owner about their application review. Approval
// goes out by SMS as well so owners without the app installed still hear back.
func (d *Dispatcher) OwnerDecision(owner *models.User, approved bool) {
	title := "Application Approved"
	message := "Your fleet owner application has been approved. You can now list scooties."
	smsBody := "Congratulations! Your ScootyRentals fleet owner application has been approved. Log in to add your scooties."
	if !approved {
		title = "Application Rejected"
		message = "Your fleet owner application has been rejected. Contact support for details."
		smsBody = ""
	}

	notification := models.Notification{
		UserID:  owner.ID,
		Type:    models.NotificationTypeMessage,
		Title:   title,
		Message: message,
	}

	d.deliver(owner, notification, smsBody, func(p *models.NotificationPreference) bool {
		return true
	})
}

// Announcement fans an admin broadcast out to an audience: one notification
// row per user plus a single hub frame per connected client. Returns how many
// rows were written.
func (d *Dispatcher) Announcement(users []models.User, title, message, audience string) int {
	created := 0
	for i := range users {
		notification := models.Notification{
			UserID:  users[i].ID,
			Type:    models.NotificationTypeMessage,
			Title:   title,
			Message: message,
		}
		if err := d.db.Create(&notification).Error; err != nil {
			log.Printf("Failed to persist announcement for user %d: %v", users[i].ID, err)
			continue
		}
		created++
	}

	d.hub.SendAnnouncement(audience, Announcement{Title: title, Message: message})
	return created
}

// deliver persists the notification, pushes it over the hub and sends the SMS
// when the recipient's preferences allow. The row is always written — history
// records every event and preferences gate only push and SMS. Persistence
// failure is the only hard error; push and SMS are best effort.
func (d *Dispatcher) deliver(recipient *models.User, notification models.Notification, smsBody string, allowed func(*models.NotificationPreference) bool) {
	prefs := d.preferencesFor(recipient.ID)

	if err := d.db.Create(&notification).Error; err != nil {
		log.Printf("Failed to persist notification for user %d: %v", recipient.ID, err)
		return
	}

	var unread int64
	d.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", recipient.ID, false).
		Count(&unread)

	if prefs.PushEnabled && allowed(prefs) {
		d.hub.SendNotificationCreated(recipient.ID, NotificationCreated{
			Notification: notification,
			UnreadCount:  unread,
		})
	}

	if notification.BookingID != nil {
		if err := PublishBookingUpdate(context.Background(), *notification.BookingID, string(notification.Type), map[string]interface{}{
			"notificationId": notification.ID,
			"userId":         recipient.ID,
		}); err != nil {
			log.Printf("Failed to publish booking update: %v", err)
		}
	}

	if smsBody != "" && allowed(prefs) && prefs.SMSEnabled && recipient.PhoneNumber != "" && d.sms != nil {
		if err := d.sms.Send(recipient.PhoneNumber, smsBody); err != nil {
			log.Printf("Failed to send SMS to user %d: %v", recipient.ID, err)
		}
	}
}

func (d *Dispatcher) preferencesFor(userID uint) *models.NotificationPreference {
	var prefs models.NotificationPreference
	if err := d.db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		return models.DefaultPreferences(userID)
	}
	return &prefs
}
