package handlers

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/priyank071/scooty-rental/internal/models"
	"github.com/priyank071/scooty-rental/internal/rental"
	"github.com/priyank071/scooty-rental/internal/services"
)

// loadThreadBooking fetches the booking behind a thread and checks the caller
// is one of its parties. A thread cannot exist without its booking.
func loadThreadBooking(c *gin.Context, db *gorm.DB) (*models.Booking, bool) {
	bookingId := c.Param("id")
	userId := c.GetUint("userId")

	var booking models.Booking
	if err := db.Preload("Scooty").First(&booking, bookingId).Error; err != nil {
		c.JSON(404, gin.H{"error": "Booking not found"})
		return nil, false
	}
	if booking.RiderID != userId && booking.OwnerID != userId {
		c.JSON(403, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return &booking, true
}

// senderRole maps the caller onto their side of the thread.
func senderRole(booking *models.Booking, userId uint) models.SenderRole {
	if userId == booking.OwnerID {
		return models.SenderRoleOwner
	}
	return models.SenderRoleUser
}

// openThread loads a booking's message log, seeding it with the system
// greeting on first touch. Reads and writes both come through here, so the
// seed is the first entry no matter which happens first.
func openThread(db *gorm.DB, booking *models.Booking) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := db.Where("booking_id = ?", booking.ID).Order("id").Find(&messages).Error; err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		seed := models.ChatMessage{
			BookingID:  booking.ID,
			SenderName: "System",
			SenderRole: models.SenderRoleSystem,
			Kind:       models.MessageKindText,
			Content:    models.ChatSeedMessage,
		}
		if err := db.Create(&seed).Error; err != nil {
			return nil, err
		}
		messages = append(messages, seed)
	}

	return messages, nil
}

// GetThread returns a booking's message log, lazily opening the thread with a
// system seed message on first access.
func GetThread(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, ok := loadThreadBooking(c, db)
		if !ok {
			return
		}

		messages, err := openThread(db, booking)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to open chat thread"})
			return
		}

		c.JSON(200, gin.H{
			"bookingId":   booking.ID,
			"scootyModel": booking.Scooty.ScootyModel,
			"messages":    messages,
		})
	}
}

// PostMessage appends a text message to a booking's thread.
func PostMessage(db *gorm.DB, dispatch *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		booking, ok := loadThreadBooking(c, db)
		if !ok {
			return
		}

		var input struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		content, err := rental.ValidateMessageContent(input.Content)
		if err != nil {
			respondRentalError(c, err)
			return
		}

		var sender models.User
		if err := db.First(&sender, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if _, err := openThread(db, booking); err != nil {
			c.JSON(500, gin.H{"error": "Failed to open chat thread"})
			return
		}

		message := models.ChatMessage{
			BookingID:  booking.ID,
			SenderID:   sender.ID,
			SenderName: sender.Username,
			SenderRole: senderRole(booking, userId),
			Kind:       models.MessageKindText,
			Content:    content,
		}

		if err := db.Create(&message).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to post message"})
			return
		}

		notifyCounterpart(db, dispatch, booking, &message, userId)

		c.JSON(201, message)
	}
}

// PostAttachment validates and stores a license-verification upload, then
// appends it to the thread as an image or document message.
func PostAttachment(db *gorm.DB, dispatch *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		booking, ok := loadThreadBooking(c, db)
		if !ok {
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, gin.H{"error": "Attachment file is required"})
			return
		}

		contentType := file.Header.Get("Content-Type")
		kind, err := rental.ValidateAttachment(contentType, file.Size)
		if err != nil {
			respondRentalError(c, err)
			return
		}

		fileURL, err := services.StoreAttachment(file, contentType)
		if err != nil {
			c.JSON(500, gin.H{
				"error":   "Failed to store attachment",
				"details": err.Error(),
			})
			return
		}

		var sender models.User
		if err := db.First(&sender, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if _, err := openThread(db, booking); err != nil {
			c.JSON(500, gin.H{"error": "Failed to open chat thread"})
			return
		}

		message := models.ChatMessage{
			BookingID:  booking.ID,
			SenderID:   sender.ID,
			SenderName: sender.Username,
			SenderRole: senderRole(booking, userId),
			Kind:       kind,
			Content:    "Uploaded " + file.Filename,
			FileName:   file.Filename,
			FileURL:    fileURL,
		}

		if err := db.Create(&message).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to post attachment"})
			return
		}

		notifyCounterpart(db, dispatch, booking, &message, userId)

		c.JSON(201, message)
	}
}

func notifyCounterpart(db *gorm.DB, dispatch *services.Dispatcher, booking *models.Booking, message *models.ChatMessage, senderID uint) {
	recipientID := booking.RiderID
	if senderID == booking.RiderID {
		recipientID = booking.OwnerID
	}

	var recipient models.User
	if err := db.First(&recipient, recipientID).Error; err != nil {
		log.Printf("Chat recipient %d not found for booking %d", recipientID, booking.ID)
		return
	}

	if message.Kind == models.MessageKindText {
		dispatch.MessagePosted(message, &recipient)
	} else {
		dispatch.DocumentUploaded(message, &recipient)
	}

	if err := services.PublishChatMessage(context.Background(), booking.ID, message.ID); err != nil {
		log.Printf("Failed to publish chat message: %v", err)
	}
}
