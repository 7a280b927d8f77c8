package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/priyank071/scooty-rental/internal/models"
	"github.com/priyank071/scooty-rental/internal/rental"
	"github.com/priyank071/scooty-rental/internal/services"
)

// CreateBooking prices and records a pending booking, then notifies the
// scooty's owner.
func CreateBooking(db *gorm.DB, dispatch *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			ScootyID  uint      `json:"scootyId" binding:"required"`
			StartTime time.Time `json:"startTime" binding:"required"`
			EndTime   time.Time `json:"endTime" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var scooty models.Scooty
		if err := db.First(&scooty, input.ScootyID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Scooty not found"})
			return
		}

		available := scooty.Available
		if cached, hit, err := services.GetScootyAvailability(context.Background(), scooty.ID); err == nil && hit {
			available = cached
		}
		if !available {
			respondRentalError(c, &rental.ValidationError{Field: "scooty", Reason: "is not available for booking"})
			return
		}

		quote, err := rental.PrepareQuote(input.StartTime, input.EndTime, scooty.HourlyRate)
		if err != nil {
			respondRentalError(c, err)
			return
		}

		booking := models.Booking{
			ScootyID:  scooty.ID,
			RiderID:   userId,
			OwnerID:   scooty.OwnerID,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			Amount:    quote.Amount,
			Status:    models.BookingStatusPending,
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		var rider, owner models.User
		if err := db.First(&rider, userId).Error; err == nil {
			if err := db.First(&owner, scooty.OwnerID).Error; err == nil {
				dispatch.BookingRequested(&booking, &scooty, &rider, &owner)
			}
		}

		c.JSON(201, booking)
	}
}

// UpdateBookingStatus moves a booking through its lifecycle. Confirm, reject,
// start and complete belong to the owner; cancel is open to either party.
func UpdateBookingStatus(db *gorm.DB, dispatch *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		userId := c.GetUint("userId")

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if !rental.ValidStatus(input.Status) {
			c.JSON(400, gin.H{"error": "Unknown booking status"})
			return
		}
		target := models.BookingStatus(input.Status)

		var booking models.Booking
		if err := db.Preload("Scooty").First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.RiderID != userId && booking.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}
		if target != models.BookingStatusCancelled && booking.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Only the owner can perform this update"})
			return
		}

		if err := rental.Transition(booking.Status, target); err != nil {
			respondRentalError(c, err)
			return
		}

		previous := booking.Status
		booking.Status = target
		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		// The counterpart of whoever acted hears about the move
		recipientID := booking.RiderID
		if userId == booking.RiderID {
			recipientID = booking.OwnerID
		}

		var recipient models.User
		if err := db.First(&recipient, recipientID).Error; err == nil {
			if previous == models.BookingStatusPending {
				dispatch.BookingDecided(&booking, &booking.Scooty, &recipient)
			} else {
				dispatch.StatusChanged(&booking, &recipient)
			}
		} else {
			log.Printf("Booking %d updated but recipient %d not found", booking.ID, recipientID)
		}

		c.JSON(200, booking)
	}
}

// GetBookingDetail retrieves one booking for either of its parties.
func GetBookingDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.Preload("Scooty").Preload("Rider").First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.RiderID != userId && booking.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		c.JSON(200, gin.H{
			"id":          booking.ID,
			"status":      booking.Status,
			"amount":      booking.Amount,
			"startTime":   booking.StartTime,
			"endTime":     booking.EndTime,
			"scootyModel": booking.Scooty.ScootyModel,
			"plateNumber": booking.Scooty.PlateNumber,
			"location":    booking.Scooty.Location,
			"riderName":   booking.Rider.Username,
			"riderEmail":  booking.Rider.Email,
			"riderPhone":  booking.Rider.PhoneNumber,
		})
	}
}

// GetRiderBookings retrieves all bookings made by the current rider
func GetRiderBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("rider_id = ?", userId).
			Preload("Scooty").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetOwnerBookings retrieves all bookings against the current owner's fleet
func GetOwnerBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("owner_id = ?", userId).
			Preload("Scooty").
			Preload("Rider").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}
