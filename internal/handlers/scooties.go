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

// RegisterScooty adds a scooty to an approved owner's fleet. New units start
// out available.
func RegisterScooty(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var owner models.User
		if err := db.First(&owner, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		if owner.UserType != models.UserTypeOwner {
			c.JSON(403, gin.H{"error": "Only fleet owners can register scooties"})
			return
		}
		if !owner.OwnerApproved {
			c.JSON(403, gin.H{"error": "Owner application not yet approved"})
			return
		}

		var input struct {
			Model       string  `json:"model"`
			PlateNumber string  `json:"plateNumber"`
			HourlyRate  float64 `json:"hourlyRate"`
			Location    string  `json:"location"`
			FuelType    string  `json:"fuelType"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := rental.ValidateScootyInput(input.Model, input.PlateNumber, input.Location, input.FuelType, input.HourlyRate); err != nil {
			respondRentalError(c, err)
			return
		}
		if !models.ValidFuelType(input.FuelType) {
			c.JSON(400, gin.H{"error": "Fuel type must be petrol, electric or cng"})
			return
		}

		scooty := models.Scooty{
			OwnerID:     userId,
			ScootyModel: input.Model,
			PlateNumber: input.PlateNumber,
			HourlyRate:  input.HourlyRate,
			Location:    input.Location,
			FuelType:    models.FuelType(input.FuelType),
			Available:   true,
		}

		if err := db.Create(&scooty).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to register scooty"})
			return
		}

		if err := services.SetScootyAvailability(context.Background(), scooty.ID, true); err != nil {
			log.Printf("Failed to cache availability for scooty %d: %v", scooty.ID, err)
		}

		c.JSON(201, scooty)
	}
}

// ToggleAvailability flips a scooty's bookable flag. In-flight bookings are
// untouched; toggling off only gates new requests.
func ToggleAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		scootyId := c.Param("id")

		var scooty models.Scooty
		if err := db.First(&scooty, scootyId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Scooty not found"})
			return
		}
		if scooty.OwnerID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		scooty.Available = !scooty.Available
		if err := db.Save(&scooty).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update availability"})
			return
		}

		if err := services.SetScootyAvailability(context.Background(), scooty.ID, scooty.Available); err != nil {
			log.Printf("Failed to cache availability for scooty %d: %v", scooty.ID, err)
		}

		c.JSON(200, scooty)
	}
}

// ListAvailableScooties returns bookable scooties, optionally narrowed by a
// case-insensitive substring search over model and location.
func ListAvailableScooties(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")

		var scooties []models.Scooty
		if err := db.Where("available = ?", true).Order("id").Find(&scooties).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch scooties"})
			return
		}

		filtered := make([]models.Scooty, 0, len(scooties))
		for _, s := range scooties {
			if rental.MatchesSearch(s.ScootyModel, s.Location, search) {
				filtered = append(filtered, s)
			}
		}

		c.JSON(200, gin.H{
			"scooties": filtered,
			"total":    len(filtered),
		})
	}
}

// GetOwnerFleet lists the owner's scooties with per-unit booking counts and
// completed-rental earnings.
func GetOwnerFleet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var scooties []models.Scooty
		if err := db.Where("owner_id = ?", userId).Order("id").Find(&scooties).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fleet"})
			return
		}

		type fleetEntry struct {
			models.Scooty
			TotalBookings int64   `json:"totalBookings"`
			Earnings      float64 `json:"earnings"`
		}

		fleet := make([]fleetEntry, 0, len(scooties))
		var totalEarnings float64
		var totalBookings int64

		for _, s := range scooties {
			var count int64
			db.Model(&models.Booking{}).Where("scooty_id = ?", s.ID).Count(&count)

			var earnings float64
			db.Model(&models.Booking{}).
				Where("scooty_id = ? AND status = ?", s.ID, models.BookingStatusCompleted).
				Select("COALESCE(SUM(amount), 0)").Scan(&earnings)

			fleet = append(fleet, fleetEntry{Scooty: s, TotalBookings: count, Earnings: earnings})
			totalEarnings += earnings
			totalBookings += count
		}

		c.JSON(200, gin.H{
			"fleet":         fleet,
			"totalBookings": totalBookings,
			"totalEarnings": totalEarnings,
		})
	}
}
