package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/priyank071/scooty-rental/internal/models"
	"github.com/priyank071/scooty-rental/internal/services"
)

// GetPendingOwnerApplications lists owner applications awaiting review.
func GetPendingOwnerApplications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var applications []models.OwnerApplication
		if err := db.Where("status = ?", models.ApplicationStatusPending).
			Preload("User").
			Order("created_at").
			Find(&applications).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch applications"})
			return
		}

		c.JSON(200, gin.H{
			"applications": applications,
			"total":        len(applications),
		})
	}
}

// ApproveOwnerApplication accepts a pending application and unlocks scooty
// registration for the owner.
func ApproveOwnerApplication(db *gorm.DB, dispatch *services.Dispatcher) gin.HandlerFunc {
	return reviewOwnerApplication(db, dispatch, true)
}

// RejectOwnerApplication declines a pending application.
func RejectOwnerApplication(db *gorm.DB, dispatch *services.Dispatcher) gin.HandlerFunc {
	return reviewOwnerApplication(db, dispatch, false)
}

func reviewOwnerApplication(db *gorm.DB, dispatch *services.Dispatcher, approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		applicationId := c.Param("id")

		var application models.OwnerApplication
		if err := db.Preload("User").First(&application, applicationId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Application not found"})
			return
		}
		if application.Status != models.ApplicationStatusPending {
			c.JSON(409, gin.H{"error": "Application has already been reviewed"})
			return
		}

		newStatus := models.ApplicationStatusApproved
		if !approve {
			newStatus = models.ApplicationStatusRejected
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&application).Update("status", newStatus).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).
				Where("id = ?", application.UserID).
				Update("owner_approved", approve).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to update application"})
			return
		}

		dispatch.OwnerDecision(&application.User, approve)

		application.Status = newStatus
		c.JSON(200, application)
	}
}

// BroadcastAnnouncement sends a platform announcement to every rider and
// owner, or to one role, as notification rows plus a websocket frame.
func BroadcastAnnouncement(db *gorm.DB, dispatch *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title    string `json:"title" binding:"required"`
			Message  string `json:"message" binding:"required"`
			Audience string `json:"audience" binding:"omitempty,oneof=all rider owner"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.Audience == "" {
			input.Audience = "all"
		}

		query := db.Where("user_type <> ?", models.UserTypeAdmin)
		if input.Audience != "all" {
			query = db.Where("user_type = ?", input.Audience)
		}

		var users []models.User
		if err := query.Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch recipients"})
			return
		}
		if len(users) == 0 {
			c.JSON(400, gin.H{"error": "No recipients in audience"})
			return
		}

		created := dispatch.Announcement(users, input.Title, input.Message, input.Audience)

		c.JSON(200, gin.H{
			"message":    "Announcement sent",
			"audience":   input.Audience,
			"recipients": created,
		})
	}
}

// GetPlatformStats returns the admin overview counters.
func GetPlatformStats(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalRiders, totalOwners, totalFleet, activeBookings, totalBookings, cancelledBookings int64

		db.Model(&models.User{}).Where("user_type = ?", models.UserTypeRider).Count(&totalRiders)
		db.Model(&models.User{}).Where("user_type = ?", models.UserTypeOwner).Count(&totalOwners)
		db.Model(&models.Scooty{}).Count(&totalFleet)
		db.Model(&models.Booking{}).
			Where("status IN ?", []models.BookingStatus{
				models.BookingStatusPending,
				models.BookingStatusConfirmed,
				models.BookingStatusOngoing,
			}).
			Count(&activeBookings)
		db.Model(&models.Booking{}).Count(&totalBookings)
		db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCancelled).Count(&cancelledBookings)

		cancellationRate := 0.0
		if totalBookings > 0 {
			cancellationRate = float64(cancelledBookings) / float64(totalBookings) * 100
		}

		c.JSON(200, gin.H{
			"totalUsers":       totalRiders,
			"totalOwners":      totalOwners,
			"totalFleet":       totalFleet,
			"activeBookings":   activeBookings,
			"totalBookings":    totalBookings,
			"cancellationRate": cancellationRate,
			"connectedClients": hub.GetConnectedClients(),
		})
	}
}

// GetUsers lists rider and owner accounts for the admin panel.
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Where("user_type <> ?", models.UserTypeAdmin).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(200, gin.H{
			"users": users,
			"total": len(users),
		})
	}
}

// UpdateUserStatus blocks or unblocks an account.
func UpdateUserStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetId := c.Param("id")

		var input struct {
			Status string `json:"status" binding:"required,oneof=active blocked"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, targetId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		if user.UserType == models.UserTypeAdmin {
			c.JSON(403, gin.H{"error": "Cannot change another admin's status"})
			return
		}

		user.Status = models.UserStatus(input.Status)
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update user status"})
			return
		}

		c.JSON(200, user)
	}
}
