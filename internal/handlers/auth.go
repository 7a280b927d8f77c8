package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/priyank071/scooty-rental/internal/models"
	"github.com/priyank071/scooty-rental/pkg/utils"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	UserType string `json:"userType" binding:"required,oneof=rider owner"`

	// Owner applications only
	BusinessAddress string `json:"businessAddress"`
	FleetSize       int    `json:"fleetSize"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a rider or fleet owner account. Owners additionally file
// an application that an admin must approve before they can list scooties.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.UserType == string(models.UserTypeOwner) && input.BusinessAddress == "" {
			c.JSON(400, gin.H{"error": "Business address is required for owner registration"})
			return
		}

		// Hash the password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hashedPassword),
			PhoneNumber:  input.Phone,
			UserType:     models.UserType(input.UserType),
			Status:       models.UserStatusActive,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if result := tx.Create(&user); result.Error != nil {
				return result.Error
			}

			if result := tx.Create(models.DefaultPreferences(user.ID)); result.Error != nil {
				return result.Error
			}

			if user.UserType == models.UserTypeOwner {
				application := models.OwnerApplication{
					UserID:          user.ID,
					BusinessAddress: input.BusinessAddress,
					FleetSize:       input.FleetSize,
					Status:          models.ApplicationStatusPending,
				}
				if result := tx.Create(&application); result.Error != nil {
					return result.Error
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to create user: " + err.Error()})
			return
		}

		c.JSON(201, gin.H{
			"message": "User created successfully",
			"user": gin.H{
				"id":          user.ID,
				"email":       user.Email,
				"username":    user.Username,
				"phoneNumber": user.PhoneNumber,
				"userType":    user.UserType,
			},
			"requiresApproval": user.UserType == models.UserTypeOwner,
		})
	}
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if user.IsBlocked() {
			c.JSON(403, gin.H{"error": "Account is blocked. Contact support."})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":            user.ID,
				"email":         user.Email,
				"username":      user.Username,
				"phoneNumber":   user.PhoneNumber,
				"userType":      user.UserType,
				"ownerApproved": user.OwnerApproved,
			},
		})
	}
}
