package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeRider UserType = "rider"
	UserTypeOwner UserType = "owner"
	UserTypeAdmin UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	gorm.Model
	Username     string     `json:"username" gorm:"column:username;unique;not null"`
	Email        string     `json:"email" gorm:"column:email;unique;not null"`
	Password     string     `json:"-" gorm:"-"` // Temporary field for password handling
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string     `json:"phoneNumber" gorm:"column:phone_number"`
	UserType     UserType   `json:"userType" gorm:"column:user_type;not null"`
	Status       UserStatus `json:"status" gorm:"column:status;not null;default:'active'"`
	// Owners cannot list scooties until an admin approves their application
	OwnerApproved bool `json:"ownerApproved" gorm:"column:owner_approved;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}
