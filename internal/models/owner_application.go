package models

import (
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// OwnerApplication is filed when a user registers as a fleet owner and is
// reviewed by an admin before the owner may list scooties.
type OwnerApplication struct {
	gorm.Model
	UserID          uint              `json:"userId" gorm:"uniqueIndex;not null"`
	User            User              `json:"user"`
	BusinessAddress string            `json:"businessAddress" gorm:"not null"`
	FleetSize       int               `json:"fleetSize" gorm:"not null;default:0"`
	Status          ApplicationStatus `json:"status" gorm:"not null;default:'pending'"`
}

func (OwnerApplication) TableName() string {
	return "owner_applications"
}
