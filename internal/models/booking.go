package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	gorm.Model
	ScootyID  uint          `json:"scootyId" gorm:"not null;index"`
	Scooty    Scooty        `json:"scooty"`
	RiderID   uint          `json:"riderId" gorm:"not null;index"`
	Rider     User          `json:"rider"`
	OwnerID   uint          `json:"ownerId" gorm:"not null;index"`
	StartTime time.Time     `json:"startTime" gorm:"not null"`
	EndTime   time.Time     `json:"endTime" gorm:"not null"`
	Amount    float64       `json:"amount" gorm:"not null"`
	Status    BookingStatus `json:"status" gorm:"not null;default:'pending'"`
}

func (Booking) TableName() string {
	return "bookings"
}
