package models

import (
	"gorm.io/gorm"
)

type FuelType string

const (
	FuelTypePetrol   FuelType = "petrol"
	FuelTypeElectric FuelType = "electric"
	FuelTypeCNG      FuelType = "cng"
)

// ValidFuelType reports whether s is one of the supported fuel types.
func ValidFuelType(s string) bool {
	switch FuelType(s) {
	case FuelTypePetrol, FuelTypeElectric, FuelTypeCNG:
		return true
	}
	return false
}

type Scooty struct {
	gorm.Model
	OwnerID     uint     `json:"ownerId" gorm:"not null;index"`
	Owner       User     `json:"-"`
	ScootyModel string   `json:"model" gorm:"column:scooty_model;not null"`
	PlateNumber string   `json:"plateNumber" gorm:"column:plate_number;unique;not null"`
	HourlyRate  float64  `json:"hourlyRate" gorm:"column:hourly_rate;not null"`
	Location    string   `json:"location" gorm:"not null"`
	FuelType    FuelType `json:"fuelType" gorm:"column:fuel_type;not null"`
	Available   bool     `json:"available" gorm:"not null;default:true"`
}

func (Scooty) TableName() string {
	return "scooties"
}
