package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Submission is one household's reported usage with its derived footprint.
type Submission struct {
	ID                snowflake.ID                `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name              string                      `gorm:"not null" json:"name"`
	Email             string                      `gorm:"not null" json:"email"`
	EnergyUsage       float64                     `gorm:"not null" json:"energy_usage"`
	WaterUsage        float64                     `gorm:"not null" json:"water_usage"`
	TransportDistance float64                     `gorm:"not null" json:"transport_distance"`
	CO2Total          float64                     `gorm:"column:co2_total;not null" json:"co2_total"`
	Recommendations   datatypes.JSONSlice[string] `gorm:"not null" json:"recommendations"`
	Policy            string                      `gorm:"type:varchar(64);not null;default:'standard'" json:"policy"`
	CreatedAt         time.Time                   `gorm:"not null;index" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Summary aggregates every stored submission at request time.
type Summary struct {
	TotalCount int         `json:"total_count"`
	TotalCO2   float64     `json:"total_co2"`
	AverageCO2 float64     `json:"average_co2"`
	Lowest     *Submission `json:"lowest,omitempty"`
}
