package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WeekdaySet is a set of weekday names ("Monday".."Sunday") stored as jsonb.
type WeekdaySet []string

// Value implements driver.Valuer
func (d WeekdaySet) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal([]string(d))
}

// Scan implements sql.Scanner
func (d *WeekdaySet) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal weekday set:", value))
	}

	var result []string
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*d = WeekdaySet(result)
	return nil
}

// Contains reports whether the given weekday is part of the set.
func (d WeekdaySet) Contains(day time.Weekday) bool {
	name := day.String()
	for _, v := range d {
		if v == name {
			return true
		}
	}
	return false
}

// ValidWeekday reports whether name is a recognized weekday name.
func ValidWeekday(name string) bool {
	switch name {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}

// WorkingHours is the per-doctor availability configuration consumed by the
// booking engine. One row per doctor. When Available is false the doctor
// yields no bookable slots regardless of Days.
type WorkingHours struct {
	DoctorID  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	Days      WeekdaySet `gorm:"type:jsonb;not null" json:"days"`
	StartTime string     `gorm:"type:varchar(5);not null" json:"start_time"` // HH:MM
	EndTime   string     `gorm:"type:varchar(5);not null" json:"end_time"`   // HH:MM
	Available bool       `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (WorkingHours) TableName() string {
	return "working_hours"
}
