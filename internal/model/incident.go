package model

import (
	"time"

	"gorm.io/gorm"
)

// Severity of an incident, as reported by dispatch.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// IncidentState represents the current state of an incident
type IncidentState int

const (
	IncidentStateActive IncidentState = iota
	IncidentStateResolved
)

// Incident is the unified model for the incident entity (used in memory and
// converted for PostgreSQL and Redis)
type Incident struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Severity Severity      `json:"severity"`
	Lat      float64       `json:"lat"`
	Lng      float64       `json:"lng"`
	Address  string        `json:"address"`
	State    IncidentState `json:"state"`

	UpdatedAt time.Time      `json:"updated_at"`
	CreatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

// Position returns the incident site as a LatLng.
func (i *Incident) Position() LatLng {
	return LatLng{Lat: i.Lat, Lng: i.Lng}
}

// IncidentPG is the GORM model for the incident entity
type IncidentPG struct {
	ID       string        `gorm:"primaryKey"`
	Name     string        `gorm:"size:255;not null"`
	Severity string        `gorm:"size:16;not null"`
	Lat      float64       `gorm:"not null"`
	Lng      float64       `gorm:"not null"`
	Address  string        `gorm:"size:512"`
	State    IncidentState `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the GORM table name for IncidentPG.
func (IncidentPG) TableName() string { return "incidents" }

// IncidentRedis is the lighter incident representation stored in Redis.
// Timestamps are unix seconds to keep the payload compact.
type IncidentRedis struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Severity  string  `json:"severity"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	State     int     `json:"state"`
	UpdatedAt int64   `json:"updated_at"`
}

// ToPG converts an incident to its PostgreSQL model
func (i *Incident) ToPG() *IncidentPG {
	return &IncidentPG{
		ID:        i.ID,
		Name:      i.Name,
		Severity:  string(i.Severity),
		Lat:       i.Lat,
		Lng:       i.Lng,
		Address:   i.Address,
		State:     i.State,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
		DeletedAt: i.DeletedAt,
	}
}

// IncidentFromPG creates an Incident from its PostgreSQL model
func IncidentFromPG(pg *IncidentPG) *Incident {
	return &Incident{
		ID:        pg.ID,
		Name:      pg.Name,
		Severity:  Severity(pg.Severity),
		Lat:       pg.Lat,
		Lng:       pg.Lng,
		Address:   pg.Address,
		State:     pg.State,
		CreatedAt: pg.CreatedAt,
		UpdatedAt: pg.UpdatedAt,
		DeletedAt: pg.DeletedAt,
	}
}

// ToRedis converts an incident to its Redis model
func (i *Incident) ToRedis() *IncidentRedis {
	return &IncidentRedis{
		ID:        i.ID,
		Name:      i.Name,
		Severity:  string(i.Severity),
		Lat:       i.Lat,
		Lng:       i.Lng,
		State:     int(i.State),
		UpdatedAt: i.UpdatedAt.Unix(),
	}
}

// IncidentFromRedis creates an Incident from its Redis model
func IncidentFromRedis(r *IncidentRedis) *Incident {
	return &Incident{
		ID:        r.ID,
		Name:      r.Name,
		Severity:  Severity(r.Severity),
		Lat:       r.Lat,
		Lng:       r.Lng,
		State:     IncidentState(r.State),
		UpdatedAt: time.Unix(r.UpdatedAt, 0),
	}
}
