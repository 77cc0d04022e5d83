package domain

import (
	"time"
)

// Room is a lettable unit in a managed property. Only the occupancy
// bookkeeping matters to this core; room CRUD lives elsewhere.
type Room struct {
	ID        string    `bson:"_id" json:"id"`
	OrgID     string    `bson:"org_id" json:"org_id"`
	Number    string    `bson:"number" json:"number"`
	Capacity  int       `bson:"capacity" json:"capacity"`
	Occupied  int       `bson:"occupied" json:"occupied"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasVacancy reports whether another tenant can be assigned.
func (r *Room) HasVacancy() bool {
	return r.Occupied < r.Capacity
}
