package models

// Task is a named work item referenced by sessions. Names are unique by
// lookup-before-insert in the store, not by a table constraint.
type Task struct {
	ID            uint      `gorm:"primarykey" json:"id,omitempty"`
	Name          string    `gorm:"index;not null" json:"name"`
	CreatedAt     Timestamp `gorm:"index;autoCreateTime:false" json:"createdAt"`
	LastUsed      Timestamp `gorm:"index" json:"lastUsed"`
	TotalSessions int       `gorm:"index;not null;default:0" json:"totalSessions"`
}
