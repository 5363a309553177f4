package po

import "time"

// BaseModel carries the shared surrogate key and audit timestamps.
type BaseModel struct {
	Id        uint      `gorm:"column:id;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}
