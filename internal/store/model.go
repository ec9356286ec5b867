package store

import (
	"time"

	"gorm.io/datatypes"
)

// LoadoutRecord is the persisted loadout of one player. Rows and inventory
// are stored as JSON documents.
type LoadoutRecord struct {
	ID        uint           `gorm:"primarykey"`
	PlayerID  string         `gorm:"uniqueIndex;size:64;not null"`
	Main      datatypes.JSON `json:"main"`
	Swap      datatypes.JSON `json:"swap"`
	Inventory datatypes.JSON `json:"inventory"`
	Wave      int            `json:"wave"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements gorm's tabler.
func (LoadoutRecord) TableName() string {
	return "loadouts"
}
