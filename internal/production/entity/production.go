package entity

import "time"

// ProductionLot 生产批次
type ProductionLot struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	LotNumber  string     `json:"lot_number" gorm:"size:64;not null;uniqueIndex"`
	PartNumber string     `json:"part_number" gorm:"size:64"`
	PartName   string     `json:"part_name" gorm:"size:200"`
	Quantity   float64    `json:"quantity" gorm:"type:decimal(15,4);default:0"`
	Status     string     `json:"status" gorm:"size:20;default:planned"` // planned/in_progress/completed/closed
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	CreatedBy  string     `json:"created_by" gorm:"size:32;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Entries []ProductionEntry `json:"entries,omitempty" gorm:"foreignKey:LotID"`
}

func (ProductionLot) TableName() string {
	return "production_lots"
}

// 生产批次状态
const (
	LotStatusPlanned    = "planned"
	LotStatusInProgress = "in_progress"
	LotStatusCompleted  = "completed"
	LotStatusClosed     = "closed"
)

// ProductionEntry 每日生产记录，(lot, process, date, shift) 唯一
type ProductionEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	LotID     string    `json:"lot_id" gorm:"size:32;not null;index:idx_entry_tuple"`
	ProcessID string    `json:"process_id" gorm:"size:32;index:idx_entry_tuple"`
	EntryDate time.Time `json:"entry_date" gorm:"type:date;not null;index:idx_entry_tuple"`
	Shift     string    `json:"shift" gorm:"size:16;not null;index:idx_entry_tuple"` // morning/afternoon/night

	TargetQty       float64 `json:"target_qty" gorm:"type:decimal(15,4);default:0"`
	ProducedQty     float64 `json:"produced_qty" gorm:"type:decimal(15,4);default:0"`
	RejectedQty     float64 `json:"rejected_qty" gorm:"type:decimal(15,4);default:0"`
	ReworkQty       float64 `json:"rework_qty" gorm:"type:decimal(15,4);default:0"`
	DowntimeMinutes float64 `json:"downtime_minutes" gorm:"type:decimal(12,2);default:0"`
	Notes           string  `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductionEntry) TableName() string {
	return "production_entries"
}

// 班次
const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
)
