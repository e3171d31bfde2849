package entity

import "time"

// Supplier 供应商
type Supplier struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	Code      string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name      string `json:"name" gorm:"size:200;not null"`
	ShortName string `json:"short_name" gorm:"size:50"`
	Type      string `json:"type" gorm:"size:20;default:manufacturer"` // oem/manufacturer/hybrid
	Status    string `json:"status" gorm:"size:20;default:pending"`    // pending/active/disabled

	// 基本信息
	Country string `json:"country" gorm:"size:50"`
	City    string `json:"city" gorm:"size:50"`
	Address string `json:"address" gorm:"size:500"`
	Website string `json:"website" gorm:"size:200"`

	// 联系方式
	ContactName  string `json:"contact_name" gorm:"size:100"`
	ContactEmail string `json:"contact_email" gorm:"size:200"`
	ContactPhone string `json:"contact_phone" gorm:"size:50"`

	// 商务信息
	PaymentTerms string `json:"payment_terms" gorm:"size:100"`
	LeadTimeDays *int   `json:"lead_time_days"`
	Notes        string `json:"notes" gorm:"type:text"`

	// 管理信息
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// 供应商类型
const (
	SupplierTypeOEM          = "oem"
	SupplierTypeManufacturer = "manufacturer"
	SupplierTypeHybrid       = "hybrid"
)

// 供应商状态
const (
	SupplierStatusPending  = "pending"
	SupplierStatusActive   = "active"
	SupplierStatusDisabled = "disabled"
)
