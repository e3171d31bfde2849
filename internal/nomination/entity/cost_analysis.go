package entity

import "time"

// CostComponent 成本竞争力分析的成本项（每个提名一组，如"单价"、"模具费"、"交期"）
type CostComponent struct {
	ID           string   `json:"id" gorm:"primaryKey;size:32"`
	NominationID string   `json:"nomination_id" gorm:"size:32;not null;index"`
	Name         string   `json:"name" gorm:"size:100;not null"`
	Type         string   `json:"type" gorm:"size:20;default:other"` // cost/development_cost/lead_time/other
	BaseValue    *float64 `json:"base_value" gorm:"type:decimal(15,4)"`
	PaymentTerm  string   `json:"payment_term" gorm:"size:100"`
	DisplayOrder int      `json:"display_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	VendorValues []VendorCostValue `json:"vendor_values,omitempty" gorm:"foreignKey:ComponentID"`
}

func (CostComponent) TableName() string {
	return "nomination_cost_components"
}

// 成本项类型（排名计算按类型汇总）
const (
	CostComponentTypeCost            = "cost"
	CostComponentTypeDevelopmentCost = "development_cost"
	CostComponentTypeLeadTime        = "lead_time"
	CostComponentTypeOther           = "other"
)

// VendorCostValue 成本项下每个候选供应商的报价值
type VendorCostValue struct {
	ID           string   `json:"id" gorm:"primaryKey;size:32"`
	ComponentID  string   `json:"component_id" gorm:"size:32;not null;index"`
	SupplierID   string   `json:"supplier_id" gorm:"size:32;not null;index"`
	NumericValue *float64 `json:"numeric_value" gorm:"type:decimal(15,4)"`
	TextValue    string   `json:"text_value" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VendorCostValue) TableName() string {
	return "nomination_vendor_cost_values"
}
