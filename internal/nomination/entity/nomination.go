package entity

import "time"

// Nomination 供应商提名
type Nomination struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Type        string `json:"type" gorm:"size:20;default:manufacturer"` // oem/manufacturer/hybrid
	Status      string `json:"status" gorm:"size:20;default:draft"`      // draft/in_progress/completed/approved/rejected
	ProjectID   string `json:"project_id" gorm:"size:32;index"`
	UserID      string `json:"user_id" gorm:"size:32;not null;index"`

	// 排名因子权重（三项之和必须为100）
	CostFactor            float64 `json:"cost_factor" gorm:"type:decimal(5,2);default:40"`
	DevelopmentCostFactor float64 `json:"development_cost_factor" gorm:"type:decimal(5,2);default:30"`
	LeadTimeFactor        float64 `json:"lead_time_factor" gorm:"type:decimal(5,2);default:30"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Criteria    []NominationCriterion `json:"criteria,omitempty" gorm:"foreignKey:NominationID"`
	Evaluations []VendorEvaluation    `json:"evaluations,omitempty" gorm:"foreignKey:NominationID"`
	BOMParts    []NominationBOMPart   `json:"bom_parts,omitempty" gorm:"foreignKey:NominationID"`
}

func (Nomination) TableName() string {
	return "supplier_nominations"
}

// 提名类型
const (
	NominationTypeOEM          = "oem"
	NominationTypeManufacturer = "manufacturer"
	NominationTypeHybrid       = "hybrid"
)

// 提名状态
const (
	NominationStatusDraft      = "draft"
	NominationStatusInProgress = "in_progress"
	NominationStatusCompleted  = "completed"
	NominationStatusApproved   = "approved"
	NominationStatusRejected   = "rejected"
)

// NominationCriterion 提名评审指标
type NominationCriterion struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	NominationID string  `json:"nomination_id" gorm:"size:32;not null;index"`
	Name         string  `json:"name" gorm:"size:200;not null"`
	Category     string  `json:"category" gorm:"size:50"`
	WeightPct    float64 `json:"weight_pct" gorm:"type:decimal(5,2);default:0"` // 0-100
	MaxScore     float64 `json:"max_score" gorm:"type:decimal(5,2);default:10"`
	IsMandatory  bool    `json:"is_mandatory" gorm:"default:false"`
	DisplayOrder int     `json:"display_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NominationCriterion) TableName() string {
	return "nomination_evaluation_criteria"
}

// NominationBOMPart 提名关联的BOM物料
type NominationBOMPart struct {
	ID           string   `json:"id" gorm:"primaryKey;size:32"`
	NominationID string   `json:"nomination_id" gorm:"size:32;not null;index"`
	PartNumber   string   `json:"part_number" gorm:"size:64"`
	Name         string   `json:"name" gorm:"size:200;not null"`
	Quantity     float64  `json:"quantity" gorm:"type:decimal(15,4);default:1"`
	Unit         string   `json:"unit" gorm:"size:16;default:pcs"`
	TargetPrice  *float64 `json:"target_price" gorm:"type:decimal(15,4)"`
	Notes        string   `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Vendors []NominationBOMPartVendor `json:"vendors,omitempty" gorm:"foreignKey:PartID"`
}

func (NominationBOMPart) TableName() string {
	return "nomination_bom_parts"
}

// NominationBOMPartVendor BOM物料与候选供应商的关联
type NominationBOMPartVendor struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	PartID     string    `json:"part_id" gorm:"size:32;not null;index"`
	SupplierID string    `json:"supplier_id" gorm:"size:32;not null;index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (NominationBOMPartVendor) TableName() string {
	return "nomination_bom_part_vendors"
}
