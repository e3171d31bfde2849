package entity

import "time"

// CapabilityScore 供应商能力评分（按提名+供应商维度一组）
type CapabilityScore struct {
	ID           string   `json:"id" gorm:"primaryKey;size:32"`
	NominationID string   `json:"nomination_id" gorm:"size:32;not null;index:idx_cap_nom_vendor"`
	SupplierID   string   `json:"supplier_id" gorm:"size:32;not null;index:idx_cap_nom_vendor"`
	Category     string   `json:"category" gorm:"size:50"`
	Aspect       string   `json:"aspect" gorm:"size:300"`
	Score        *float64 `json:"score" gorm:"type:decimal(8,2)"`
	MaxScore     float64  `json:"max_score" gorm:"type:decimal(8,2);default:10"`
	SortOrder    int      `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CapabilityScore) TableName() string {
	return "nomination_capability_scores"
}

// AssessmentCriterion 供应商考核矩阵行（含风险子项与不符合项计数）
type AssessmentCriterion struct {
	ID           string   `json:"id" gorm:"primaryKey;size:32"`
	NominationID string   `json:"nomination_id" gorm:"size:32;not null;index:idx_assess_nom_vendor"`
	SupplierID   string   `json:"supplier_id" gorm:"size:32;not null;index:idx_assess_nom_vendor"`
	Category     string   `json:"category" gorm:"size:50"`
	Aspect       string   `json:"aspect" gorm:"size:300"`
	ActualScore  *float64 `json:"actual_score" gorm:"type:decimal(8,2)"`
	TotalScore   float64  `json:"total_score" gorm:"type:decimal(8,2);default:10"`
	RiskScore    *float64 `json:"risk_score" gorm:"type:decimal(8,2)"`
	MinorNC      int      `json:"minor_nc" gorm:"default:0"`
	MajorNC      int      `json:"major_nc" gorm:"default:0"`
	SortOrder    int      `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AssessmentCriterion) TableName() string {
	return "nomination_assessment_criteria"
}

// RatingMatrixItem 供应商评级矩阵行
type RatingMatrixItem struct {
	ID           string   `json:"id" gorm:"primaryKey;size:32"`
	NominationID string   `json:"nomination_id" gorm:"size:32;not null;index:idx_rating_nom_vendor"`
	SupplierID   string   `json:"supplier_id" gorm:"size:32;not null;index:idx_rating_nom_vendor"`
	Category     string   `json:"category" gorm:"size:50"`
	Aspect       string   `json:"aspect" gorm:"size:300"`
	ActualScore  *float64 `json:"actual_score" gorm:"type:decimal(8,2)"`
	TotalScore   float64  `json:"total_score" gorm:"type:decimal(8,2);default:10"`
	MinorNC      int      `json:"minor_nc" gorm:"default:0"`
	MajorNC      int      `json:"major_nc" gorm:"default:0"`
	SortOrder    int      `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RatingMatrixItem) TableName() string {
	return "nomination_rating_matrix_items"
}
