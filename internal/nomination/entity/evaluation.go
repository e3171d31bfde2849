package entity

import "time"

// VendorEvaluation 候选供应商评估
type VendorEvaluation struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	NominationID string `json:"nomination_id" gorm:"size:32;not null;index"`
	SupplierID   string `json:"supplier_id" gorm:"size:32;not null;index"`
	VendorType   string `json:"vendor_type" gorm:"size:20"`

	// 评估结论
	Recommendation string `json:"recommendation" gorm:"size:20;default:pending"` // pending/recommended/conditional/rejected
	RiskLevel      string `json:"risk_level" gorm:"size:10;default:medium"`      // low/medium/high

	// 风险与不符合项
	RiskMitigationPct *float64 `json:"risk_mitigation_pct" gorm:"type:decimal(5,2)"`
	MinorNCCount      int      `json:"minor_nc_count" gorm:"default:0"`
	MajorNCCount      int      `json:"major_nc_count" gorm:"default:0"`

	// 综合指标
	CapabilityPct *float64 `json:"capability_pct" gorm:"type:decimal(5,2)"`
	OverallScore  *float64 `json:"overall_score" gorm:"type:decimal(8,2)"`
	OverallRank   *int     `json:"overall_rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Scores []EvaluationScore `json:"scores,omitempty" gorm:"foreignKey:EvaluationID"`

	// 展示用供应商名称（聚合装配时填充，不落库）
	SupplierName string `json:"supplier_name,omitempty" gorm:"-"`
}

func (VendorEvaluation) TableName() string {
	return "vendor_nomination_evaluations"
}

// 评估结论
const (
	RecommendationPending     = "pending"
	RecommendationRecommended = "recommended"
	RecommendationConditional = "conditional"
	RecommendationRejected    = "rejected"
)

// 风险等级
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// EvaluationScore 单项指标得分
// WeightedScore 在写入时由 score × criterion.weight_pct / 100 计算，读取时不再重算
type EvaluationScore struct {
	ID            string  `json:"id" gorm:"primaryKey;size:32"`
	EvaluationID  string  `json:"evaluation_id" gorm:"size:32;not null;index"`
	CriterionID   string  `json:"criterion_id" gorm:"size:32;not null;index"`
	Score         float64 `json:"score" gorm:"type:decimal(8,2);default:0"`
	MaxScore      float64 `json:"max_score" gorm:"type:decimal(8,2);default:10"`
	WeightedScore float64 `json:"weighted_score" gorm:"type:decimal(8,2);default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (EvaluationScore) TableName() string {
	return "vendor_evaluation_scores"
}
