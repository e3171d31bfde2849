package entity

import "time"

// SupplierRanking 供应商综合排名（计算结果落库，按overall_rank升序读取）
type SupplierRanking struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	NominationID string `json:"nomination_id" gorm:"size:32;not null;index"`
	SupplierID   string `json:"supplier_id" gorm:"size:32;not null"`
	SupplierName string `json:"supplier_name" gorm:"size:200"`

	// 各因子排名（1为最优）
	CostRank            int `json:"cost_rank" gorm:"default:0"`
	DevelopmentCostRank int `json:"development_cost_rank" gorm:"default:0"`
	LeadTimeRank        int `json:"lead_time_rank" gorm:"default:0"`

	// 加权总分与综合排名
	TotalScore  float64 `json:"total_score" gorm:"type:decimal(8,2);default:0"`
	OverallRank int     `json:"overall_rank" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (SupplierRanking) TableName() string {
	return "nomination_supplier_rankings"
}
