package entity

import "time"

// ProcessRoute 工艺路线，汇总字段由步骤全量重算得出
type ProcessRoute struct {
	ID            string `json:"id" gorm:"primaryKey;size:32"`
	BOMItemID     string `json:"bom_item_id" gorm:"size:32;index"`
	Name          string `json:"name" gorm:"size:200;not null"`
	Description   string `json:"description" gorm:"type:text"`
	WorkflowState string `json:"workflow_state" gorm:"size:20;default:draft"` // draft/in_review/approved/active/archived
	Priority      string `json:"priority" gorm:"size:10;default:medium"`      // low/medium/high
	AssignedTo    string `json:"assigned_to" gorm:"size:32"`
	AssignedRole  string `json:"assigned_role" gorm:"size:50"`
	CreatedBy     string `json:"created_by" gorm:"size:32;index"`

	// 汇总字段（每次步骤变更后全量重算）
	TotalSetupTime float64 `json:"total_setup_time" gorm:"type:decimal(12,2);default:0"` // 分钟
	TotalCycleTime float64 `json:"total_cycle_time" gorm:"type:decimal(12,2);default:0"` // 分钟
	TotalCost      float64 `json:"total_cost" gorm:"type:decimal(15,4);default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Steps []ProcessRouteStep `json:"steps,omitempty" gorm:"foreignKey:RouteID"`
}

func (ProcessRoute) TableName() string {
	return "process_routes"
}

// 工艺路线状态
const (
	RouteStateDraft    = "draft"
	RouteStateInReview = "in_review"
	RouteStateApproved = "approved"
	RouteStateActive   = "active"
	RouteStateArchived = "archived"
)

// ProcessRouteStep 工艺路线步骤，step_number决定执行顺序
type ProcessRouteStep struct {
	ID            string `json:"id" gorm:"primaryKey;size:32"`
	RouteID       string `json:"route_id" gorm:"size:32;not null;index"`
	OperationName string `json:"operation_name" gorm:"size:200;not null"`
	StepNumber    int    `json:"step_number" gorm:"not null;default:0"`
	WorkCenter    string `json:"work_center" gorm:"size:100"`

	SetupTimeMinutes float64 `json:"setup_time_minutes" gorm:"type:decimal(12,2);default:0"`
	CycleTimeMinutes float64 `json:"cycle_time_minutes" gorm:"type:decimal(12,2);default:0"`

	LaborHours    *float64 `json:"labor_hours" gorm:"type:decimal(12,4)"`
	MachineHours  *float64 `json:"machine_hours" gorm:"type:decimal(12,4)"`
	LaborRateID   *string  `json:"labor_rate_id" gorm:"size:32"`
	MachineRateID *string  `json:"machine_rate_id" gorm:"size:32"`

	CalculatedCost float64 `json:"calculated_cost" gorm:"type:decimal(15,4);default:0"`
	Notes          string  `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProcessRouteStep) TableName() string {
	return "process_route_steps"
}

// HourRate 工时费率（人工/机器）
type HourRate struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	Name       string  `json:"name" gorm:"size:100;not null"`
	Type       string  `json:"type" gorm:"size:10;not null"` // labor/machine
	HourlyRate float64 `json:"hourly_rate" gorm:"type:decimal(12,4);not null"`
	Currency   string  `json:"currency" gorm:"size:8;default:CNY"`
	Active     bool    `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (HourRate) TableName() string {
	return "hour_rates"
}

// 工时费率类型
const (
	HourRateTypeLabor   = "labor"
	HourRateTypeMachine = "machine"
)
