package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abushana-oss/mithran/internal/production/entity"
	"github.com/abushana-oss/mithran/internal/production/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrNotFound 批次或记录不存在
var ErrNotFound = repository.ErrNotFound

// ErrLotNumberExists 批次号已存在
var ErrLotNumberExists = errors.New("批次号已存在")

// ErrEntryConflict 同一(批次,工序,日期,班次)已有记录
var ErrEntryConflict = errors.New("该批次在同一工序、日期、班次已有生产记录")

// ProductionService 生产跟踪服务
type ProductionService struct {
	lotRepo   *repository.LotRepository
	entryRepo *repository.EntryRepository
	logger    *zap.Logger
}

func NewProductionService(lotRepo *repository.LotRepository, entryRepo *repository.EntryRepository, logger *zap.Logger) *ProductionService {
	return &ProductionService{
		lotRepo:   lotRepo,
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// CreateLotRequest 创建批次请求
type CreateLotRequest struct {
	LotNumber  string     `json:"lot_number" binding:"required"`
	PartNumber string     `json:"part_number"`
	PartName   string     `json:"part_name"`
	Quantity   float64    `json:"quantity" binding:"omitempty,gt=0"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// CreateLot 创建生产批次
func (s *ProductionService) CreateLot(ctx context.Context, userID string, req *CreateLotRequest) (*entity.ProductionLot, error) {
	exists, err := s.lotRepo.LotNumberExists(ctx, req.LotNumber)
	if err != nil {
		return nil, fmt.Errorf("查询批次号失败: %w", err)
	}
	if exists {
		return nil, ErrLotNumberExists
	}

	lot := &entity.ProductionLot{
		ID:         uuid.New().String()[:32],
		LotNumber:  req.LotNumber,
		PartNumber: req.PartNumber,
		PartName:   req.PartName,
		Quantity:   req.Quantity,
		Status:     entity.LotStatusPlanned,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CreatedBy:  userID,
	}
	if err := s.lotRepo.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("创建生产批次失败: %w", err)
	}
	return lot, nil
}

// ListLots 分页查询批次
func (s *ProductionService) ListLots(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProductionLot, int64, error) {
	return s.lotRepo.FindAll(ctx, page, pageSize, filters)
}

// GetLot 批次详情（含生产记录）
func (s *ProductionService) GetLot(ctx context.Context, id string) (*entity.ProductionLot, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListByLot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询生产记录失败: %w", err)
	}
	lot.Entries = entries
	return lot, nil
}

// UpdateLotRequest 更新批次请求
type UpdateLotRequest struct {
	PartNumber *string    `json:"part_number"`
	PartName   *string    `json:"part_name"`
	Quantity   *float64   `json:"quantity" binding:"omitempty,gt=0"`
	Status     *string    `json:"status" binding:"omitempty,oneof=planned in_progress completed closed"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// UpdateLot 更新批次
func (s *ProductionService) UpdateLot(ctx context.Context, id string, req *UpdateLotRequest) (*entity.ProductionLot, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PartNumber != nil {
		lot.PartNumber = *req.PartNumber
	}
	if req.PartName != nil {
		lot.PartName = *req.PartName
	}
	if req.Quantity != nil {
		lot.Quantity = *req.Quantity
	}
	if req.Status != nil {
		lot.Status = *req.Status
	}
	if req.StartDate != nil {
		lot.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		lot.EndDate = req.EndDate
	}

	if err := s.lotRepo.Update(ctx, lot); err != nil {
		return nil, fmt.Errorf("更新生产批次失败: %w", err)
	}
	return lot, nil
}

// DeleteLot 删除批次及其生产记录
func (s *ProductionService) DeleteLot(ctx context.Context, id string) error {
	if _, err := s.lotRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.lotRepo.Delete(ctx, id)
}

// EntryInput 生产记录输入
type EntryInput struct {
	ProcessID       string    `json:"process_id"`
	EntryDate       time.Time `json:"entry_date" binding:"required"`
	Shift           string    `json:"shift" binding:"required,oneof=morning afternoon night"`
	TargetQty       float64   `json:"target_qty" binding:"min=0"`
	ProducedQty     float64   `json:"produced_qty" binding:"min=0"`
	RejectedQty     float64   `json:"rejected_qty" binding:"min=0"`
	ReworkQty       float64   `json:"rework_qty" binding:"min=0"`
	DowntimeMinutes float64   `json:"downtime_minutes" binding:"min=0"`
	Notes           string    `json:"notes"`
}

// 统一截断到日期，保证唯一性比较与周聚合不受时刻影响
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateEntry 创建生产记录，(批次,工序,日期,班次) 冲突则拒绝
func (s *ProductionService) CreateEntry(ctx context.Context, lotID string, in *EntryInput) (*entity.ProductionEntry, error) {
	if _, err := s.lotRepo.FindByID(ctx, lotID); err != nil {
		return nil, err
	}

	date := dateOnly(in.EntryDate)
	exists, err := s.entryRepo.TupleExists(ctx, lotID, in.ProcessID, date, in.Shift, "")
	if err != nil {
		return nil, fmt.Errorf("查询生产记录失败: %w", err)
	}
	if exists {
		return nil, ErrEntryConflict
	}

	entry := &entity.ProductionEntry{
		ID:              uuid.New().String()[:32],
		LotID:           lotID,
		ProcessID:       in.ProcessID,
		EntryDate:       date,
		Shift:           in.Shift,
		TargetQty:       in.TargetQty,
		ProducedQty:     in.ProducedQty,
		RejectedQty:     in.RejectedQty,
		ReworkQty:       in.ReworkQty,
		DowntimeMinutes: in.DowntimeMinutes,
		Notes:           in.Notes,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("创建生产记录失败: %w", err)
	}
	return entry, nil
}

// UpdateEntryRequest 生产记录更新请求
type UpdateEntryRequest struct {
	ProcessID       *string    `json:"process_id"`
	EntryDate       *time.Time `json:"entry_date"`
	Shift           *string    `json:"shift" binding:"omitempty,oneof=morning afternoon night"`
	TargetQty       *float64   `json:"target_qty" binding:"omitempty,min=0"`
	ProducedQty     *float64   `json:"produced_qty" binding:"omitempty,min=0"`
	RejectedQty     *float64   `json:"rejected_qty" binding:"omitempty,min=0"`
	ReworkQty       *float64   `json:"rework_qty" binding:"omitempty,min=0"`
	DowntimeMinutes *float64   `json:"downtime_minutes" binding:"omitempty,min=0"`
	Notes           *string    `json:"notes"`
}

// UpdateEntry 更新生产记录。唯一性四元组变化时对其余记录做冲突检查。
func (s *ProductionService) UpdateEntry(ctx context.Context, lotID, entryID string, req *UpdateEntryRequest) (*entity.ProductionEntry, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.LotID != lotID {
		return nil, ErrNotFound
	}

	tupleChanged := false
	if req.ProcessID != nil && *req.ProcessID != entry.ProcessID {
		entry.ProcessID = *req.ProcessID
		tupleChanged = true
	}
	if req.EntryDate != nil {
		d := dateOnly(*req.EntryDate)
		if !d.Equal(entry.EntryDate) {
			entry.EntryDate = d
			tupleChanged = true
		}
	}
	if req.Shift != nil && *req.Shift != entry.Shift {
		entry.Shift = *req.Shift
		tupleChanged = true
	}

	if tupleChanged {
		exists, err := s.entryRepo.TupleExists(ctx, lotID, entry.ProcessID, entry.EntryDate, entry.Shift, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("查询生产记录失败: %w", err)
		}
		if exists {
			return nil, ErrEntryConflict
		}
	}

	if req.TargetQty != nil {
		entry.TargetQty = *req.TargetQty
	}
	if req.ProducedQty != nil {
		entry.ProducedQty = *req.ProducedQty
	}
	if req.RejectedQty != nil {
		entry.RejectedQty = *req.RejectedQty
	}
	if req.ReworkQty != nil {
		entry.ReworkQty = *req.ReworkQty
	}
	if req.DowntimeMinutes != nil {
		entry.DowntimeMinutes = *req.DowntimeMinutes
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("更新生产记录失败: %w", err)
	}
	return entry, nil
}

// DeleteEntry 删除生产记录
func (s *ProductionService) DeleteEntry(ctx context.Context, lotID, entryID string) error {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.LotID != lotID {
		return ErrNotFound
	}
	return s.entryRepo.Delete(ctx, entryID)
}

// WeekBucket 周汇总桶
type WeekBucket struct {
	Year            int     `json:"year"`
	WeekStart       string  `json:"week_start"` // 当周周日，YYYY-MM-DD
	TargetQty       float64 `json:"target_qty"`
	ProducedQty     float64 `json:"produced_qty"`
	RejectedQty     float64 `json:"rejected_qty"`
	ReworkQty       float64 `json:"rework_qty"`
	DowntimeMinutes float64 `json:"downtime_minutes"`
	Efficiency      int     `json:"efficiency"` // round(produced/target×100)，target为0时记0
}

// weekStart 记录日期所在周的周日（当日或之前最近的周日）
func weekStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// GetWeeklySummary 按周汇总批次生产记录。
// 桶按(年,周起始日)分组，输出顺序为首次出现顺序。
func (s *ProductionService) GetWeeklySummary(ctx context.Context, lotID string) ([]WeekBucket, error) {
	if _, err := s.lotRepo.FindByID(ctx, lotID); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("查询生产记录失败: %w", err)
	}

	type weekKey struct {
		year  int
		start string
	}
	index := map[weekKey]int{}
	buckets := []WeekBucket{}

	for _, e := range entries {
		ws := weekStart(e.EntryDate)
		key := weekKey{year: ws.Year(), start: ws.Format("2006-01-02")}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, WeekBucket{Year: key.year, WeekStart: key.start})
		}
		buckets[i].TargetQty += e.TargetQty
		buckets[i].ProducedQty += e.ProducedQty
		buckets[i].RejectedQty += e.RejectedQty
		buckets[i].ReworkQty += e.ReworkQty
		buckets[i].DowntimeMinutes += e.DowntimeMinutes
	}

	for i := range buckets {
		if buckets[i].TargetQty > 0 {
			buckets[i].Efficiency = int(math.Round(buckets[i].ProducedQty / buckets[i].TargetQty * 100))
		}
	}
	return buckets, nil
}

// ExportWeeklyReport 导出周报xlsx
func (s *ProductionService) ExportWeeklyReport(ctx context.Context, lotID string) (*excelize.File, error) {
	lot, err := s.lotRepo.FindByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	buckets, err := s.GetWeeklySummary(ctx, lotID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "周生产汇总"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("批次：%s  物料：%s", lot.LotNumber, lot.PartName))
	headers := []string{"周起始", "计划数", "产出数", "不良数", "返工数", "停机(分钟)", "达成率%"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
	}
	for row, b := range buckets {
		values := []interface{}{b.WeekStart, b.TargetQty, b.ProducedQty, b.RejectedQty, b.ReworkQty, b.DowntimeMinutes, b.Efficiency}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f, nil
}
