package entity

import "time"

// Drawing BOM物料图纸文件，STL转换结果关联存储
type Drawing struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	NominationID string `json:"nomination_id" gorm:"size:32;not null;index"`
	PartID       string `json:"part_id" gorm:"size:32;not null;index"`
	FileName     string `json:"file_name" gorm:"size:255;not null"`
	ObjectKey    string `json:"object_key" gorm:"size:500;not null"`
	ContentType  string `json:"content_type" gorm:"size:100"`
	SizeBytes    int64  `json:"size_bytes" gorm:"default:0"`

	// STL转换状态：none表示非CAD文件无需转换
	STLStatus    string `json:"stl_status" gorm:"size:16;default:none"` // none/converted/failed
	STLObjectKey string `json:"stl_object_key" gorm:"size:500"`

	UploadedBy string    `json:"uploaded_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Drawing) TableName() string {
	return "nomination_part_drawings"
}

// STL转换状态
const (
	STLStatusNone      = "none"
	STLStatusConverted = "converted"
	STLStatusFailed    = "failed"
)
