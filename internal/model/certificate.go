package model

import "time"

// 证书状态
const (
	CertStatusDraft     = "draft"
	CertStatusSubmitted = "submitted"
)

// Certificate 证书信息表 — 对应 certificates
// status 只会单向从 draft 变为 submitted；submitted 记录不可修改、不可删除
type Certificate struct {
	CertID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cert_id"`
	SubmitterID     string     `gorm:"type:uuid;not null;index"                       json:"submitter_id"`
	SubmitterRole   string     `gorm:"type:varchar(20);not null"                      json:"submitter_role"` // 创建时的角色快照
	StudentID       string     `gorm:"type:varchar(20);not null"                      json:"student_id"`     // 学号（13位）
	StudentName     string     `gorm:"type:varchar(100);not null"                     json:"student_name"`
	Department      *string    `gorm:"type:varchar(200)"                              json:"department"`       // 学生所在学院
	CompetitionName *string    `gorm:"type:varchar(300)"                              json:"competition_name"` // 竞赛项目
	AwardCategory   *string    `gorm:"type:varchar(50)"                               json:"award_category"`   // 获奖类别（国家级/省级）
	AwardLevel      *string    `gorm:"type:varchar(50)"                               json:"award_level"`      // 获奖等级
	CompetitionType *string    `gorm:"type:varchar(20)"                               json:"competition_type"` // 竞赛类型（A类/B类）
	Organizer       *string    `gorm:"type:varchar(300)"                              json:"organizer"`        // 主办单位
	AwardDate       *string    `gorm:"type:varchar(50)"                               json:"award_date"`       // 获奖时间，尽量归一为 YYYY-MM-DD
	Advisor         string     `gorm:"type:varchar(100);not null"                     json:"advisor"`          // 指导教师
	FilePath        string     `gorm:"type:varchar(500);not null"                     json:"file_path"`
	ExtractionMethod *string   `gorm:"type:varchar(50)"                               json:"extraction_method"` // 识别方式
	Status          string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	SubmittedAt     *time.Time `gorm:""                                               json:"submitted_at"`

	// 关联
	Submitter *User `gorm:"foreignKey:SubmitterID;references:UserID" json:"submitter,omitempty"`
}

// TableName 指定表名
func (Certificate) TableName() string { return "certificates" }
