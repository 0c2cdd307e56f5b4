package dto

// ── 证书模块 DTO ──

// UploadFileResponse 文件上传响应
type UploadFileResponse struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

// ExtractRequest 证书识别请求
type ExtractRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// ExtractResponse 证书识别响应（十个字段，未识别为空）
type ExtractResponse struct {
	Fields           map[string]string `json:"fields"`
	ExtractionMethod string            `json:"extraction_method"`
}

// CertificateFields 证书字段（保存/提交时由前端回传）
type CertificateFields struct {
	Department      string `json:"department"       binding:"omitempty,max=100"`
	CompetitionName string `json:"competition_name" binding:"omitempty,max=200"`
	StudentID       string `json:"student_id"       binding:"omitempty,max=20"`
	StudentName     string `json:"student_name"     binding:"omitempty,max=50"`
	AwardCategory   string `json:"award_category"   binding:"omitempty,max=20"`
	AwardLevel      string `json:"award_level"      binding:"omitempty,max=20"`
	CompetitionType string `json:"competition_type" binding:"omitempty,max=10"`
	Organizer       string `json:"organizer"        binding:"omitempty,max=200"`
	AwardDate       string `json:"award_date"       binding:"omitempty,max=20"`
	Advisor         string `json:"advisor"          binding:"omitempty,max=50"`
}

// SaveDraftRequest 保存草稿请求
type SaveDraftRequest struct {
	CertificateFields
	FilePath         string `json:"file_path" binding:"required"`
	ExtractionMethod string `json:"extraction_method" binding:"omitempty,max=20"`
}

// SubmitRequest 提交证书请求
// CertID 非空时将该草稿原地转为已提交，为空时直接以已提交状态创建
type SubmitRequest struct {
	CertificateFields
	CertID           string `json:"cert_id"   binding:"omitempty,uuid"`
	FilePath         string `json:"file_path" binding:"omitempty"`
	ExtractionMethod string `json:"extraction_method" binding:"omitempty,max=20"`
}

// UpdateCertificateRequest 更新草稿请求（字段可部分更新）
type UpdateCertificateRequest struct {
	Department      *string `json:"department"       binding:"omitempty,max=100"`
	CompetitionName *string `json:"competition_name" binding:"omitempty,max=200"`
	StudentID       *string `json:"student_id"       binding:"omitempty,max=20"`
	StudentName     *string `json:"student_name"     binding:"omitempty,max=50"`
	AwardCategory   *string `json:"award_category"   binding:"omitempty,max=20"`
	AwardLevel      *string `json:"award_level"      binding:"omitempty,max=20"`
	CompetitionType *string `json:"competition_type" binding:"omitempty,max=10"`
	Organizer       *string `json:"organizer"        binding:"omitempty,max=200"`
	AwardDate       *string `json:"award_date"       binding:"omitempty,max=20"`
	Advisor         *string `json:"advisor"          binding:"omitempty,max=50"`
}

// CertificateListRequest 我的证书列表查询参数
type CertificateListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=draft submitted"`
}

// CertificateResponse 证书响应
type CertificateResponse struct {
	CertID           string `json:"cert_id"`
	SubmitterID      string `json:"submitter_id"`
	SubmitterRole    string `json:"submitter_role"`
	StudentID        string `json:"student_id"`
	StudentName      string `json:"student_name"`
	Department       string `json:"department"`
	CompetitionName  string `json:"competition_name"`
	AwardCategory    string `json:"award_category"`
	AwardLevel       string `json:"award_level"`
	CompetitionType  string `json:"competition_type"`
	Organizer        string `json:"organizer"`
	AwardDate        string `json:"award_date"`
	Advisor          string `json:"advisor"`
	FilePath         string `json:"file_path"`
	ExtractionMethod string `json:"extraction_method"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	SubmittedAt      string `json:"submitted_at,omitempty"`
}
