package model

import (
	"time"

	"gorm.io/datatypes"
)

// 职位类型与工作模式的合法取值。
const (
	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeInternship = "Internship"
	JobTypeContract   = "Contract"

	WorkModeOnsite = "Onsite"
	WorkModeHybrid = "Hybrid"
	WorkModeRemote = "Remote"

	StatusDraft     = "draft"
	StatusPublished = "published"
)

// JobTypes 按展示顺序列出职位类型。
var JobTypes = []string{JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract}

// WorkModes 按展示顺序列出工作模式。
var WorkModes = []string{WorkModeOnsite, WorkModeHybrid, WorkModeRemote}

// Admin 表示后台管理员账号，密码只保存 bcrypt 哈希。
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `json:"username"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Job 表示一个招聘职位
// - Slug: URL 安全的唯一标识，创建时生成，可在更新时重新生成
// - FullDescription: 富文本，写入前经过 HTML 清洗
// - Status: draft 与 published 之间切换，公开接口只返回 published

type Job struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	Title               string                      `json:"title"`
	Location            string                      `json:"location"`
	Department          string                      `json:"department"`
	JobType             string                      `gorm:"default:Full-time" json:"jobType"`
	WorkMode            string                      `gorm:"default:Onsite" json:"workMode"`
	ShortDescription    string                      `json:"shortDescription"`
	FullDescription     string                      `json:"fullDescription"`
	Responsibilities    string                      `json:"responsibilities"`
	Requirements        string                      `json:"requirements"`
	Skills              datatypes.JSONSlice[string] `json:"skills"`
	ApplicationEmail    string                      `json:"applicationEmail"`
	ApplicationLink     string                      `json:"applicationLink"`
	ApplicationDeadline *time.Time                  `json:"applicationDeadline"`
	Status              string                      `gorm:"default:draft" json:"status"`
	ShowOnHomepage      bool                        `json:"showOnHomepage"`
	Slug                string                      `gorm:"uniqueIndex" json:"slug"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

// Candidate 表示一次职位申请，Resume 保存简历的相对路径。
// JobTitle 为冗余字段，方便在职位删除后仍能展示申请记录。
type Candidate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JobID     uint      `gorm:"index" json:"jobId"`
	JobTitle  string    `json:"jobTitle"`
	Resume    string    `json:"resume"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FAQ 表示博客中的一条问答。
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Blog 表示一篇城市落地页博客，图片字段为空或服务端相对路径。
// 本地图片文件归属于记录本身，替换或删除记录时一并清理。
type Blog struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	City            string                      `gorm:"index" json:"city"`
	Title           string                      `json:"title"`
	MetaTitle       string                      `json:"metaTitle"`
	MetaDescription string                      `json:"metaDescription"`
	Description     string                      `json:"description"`
	BannerImage     string                      `json:"bannerImage"`
	ExtraImage      string                      `json:"extraImage"`
	Services        datatypes.JSONSlice[string] `json:"services"`
	FAQs            datatypes.JSONSlice[FAQ]    `json:"faqs"`
	RedirectLink    string                      `json:"redirectLink"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// ValidJobType 判断职位类型是否合法，空值由数据库默认值兜底。
func ValidJobType(v string) bool {
	for _, t := range JobTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ValidWorkMode 判断工作模式是否合法。
func ValidWorkMode(v string) bool {
	for _, m := range WorkModes {
		if m == v {
			return true
		}
	}
	return false
}

// ValidStatus 判断职位状态是否合法。
func ValidStatus(v string) bool {
	return v == StatusDraft || v == StatusPublished
}
