package models

import "time"

// 诊断结果的取值。历史数据中存在大小写混乱的自由文本，
// 迁移时统一归一化到这三个值，原文保留在 ResultNote 中。
const (
	ResultPending    = "No results"
	ResultInfected   = "Infected"
	ResultUninfected = "Uninfected"
)

// Patient 表示一条病例记录（病人及其诊断结果）
type Patient struct {
	PatientID  uint      `gorm:"column:patientid;primaryKey" json:"patient_id"`
	FName      string    `gorm:"column:fname;type:varchar(50)" json:"fname"`
	LName      string    `gorm:"column:lname;type:varchar(50)" json:"lname"`
	Insurance  string    `gorm:"column:insurance;type:varchar(50);index" json:"insurance"`
	Phone      string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Result     string    `gorm:"column:result;type:varchar(20);default:'No results'" json:"result"`
	ResultNote string    `gorm:"column:result_note;type:text" json:"result_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名，保持与历史数据库兼容
func (Patient) TableName() string {
	return "patients"
}

// IsKnownResult 判断结果值是否属于封闭枚举
func IsKnownResult(result string) bool {
	switch result {
	case ResultPending, ResultInfected, ResultUninfected:
		return true
	}
	return false
}

// PatientRecoRow 表示病例与推荐的右外连接结果。
// 没有匹配病例的推荐行，病例字段为空指针。
type PatientRecoRow struct {
	PatientID *uint   `gorm:"column:patientid" json:"patient_id"`
	FName     *string `gorm:"column:fname" json:"fname"`
	LName     *string `gorm:"column:lname" json:"lname"`
	Phone     *string `gorm:"column:phone" json:"phone"`
	Result    *string `gorm:"column:result" json:"result"`
	Insurance string  `gorm:"column:insurance" json:"insurance"`
	Reco      string  `gorm:"column:reco" json:"reco"`
}
