package models

import "time"

// Recommendation 表示按保险号维护的文字建议。
// 同一保险号允许多条记录，与病例通过保险号松散关联。
type Recommendation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Insurance string    `gorm:"column:insurance;type:varchar(50);index;not null" json:"insurance"`
	Reco      string    `gorm:"column:reco;type:text;not null" json:"reco"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名，保持与历史数据库兼容
func (Recommendation) TableName() string {
	return "reco"
}
