package models

import "time"

// OfficeStaff represents front-office staff
type OfficeStaff struct {
	UserID    uint      `gorm:"column:userid;primaryKey" json:"user_id"`
	FName     string    `gorm:"column:fname;type:varchar(50);not null" json:"fname"`
	LName     string    `gorm:"column:lname;type:varchar(50)" json:"lname"`
	Insurance string    `gorm:"column:insurance;type:varchar(50)" json:"insurance"`
	Phone     string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名，保持与历史数据库兼容
func (OfficeStaff) TableName() string {
	return "office"
}
