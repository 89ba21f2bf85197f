package models

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleLab    = "lab"
	RoleOffice = "office"
)

// User represents staff login accounts
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"column:username;type:varchar(50);unique;not null" json:"username"`
	Password  string    `gorm:"column:password;type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	UserType  string    `gorm:"column:user_type;type:varchar(20);not null" json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名，保持与历史数据库兼容
func (User) TableName() string {
	return "users"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// IsKnownRole 判断角色是否有效
func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleLab, RoleOffice:
		return true
	}
	return false
}
