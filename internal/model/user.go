package model

import (
	"time"

	"ravencode_backend/internal/lives"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`
	XP       int      `gorm:"default:0" json:"xp"`

	// 生命值：nil 表示满，LastLifeUpdate 为回复计时起点
	Lives          *int       `json:"lives"`
	LastLifeUpdate *time.Time `json:"lastLifeUpdate"`
	LifeVersion    int64      `gorm:"not null;default:0" json:"-"`

	Streak           int        `gorm:"default:0" json:"streak"`
	LastStreakUpdate *time.Time `json:"lastStreakUpdate"`
	LastLogin        *time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// LifeState reads the stored lives columns, filling absent values per policy.
func (u *User) LifeState(p lives.Policy, now time.Time) lives.State {
	return p.Normalize(u.Lives, u.LastLifeUpdate, now)
}
