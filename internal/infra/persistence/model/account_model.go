package model

import "time"

// AccountModel mirrors the 'users' table. user_id is an identity column assigned on insert.
type AccountModel struct {
	ID        int    `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username  string `gorm:"column:username;type:varchar(255)"`
	Password  string `gorm:"column:password;type:varchar(255)"`
	Email     string `gorm:"column:email;type:varchar(255);index"`
	Role      string `gorm:"column:role;type:varchar(50)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "users"
}
