package domain

import "time"

type Profile struct {
	UserID     string    `gorm:"column:user_id;primaryKey" json:"userId"`
	Bio        string    `gorm:"column:bio" json:"bio"`
	Location   string    `gorm:"column:location" json:"location"`
	Website    string    `gorm:"column:website" json:"website"`
	ProfilePic string    `gorm:"column:profile_pic" json:"profilePic"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"lastEdit"`
}

func (Profile) TableName() string { return "profiles" }
