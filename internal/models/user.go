package models

import "time"

type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"userId"`
	Name        string    `gorm:"size:100" json:"name"`
	Surname     string    `gorm:"size:100" json:"surname"`
	Username    string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PhoneNumber string    `gorm:"size:32" json:"phoneNumber"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// Credential holds the password hash and the most recently issued session
// token for a user. It lives apart from User so profile reads never carry it.
type Credential struct {
	UserID       string `gorm:"primaryKey;size:36" json:"-"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	AuthToken    string `gorm:"type:text" json:"-"`
}

func (Credential) TableName() string {
	return "keys"
}
