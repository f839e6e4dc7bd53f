package entity

// User mirrors the blog platform's users table. The messaging service only
// reads it for profile enrichment; account management lives elsewhere.
type User struct {
	Id        int64  `json:"id" gorm:"column:id;primaryKey"`
	Nickname  string `json:"nickname" gorm:"column:nickname"`
	Avatar    string `json:"avatar" gorm:"column:avatar"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// UserInfo represents public user info
type UserInfo struct {
	Id       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// ToUserInfo converts User to UserInfo
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		Id:       u.Id,
		Nickname: u.Nickname,
		Avatar:   u.Avatar,
	}
}
