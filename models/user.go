package models

// 使用者資料，儲存於users/{uid}，註冊時建立
type UserProfile struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	GradeLevel string `json:"gradeLevel"`
	IsAdmin    bool   `json:"isAdmin"`
}
