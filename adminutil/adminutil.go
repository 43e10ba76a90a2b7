package adminutil

import "log"

// 管理員信箱名單，來自設定檔
// 完全比對字串，不做大小寫或空白正規化
type AllowList []string

// 檢查信箱是否為管理員
func (a AllowList) IsAdmin(email string) bool {
	result := false
	for _, admin := range a {
		if admin == email {
			result = true
			break
		}
	}
	log.Printf("檢查管理員身分 %s: %v", email, result)
	return result
}
