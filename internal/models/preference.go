package models

// FolderPreference 客户端侧的文件夹偏好
// IMAP 协议本身没有"可检查"标志，Kolab 类型在不支持 METADATA 的服务器上也只能本地保存
type FolderPreference struct {
	BaseModel
	Account   string    `gorm:"not null;size:255;uniqueIndex:idx_folder_pref_account_folder" json:"account"`
	Folder    string    `gorm:"not null;size:500;uniqueIndex:idx_folder_pref_account_folder" json:"folder"`
	Checkable bool      `gorm:"not null;default:false" json:"checkable"`
	KolabType KolabType `gorm:"size:20" json:"kolab_type"`
}

// TableName 指定表名
func (FolderPreference) TableName() string {
	return "folder_preferences"
}

// UserSetting 用户视图设置（键值对）
type UserSetting struct {
	BaseModel
	Account string `gorm:"not null;size:255;uniqueIndex:idx_user_setting_account_key" json:"account"`
	Key     string `gorm:"not null;size:100;uniqueIndex:idx_user_setting_account_key" json:"key"`
	Value   string `gorm:"size:1000" json:"value"`
}

// TableName 指定表名
func (UserSetting) TableName() string {
	return "user_settings"
}

// 视图设置键
const (
	SettingHideUnsubscribed   = "HideUnsubscribed"
	SettingUnhideKolabFolders = "UnhideKolabFolders"
)
