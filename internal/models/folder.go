package models

import (
	"fmt"
	"slices"
	"strings"
)

// Folder 邮件文件夹节点
// SubFolders 只保存子节点的 FullName，节点本身由 FolderCache 持有
type Folder struct {
	FullName     string    `json:"full_name"`
	ParentName   string    `json:"parent_name,omitempty"`
	Name         string    `json:"name"`
	Delimiter    string    `json:"delimiter,omitempty"`
	Type         string    `json:"type"` // inbox, sent, drafts, trash, spam, archive, custom
	SubFolders   []string  `json:"sub_folders"`
	TotalEmails  int       `json:"total_emails"`
	UnreadEmails int       `json:"unread_emails"`
	Selectable   bool      `json:"selectable"`
	Checkable    bool      `json:"checkable"`
	IsSubscribed bool      `json:"is_subscribed"`
	KolabType    KolabType `json:"kolab_type"`
	ErrorMsg     string    `json:"error_msg,omitempty"`
}

// FolderType 文件夹类型常量
const (
	FolderTypeInbox   = "inbox"
	FolderTypeSent    = "sent"
	FolderTypeDrafts  = "drafts"
	FolderTypeTrash   = "trash"
	FolderTypeSpam    = "spam"
	FolderTypeArchive = "archive"
	FolderTypeCustom  = "custom"
)

// IsSystemFolder 检查是否为系统文件夹
func (f *Folder) IsSystemFolder() bool {
	switch f.Type {
	case FolderTypeInbox, FolderTypeSent, FolderTypeDrafts, FolderTypeTrash, FolderTypeSpam, FolderTypeArchive:
		return true
	}
	return false
}

// IsRoot 是否为顶层文件夹
func (f *Folder) IsRoot() bool {
	return f.ParentName == ""
}

// IsLeaf 是否没有子文件夹
func (f *Folder) IsLeaf() bool {
	return len(f.SubFolders) == 0
}

// HasSubFolder 检查是否包含指定子文件夹
func (f *Folder) HasSubFolder(fullName string) bool {
	return slices.Contains(f.SubFolders, fullName)
}

// RemoveSubFolder 从子文件夹列表中移除，返回是否存在
func (f *Folder) RemoveSubFolder(fullName string) bool {
	var removed bool
	f.SubFolders, removed = RemoveName(f.SubFolders, fullName)
	return removed
}

// Clone 返回节点的浅拷贝，子列表独立
func (f *Folder) Clone() *Folder {
	c := *f
	c.SubFolders = append([]string(nil), f.SubFolders...)
	return &c
}

// RemoveName 从有序名称列表中移除一项
func RemoveName(names []string, fullName string) ([]string, bool) {
	i := slices.Index(names, fullName)
	if i < 0 {
		return names, false
	}
	return append(names[:i], names[i+1:]...), true
}

// KolabType Kolab文件夹类型
type KolabType string

const (
	KolabTypeNone          KolabType = ""
	KolabTypeEvent         KolabType = "event"
	KolabTypeContact       KolabType = "contact"
	KolabTypeTask          KolabType = "task"
	KolabTypeNote          KolabType = "note"
	KolabTypeFile          KolabType = "file"
	KolabTypeJournal       KolabType = "journal"
	KolabTypeConfiguration KolabType = "configuration"
)

// KolabFolderTypeKey Kolab 文件夹类型的 METADATA 键
const KolabFolderTypeKey = "/private/vendor/kolab/folder-type"

var kolabTypeLabels = map[KolabType]string{
	KolabTypeNone:          "",
	KolabTypeEvent:         "CALENDAR",
	KolabTypeContact:       "CONTACTS",
	KolabTypeTask:          "TASKS",
	KolabTypeNote:          "NOTES",
	KolabTypeFile:          "FILES",
	KolabTypeJournal:       "JOURNAL",
	KolabTypeConfiguration: "CONFIGURATION",
}

// KolabTypes 按显示顺序返回全部类型
func KolabTypes() []KolabType {
	return []KolabType{
		KolabTypeNone,
		KolabTypeEvent,
		KolabTypeContact,
		KolabTypeTask,
		KolabTypeNote,
		KolabTypeFile,
		KolabTypeJournal,
		KolabTypeConfiguration,
	}
}

// ParseKolabType 解析Kolab类型，服务器可能附加 ".default" 等后缀
func ParseKolabType(s string) (KolabType, error) {
	base := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	t := KolabType(base)
	if _, ok := kolabTypeLabels[t]; !ok {
		return KolabTypeNone, fmt.Errorf("unknown kolab folder type %q", s)
	}
	return t, nil
}

// IsValid 检查类型是否合法
func (t KolabType) IsValid() bool {
	_, ok := kolabTypeLabels[t]
	return ok
}

// I18nKey 返回类型的翻译键，空类型返回空串
func (t KolabType) I18nKey() string {
	label := kolabTypeLabels[t]
	if label == "" {
		return ""
	}
	return "SETTINGS_FOLDERS/TYPE_" + label
}

// FolderInfo 远端返回的文件夹列表项
type FolderInfo struct {
	FullName     string    `json:"full_name"`
	Delimiter    string    `json:"delimiter"`
	Type         string    `json:"type,omitempty"`
	Selectable   bool      `json:"selectable"`
	Subscribed   bool      `json:"subscribed"`
	Checkable    bool      `json:"checkable"`
	KolabType    KolabType `json:"kolab_type,omitempty"`
	TotalEmails  int       `json:"total_emails"`
	UnreadEmails int       `json:"unread_emails"`
}

// ParentName 根据分隔符计算父文件夹名称
func (fi *FolderInfo) ParentName() string {
	if fi.Delimiter == "" {
		return ""
	}
	if i := strings.LastIndex(fi.FullName, fi.Delimiter); i > 0 {
		return fi.FullName[:i]
	}
	return ""
}

// Name 返回路径最后一段
func (fi *FolderInfo) Name() string {
	if fi.Delimiter == "" {
		return fi.FullName
	}
	if i := strings.LastIndex(fi.FullName, fi.Delimiter); i >= 0 {
		return fi.FullName[i+len(fi.Delimiter):]
	}
	return fi.FullName
}

// DetectFolderType 根据名称检测文件夹类型
func DetectFolderType(name string) string {
	name = strings.ToLower(name)

	if name == "inbox" || name == "收件箱" {
		return FolderTypeInbox
	}
	if strings.Contains(name, "sent") || name == "已发送" || name == "发件箱" {
		return FolderTypeSent
	}
	if strings.Contains(name, "draft") || name == "草稿" || name == "草稿箱" {
		return FolderTypeDrafts
	}
	if strings.Contains(name, "trash") || strings.Contains(name, "deleted") || name == "垃圾箱" || name == "已删除" {
		return FolderTypeTrash
	}
	if strings.Contains(name, "spam") || strings.Contains(name, "junk") || name == "垃圾邮件" {
		return FolderTypeSpam
	}
	if name == "archive" || name == "归档" {
		return FolderTypeArchive
	}

	return FolderTypeCustom
}
