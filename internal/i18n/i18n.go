package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"foldermail/internal/remote"
)

var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

// notificationKeys 通知代码对应的翻译键
var notificationKeys = map[remote.Code]string{
	remote.CodeInvalidToken:             "NOTIFICATIONS/INVALID_TOKEN",
	remote.CodeAuthError:                "NOTIFICATIONS/AUTH_ERROR",
	remote.CodeConnectionError:          "NOTIFICATIONS/CONNECTION_ERROR",
	remote.CodeCantGetFolderList:        "NOTIFICATIONS/CANT_GET_FOLDER_LIST",
	remote.CodeCantCreateFolder:         "NOTIFICATIONS/CANT_CREATE_FOLDER",
	remote.CodeCantRenameFolder:         "NOTIFICATIONS/CANT_RENAME_FOLDER",
	remote.CodeCantDeleteFolder:         "NOTIFICATIONS/CANT_DELETE_FOLDER",
	remote.CodeCantSubscribeFolder:      "NOTIFICATIONS/CANT_SUBSCRIBE_FOLDER",
	remote.CodeCantUnsubscribeFolder:    "NOTIFICATIONS/CANT_UNSUBSCRIBE_FOLDER",
	remote.CodeCantDeleteNonEmptyFolder: "NOTIFICATIONS/CANT_DELETE_NON_EMPTY_FOLDER",
	remote.CodeCantSaveSettings:         "NOTIFICATIONS/CANT_SAVE_SETTINGS",
	remote.CodeRequestAborted:           "NOTIFICATIONS/REQUEST_ABORTED",
	remote.CodeUnknownError:             "NOTIFICATIONS/UNKNOWN_ERROR",
}

var messages = map[language.Tag]map[string]string{
	language.English: {
		"NOTIFICATIONS/INVALID_TOKEN":                "Invalid token",
		"NOTIFICATIONS/AUTH_ERROR":                   "Authentication failed",
		"NOTIFICATIONS/CONNECTION_ERROR":             "Can't connect to server",
		"NOTIFICATIONS/CANT_GET_FOLDER_LIST":         "Can't get folder list",
		"NOTIFICATIONS/CANT_CREATE_FOLDER":           "Can't create folder",
		"NOTIFICATIONS/CANT_RENAME_FOLDER":           "Can't rename folder",
		"NOTIFICATIONS/CANT_DELETE_FOLDER":           "Can't delete folder",
		"NOTIFICATIONS/CANT_SUBSCRIBE_FOLDER":        "Can't subscribe to folder",
		"NOTIFICATIONS/CANT_UNSUBSCRIBE_FOLDER":      "Can't unsubscribe from folder",
		"NOTIFICATIONS/CANT_DELETE_NON_EMPTY_FOLDER": "Can't delete non-empty folder",
		"NOTIFICATIONS/CANT_SAVE_SETTINGS":           "Can't save settings",
		"NOTIFICATIONS/REQUEST_ABORTED":              "Request aborted",
		"NOTIFICATIONS/UNKNOWN_ERROR":                "Unknown error",
		"SETTINGS_FOLDERS/TYPE_CALENDAR":             "Calendar",
		"SETTINGS_FOLDERS/TYPE_CONTACTS":             "Contacts",
		"SETTINGS_FOLDERS/TYPE_TASKS":                "Tasks",
		"SETTINGS_FOLDERS/TYPE_NOTES":                "Notes",
		"SETTINGS_FOLDERS/TYPE_FILES":                "Files",
		"SETTINGS_FOLDERS/TYPE_JOURNAL":              "Journal",
		"SETTINGS_FOLDERS/TYPE_CONFIGURATION":        "Configuration",
	},
	language.SimplifiedChinese: {
		"NOTIFICATIONS/INVALID_TOKEN":                "令牌无效",
		"NOTIFICATIONS/AUTH_ERROR":                   "认证失败",
		"NOTIFICATIONS/CONNECTION_ERROR":             "无法连接服务器",
		"NOTIFICATIONS/CANT_GET_FOLDER_LIST":         "无法获取文件夹列表",
		"NOTIFICATIONS/CANT_CREATE_FOLDER":           "无法创建文件夹",
		"NOTIFICATIONS/CANT_RENAME_FOLDER":           "无法重命名文件夹",
		"NOTIFICATIONS/CANT_DELETE_FOLDER":           "无法删除文件夹",
		"NOTIFICATIONS/CANT_SUBSCRIBE_FOLDER":        "无法订阅文件夹",
		"NOTIFICATIONS/CANT_UNSUBSCRIBE_FOLDER":      "无法取消订阅文件夹",
		"NOTIFICATIONS/CANT_DELETE_NON_EMPTY_FOLDER": "无法删除非空文件夹",
		"NOTIFICATIONS/CANT_SAVE_SETTINGS":           "无法保存设置",
		"NOTIFICATIONS/REQUEST_ABORTED":              "请求已取消",
		"NOTIFICATIONS/UNKNOWN_ERROR":                "未知错误",
		"SETTINGS_FOLDERS/TYPE_CALENDAR":             "日历",
		"SETTINGS_FOLDERS/TYPE_CONTACTS":             "联系人",
		"SETTINGS_FOLDERS/TYPE_TASKS":                "任务",
		"SETTINGS_FOLDERS/TYPE_NOTES":                "笔记",
		"SETTINGS_FOLDERS/TYPE_FILES":                "文件",
		"SETTINGS_FOLDERS/TYPE_JOURNAL":              "日志",
		"SETTINGS_FOLDERS/TYPE_CONFIGURATION":        "配置",
	},
}

var defaultCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range messages {
		for key, msg := range entries {
			// 键和文本都是常量，SetString 只在格式非法时报错
			_ = builder.SetString(tag, key, msg)
		}
	}
	return builder
}

// Translator 通知文本翻译器
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New 按区域设置创建翻译器，无法识别时回退到英文
func New(locale string) *Translator {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, index, _ := matcher.Match(parsed)
		tag = supported[index]
	}
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(defaultCatalog)),
	}
}

// Language 当前语言
func (t *Translator) Language() string {
	return t.tag.String()
}

// Text 翻译键，未知键原样返回
func (t *Translator) Text(key string) string {
	if key == "" {
		return ""
	}
	return t.printer.Sprintf(key)
}

// Notification 翻译通知代码，未知代码使用 fallback
func (t *Translator) Notification(code, fallback remote.Code) string {
	if key, ok := notificationKeys[code]; ok {
		return t.Text(key)
	}
	if key, ok := notificationKeys[fallback]; ok {
		return t.Text(key)
	}
	return ""
}
