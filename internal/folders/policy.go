package folders

import "foldermail/internal/models"

// DeletePolicy 判断文件夹能否删除
type DeletePolicy interface {
	CanBeDeleted(folder *models.Folder) bool
}

// DeletePolicyFunc 函数形式的策略
type DeletePolicyFunc func(folder *models.Folder) bool

// CanBeDeleted 实现 DeletePolicy
func (f DeletePolicyFunc) CanBeDeleted(folder *models.Folder) bool {
	return f(folder)
}

// SystemFolderPolicy 系统文件夹不能删除
var SystemFolderPolicy DeletePolicy = DeletePolicyFunc(func(folder *models.Folder) bool {
	return folder != nil && !folder.IsSystemFolder()
})
