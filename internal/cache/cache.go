package cache

import (
	"sort"

	"foldermail/internal/models"
)

// Cache 文件夹索引接口
type Cache interface {
	// Set 写入文件夹节点
	Set(folder *models.Folder)

	// Get 按完整路径获取节点
	Get(fullName string) (*models.Folder, bool)

	// Delete 删除节点
	Delete(fullName string) bool

	// Clear 清空
	Clear()

	// Size 节点数量
	Size() int

	// Keys 所有完整路径（已排序）
	Keys() []string
}

// FolderCache 完整路径到节点的索引
// 只在控制器的调度协程中访问，因此不加锁
type FolderCache struct {
	items map[string]*models.Folder
}

// NewFolderCache 创建文件夹缓存
func NewFolderCache() *FolderCache {
	return &FolderCache{
		items: make(map[string]*models.Folder),
	}
}

// Set 写入文件夹节点，空路径忽略
func (c *FolderCache) Set(folder *models.Folder) {
	if folder == nil || folder.FullName == "" {
		return
	}
	c.items[folder.FullName] = folder
}

// Get 获取节点
func (c *FolderCache) Get(fullName string) (*models.Folder, bool) {
	if fullName == "" {
		return nil, false
	}
	folder, ok := c.items[fullName]
	return folder, ok
}

// Delete 删除节点
func (c *FolderCache) Delete(fullName string) bool {
	if _, ok := c.items[fullName]; !ok {
		return false
	}
	delete(c.items, fullName)
	return true
}

// Clear 清空所有节点
func (c *FolderCache) Clear() {
	c.items = make(map[string]*models.Folder)
}

// Size 节点数量
func (c *FolderCache) Size() int {
	return len(c.items)
}

// Keys 获取所有键
func (c *FolderCache) Keys() []string {
	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
