package services

import (
	"context"
	"fmt"
	"strconv"

	"foldermail/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceService 客户端侧文件夹偏好和视图设置
// 实现 remote.PreferenceStore，供 IMAP 后端保存协议里没有的标志
type PreferenceService interface {
	SetCheckable(ctx context.Context, folder string, checkable bool) error
	SetKolabType(ctx context.Context, folder string, kolabType models.KolabType) error
	SaveSetting(ctx context.Context, key, value string) error
	FolderPreferences(ctx context.Context) (map[string]models.FolderPreference, error)
	Settings(ctx context.Context) (map[string]string, error)
	BoolSetting(ctx context.Context, key string) (bool, error)
}

// PreferenceServiceImpl 基于GORM的实现
type PreferenceServiceImpl struct {
	db      *gorm.DB
	account string
}

// NewPreferenceService 创建偏好服务
func NewPreferenceService(db *gorm.DB, account string) *PreferenceServiceImpl {
	return &PreferenceServiceImpl{db: db, account: account}
}

// SetCheckable 保存是否检查新邮件
func (s *PreferenceServiceImpl) SetCheckable(ctx context.Context, folder string, checkable bool) error {
	pref := &models.FolderPreference{
		Account:   s.account,
		Folder:    folder,
		Checkable: checkable,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}, {Name: "folder"}},
		DoUpdates: clause.AssignmentColumns([]string{"checkable", "updated_at"}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("failed to save checkable for %s: %w", folder, err)
	}
	return nil
}

// SetKolabType 保存Kolab类型
func (s *PreferenceServiceImpl) SetKolabType(ctx context.Context, folder string, kolabType models.KolabType) error {
	if !kolabType.IsValid() {
		return fmt.Errorf("invalid kolab type: %q", kolabType)
	}
	pref := &models.FolderPreference{
		Account:   s.account,
		Folder:    folder,
		KolabType: kolabType,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}, {Name: "folder"}},
		DoUpdates: clause.AssignmentColumns([]string{"kolab_type", "updated_at"}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("failed to save kolab type for %s: %w", folder, err)
	}
	return nil
}

// SaveSetting 保存视图设置
func (s *PreferenceServiceImpl) SaveSetting(ctx context.Context, key, value string) error {
	setting := &models.UserSetting{
		Account: s.account,
		Key:     key,
		Value:   value,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// FolderPreferences 当前账户全部文件夹偏好，按文件夹名索引
func (s *PreferenceServiceImpl) FolderPreferences(ctx context.Context) (map[string]models.FolderPreference, error) {
	var prefs []models.FolderPreference
	if err := s.db.WithContext(ctx).Where("account = ?", s.account).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to load folder preferences: %w", err)
	}

	result := make(map[string]models.FolderPreference, len(prefs))
	for _, pref := range prefs {
		result[pref.Folder] = pref
	}
	return result, nil
}

// Settings 当前账户全部视图设置
func (s *PreferenceServiceImpl) Settings(ctx context.Context) (map[string]string, error) {
	var settings []models.UserSetting
	if err := s.db.WithContext(ctx).Where("account = ?", s.account).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// BoolSetting 读取布尔设置，不存在时为 false
func (s *PreferenceServiceImpl) BoolSetting(ctx context.Context, key string) (bool, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return false, err
	}
	value, ok := settings[key]
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return value == "1", nil
	}
	return b, nil
}
