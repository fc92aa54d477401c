package folders

import (
	"context"

	"foldermail/internal/models"
	"foldermail/internal/remote"
	"foldermail/internal/sse"
)

// Settings 当前视图设置
func (c *Controller) Settings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := c.dispatcher.Do(ctx, func() {
		settings = c.settings
	})
	return settings, err
}

// SetHideUnsubscribed 隐藏未订阅的文件夹
func (c *Controller) SetHideUnsubscribed(ctx context.Context, value bool) error {
	return c.dispatcher.Do(ctx, func() {
		if c.settings.HideUnsubscribed == value {
			return
		}
		c.settings.HideUnsubscribed = value
		c.saveSetting(ctx, models.SettingHideUnsubscribed, value)
	})
}

// SetUnhideKolabFolders 显示 Kolab 类型的文件夹
func (c *Controller) SetUnhideKolabFolders(ctx context.Context, value bool) error {
	return c.dispatcher.Do(ctx, func() {
		if c.settings.UnhideKolabFolders == value {
			return
		}
		c.settings.UnhideKolabFolders = value
		c.saveSetting(ctx, models.SettingUnhideKolabFolders, value)
	})
}

func (c *Controller) saveSetting(ctx context.Context, key string, value bool) {
	c.mirror(ctx, remote.ActionSettingsUpdate, remote.Params{key: value})
	c.publish(sse.EventSettingChanged, &sse.SettingEventData{Key: key, Value: value})
}

// KolabTypeOption 类型下拉选项
type KolabTypeOption struct {
	ID   models.KolabType `json:"id"`
	Name string           `json:"name"`
}

// KolabTypeOptions 按当前语言返回全部 Kolab 类型
func (c *Controller) KolabTypeOptions() []KolabTypeOption {
	types := models.KolabTypes()
	options := make([]KolabTypeOption, 0, len(types))
	for _, t := range types {
		options = append(options, KolabTypeOption{
			ID:   t,
			Name: c.opts.Translator.Text(t.I18nKey()),
		})
	}
	return options
}
