package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-imap/utf7"

	"foldermail/internal/models"
)

// PreferenceStore 客户端侧文件夹偏好存储
type PreferenceStore interface {
	SetCheckable(ctx context.Context, folder string, checkable bool) error
	SetKolabType(ctx context.Context, folder string, kolabType models.KolabType) error
	SaveSetting(ctx context.Context, key, value string) error
	FolderPreferences(ctx context.Context) (map[string]models.FolderPreference, error)
}

// IMAPConfig IMAP连接配置
type IMAPConfig struct {
	Host     string
	Port     int
	Security string // SSL, TLS, STARTTLS, NONE
	Username string
	Password string
}

// IMAPService 直接访问IMAP服务器的远端服务
type IMAPService struct {
	config IMAPConfig
	prefs  PreferenceStore
	calls  *inflight

	mutex  sync.Mutex
	client *client.Client
}

// NewIMAPService 创建IMAP远端服务
func NewIMAPService(config IMAPConfig, prefs PreferenceStore) *IMAPService {
	return &IMAPService{
		config: config,
		prefs:  prefs,
		calls:  newInflight(),
	}
}

// Request 异步发起请求
func (s *IMAPService) Request(ctx context.Context, action Action, busy *Busy, params Params, callback Callback) {
	s.calls.run(ctx, action, busy, fallbackCode(action), callback, func(ctx context.Context) (*Response, error) {
		return s.handle(ctx, action, params)
	})
}

// Abort 取消进行中的请求
// go-imap 的命令不接受 context，已发出的命令仍会执行完
func (s *IMAPService) Abort(action Action) {
	s.calls.abort(action)
}

// Close 断开IMAP连接
func (s *IMAPService) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Logout()
	s.client = nil
	return err
}

func (s *IMAPService) handle(ctx context.Context, action Action, params Params) (*Response, error) {
	switch action {
	case ActionFolders:
		folders, err := s.listFolders(ctx)
		if err != nil {
			return nil, err
		}
		result, err := json.Marshal(folders)
		if err != nil {
			return nil, fmt.Errorf("failed to encode folder list: %w", err)
		}
		return &Response{Action: action, Result: result}, nil

	case ActionFolderDelete:
		folder, err := stringParam(params, "folder")
		if err != nil {
			return nil, err
		}
		return nil, s.withClient(func(c *client.Client) error {
			return c.Delete(folder)
		})

	case ActionFolderSubscribe:
		folder, err := stringParam(params, "folder")
		if err != nil {
			return nil, err
		}
		subscribe := intParam(params, "subscribe") != 0
		return nil, s.withClient(func(c *client.Client) error {
			if subscribe {
				return c.Subscribe(folder)
			}
			return c.Unsubscribe(folder)
		})

	case ActionFolderCheckable:
		folder, err := stringParam(params, "folder")
		if err != nil {
			return nil, err
		}
		return nil, s.prefs.SetCheckable(ctx, folder, intParam(params, "checkable") != 0)

	case ActionFolderSetMetadata:
		return nil, s.setMetadata(ctx, params)

	case ActionSettingsUpdate:
		if len(params) == 0 {
			return nil, NewError(CodeCantSaveSettings, "no settings")
		}
		for key, value := range params {
			if err := s.prefs.SaveSetting(ctx, key, fmt.Sprint(value)); err != nil {
				return nil, err
			}
		}
		return &Response{Action: action, Result: json.RawMessage("true")}, nil
	}

	return nil, NewError(CodeUnknownError, "unsupported action: "+string(action))
}

// setMetadata 写入 METADATA，同时保存到本地偏好，供列表时回填
func (s *IMAPService) setMetadata(ctx context.Context, params Params) error {
	folder, err := stringParam(params, "folder")
	if err != nil {
		return err
	}
	key, err := stringParam(params, "key")
	if err != nil {
		return err
	}
	value, _ := params["value"].(string)

	mailbox, err := utf7.Encoding.NewEncoder().String(folder)
	if err != nil {
		return fmt.Errorf("failed to encode mailbox name: %w", err)
	}

	var entryValue interface{}
	if value != "" {
		entryValue = value
	}
	cmd := &imap.Command{
		Name:      "SETMETADATA",
		Arguments: []interface{}{mailbox, []interface{}{imap.RawString(key), entryValue}},
	}

	err = s.withClient(func(c *client.Client) error {
		status, err := c.Execute(cmd, nil)
		if err != nil {
			return err
		}
		return status.Err()
	})
	if err != nil {
		return err
	}

	if key == models.KolabFolderTypeKey {
		kolabType, err := models.ParseKolabType(value)
		if err != nil {
			return NewError(CodeUnknownError, err.Error())
		}
		return s.prefs.SetKolabType(ctx, folder, kolabType)
	}
	return nil
}

// listFolders 列出文件夹并回填订阅、计数和本地偏好
func (s *IMAPService) listFolders(ctx context.Context) ([]*models.FolderInfo, error) {
	var mailboxes, subscribed []*imap.MailboxInfo
	err := s.withClient(func(c *client.Client) error {
		var err error
		if mailboxes, err = collect(func(ch chan *imap.MailboxInfo) error { return c.List("", "*", ch) }); err != nil {
			return err
		}
		subscribed, err = collect(func(ch chan *imap.MailboxInfo) error { return c.Lsub("", "*", ch) })
		return err
	})
	if err != nil {
		return nil, &Error{Code: CodeCantGetFolderList, Message: err.Error(), Cause: err}
	}

	isSubscribed := make(map[string]bool, len(subscribed))
	for _, m := range subscribed {
		isSubscribed[m.Name] = true
	}

	prefs, err := s.prefs.FolderPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load folder preferences: %w", err)
	}

	folders := make([]*models.FolderInfo, 0, len(mailboxes))
	for _, m := range mailboxes {
		info := &models.FolderInfo{
			FullName:   m.Name,
			Delimiter:  m.Delimiter,
			Type:       specialUseType(m.Attributes),
			Selectable: !hasAttr(m.Attributes, imap.NoSelectAttr),
			Subscribed: isSubscribed[m.Name],
		}
		if pref, ok := prefs[m.Name]; ok {
			info.Checkable = pref.Checkable
			info.KolabType = pref.KolabType
		}

		if info.Selectable {
			err := s.withClient(func(c *client.Client) error {
				status, err := c.Status(m.Name, []imap.StatusItem{imap.StatusMessages, imap.StatusUnseen})
				if err != nil {
					return err
				}
				info.TotalEmails = int(status.Messages)
				info.UnreadEmails = int(status.Unseen)
				return nil
			})
			if err != nil {
				log.Printf("[WARN] IMAP status failed for %s: %v", m.Name, err)
			}
		}
		folders = append(folders, info)
	}

	return folders, nil
}

// withClient 串行执行IMAP命令，必要时建立连接
func (s *IMAPService) withClient(fn func(c *client.Client) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.client == nil {
		c, err := s.dial()
		if err != nil {
			return &Error{Code: CodeConnectionError, Message: err.Error(), Cause: err}
		}
		s.client = c
	}

	err := fn(s.client)
	if err != nil && isConnectionError(err) {
		s.client.Logout()
		s.client = nil
	}
	return err
}

// dial 连接并登录
func (s *IMAPService) dial() (*client.Client, error) {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	tlsConfig := &tls.Config{ServerName: s.config.Host}

	var c *client.Client
	var err error

	switch strings.ToUpper(s.config.Security) {
	case "SSL", "TLS":
		c, err = client.DialTLS(addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to IMAP server with TLS: %w", err)
		}
	case "STARTTLS":
		c, err = client.Dial(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
		}
		if err := c.StartTLS(tlsConfig); err != nil {
			c.Logout()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	default:
		c, err = client.Dial(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
		}
	}

	if err := c.Login(s.config.Username, s.config.Password); err != nil {
		c.Logout()
		return nil, &Error{Code: CodeAuthError, Message: err.Error(), Cause: err}
	}

	log.Printf("[INFO] IMAP connected to %s as %s", addr, s.config.Username)
	return c, nil
}

// collect 收集 LIST/LSUB 结果
func collect(list func(ch chan *imap.MailboxInfo) error) ([]*imap.MailboxInfo, error) {
	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- list(ch)
	}()

	var result []*imap.MailboxInfo
	for m := range ch {
		result = append(result, m)
	}
	return result, <-done
}

// specialUseType 根据 SPECIAL-USE 属性判断类型，没有时返回空串
func specialUseType(attrs []string) string {
	switch {
	case hasAttr(attrs, "\\Sent"):
		return models.FolderTypeSent
	case hasAttr(attrs, "\\Drafts"):
		return models.FolderTypeDrafts
	case hasAttr(attrs, "\\Trash"):
		return models.FolderTypeTrash
	case hasAttr(attrs, "\\Junk"):
		return models.FolderTypeSpam
	case hasAttr(attrs, "\\Archive"):
		return models.FolderTypeArchive
	}
	return ""
}

func hasAttr(attrs []string, attr string) bool {
	for _, a := range attrs {
		if strings.EqualFold(a, attr) {
			return true
		}
	}
	return false
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") || strings.Contains(msg, "broken pipe") || strings.Contains(msg, "eof")
}

// stringParam 读取必填字符串参数
func stringParam(params Params, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || value == "" {
		return "", NewError(CodeUnknownError, "missing parameter: "+key)
	}
	return value, nil
}

// intParam 读取 0/1 参数，兼容 JSON 解码后的 float64
func intParam(params Params, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case bool:
		return BoolParam(v)
	case string:
		i, _ := strconv.Atoi(v)
		return i
	}
	return 0
}
