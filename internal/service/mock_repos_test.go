package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"campus-cafe/backend/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

// GetByID 返回副本，模拟真实仓储每次从数据库加载新对象
func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) AddPoints(_ context.Context, userID string, delta int) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Points += delta
	return nil
}

func (m *mockUserRepo) ListStudentsByPoints(_ context.Context, limit int) ([]model.User, error) {
	var students []model.User
	for _, u := range m.users {
		if !u.IsStaff {
			students = append(students, *u)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].Points > students[j].Points
	})
	if len(students) > limit {
		students = students[:limit]
	}
	return students, nil
}

// ── Mock TableRepository ──

type mockTableRepo struct {
	users   *mockUserRepo
	tables  map[string]*model.CafeTable
	members map[string]map[string]bool // tableID -> userID 集合
	seq     int
}

func newMockTableRepo(users *mockUserRepo) *mockTableRepo {
	return &mockTableRepo{
		users:   users,
		tables:  make(map[string]*model.CafeTable),
		members: make(map[string]map[string]bool),
	}
}

func (m *mockTableRepo) Create(_ context.Context, table *model.CafeTable) error {
	for _, t := range m.tables {
		if t.University == table.University && t.Name == table.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if table.TableID == "" {
		m.seq++
		table.TableID = fmt.Sprintf("table-%03d", m.seq)
	}
	m.tables[table.TableID] = table
	return nil
}

func (m *mockTableRepo) GetByID(_ context.Context, id string) (*model.CafeTable, error) {
	if t, ok := m.tables[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTableRepo) GetByName(_ context.Context, university, name string) (*model.CafeTable, error) {
	for _, t := range m.tables {
		if t.University == university && t.Name == name {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTableRepo) ListByUser(_ context.Context, userID, university string) ([]model.CafeTable, error) {
	var result []model.CafeTable
	for tableID, set := range m.members {
		if !set[userID] {
			continue
		}
		if t, ok := m.tables[tableID]; ok && t.University == university {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTableRepo) ListMembers(_ context.Context, tableID string) ([]model.User, error) {
	var result []model.User
	for userID := range m.members[tableID] {
		if u, ok := m.users.users[userID]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockTableRepo) CountEligibleCompleters(_ context.Context, tableID string) (int, error) {
	count := 0
	for userID := range m.members[tableID] {
		if u, ok := m.users.users[userID]; ok && !u.IsStaff {
			count++
		}
	}
	return count, nil
}

func (m *mockTableRepo) AddMember(_ context.Context, tableID, userID string) error {
	if m.members[tableID] == nil {
		m.members[tableID] = make(map[string]bool)
	}
	m.members[tableID][userID] = true
	return nil
}

func (m *mockTableRepo) RemoveMember(_ context.Context, tableID, userID string) error {
	delete(m.members[tableID], userID)
	return nil
}

func (m *mockTableRepo) IsMember(_ context.Context, tableID, userID string) (bool, error) {
	return m.members[tableID][userID], nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	users       *mockUserRepo
	tables      *mockTableRepo
	tasks       map[string]*model.Task
	completions map[string][]string // taskID -> 完成者 ID（按完成顺序）
	seq         int
}

func newMockTaskRepo(users *mockUserRepo, tables *mockTableRepo) *mockTaskRepo {
	return &mockTaskRepo{
		users:       users,
		tables:      tables,
		tasks:       make(map[string]*model.Task),
		completions: make(map[string][]string),
	}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		m.seq++
		task.TaskID = fmt.Sprintf("task-%03d", m.seq)
	}
	m.tasks[task.TaskID] = task
	return nil
}

// GetByID 模拟 Preload：填充创建者、所在桌与当前期次完成名单
func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if u, ok := m.users.users[task.CreatedBy]; ok {
		task.Creator = u
	}
	if t, ok := m.tables.tables[task.TableID]; ok {
		task.Table = t
	}
	task.CompletedBy = nil
	for _, userID := range m.completions[id] {
		if u, ok := m.users.users[userID]; ok {
			task.CompletedBy = append(task.CompletedBy, *u)
		}
	}
	return task, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) ListVisible(_ context.Context, userID string, tableIDs []string) ([]model.Task, error) {
	inScope := make(map[string]bool, len(tableIDs))
	for _, id := range tableIDs {
		inScope[id] = true
	}
	var result []model.Task
	for _, task := range m.tasks {
		if !inScope[task.TableID] || task.CreatedBy == userID {
			continue
		}
		completed := false
		for _, completerID := range m.completions[task.TaskID] {
			if completerID == userID {
				completed = true
				break
			}
		}
		if completed {
			continue
		}
		result = append(result, *task)
	}
	return result, nil
}

func (m *mockTaskRepo) ListByTableAndDate(_ context.Context, tableID string, date time.Time) ([]model.Task, error) {
	var result []model.Task
	for _, task := range m.tasks {
		if task.TableID == tableID && model.DateEqual(task.DateSet, date) {
			result = append(result, *task)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) ListRecurring(_ context.Context) ([]model.Task, error) {
	var result []model.Task
	for _, task := range m.tasks {
		if task.MaxRepeats > 0 && task.RecurrenceInterval != model.RecurrenceNone {
			result = append(result, *task)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) AddCompletion(_ context.Context, taskID, userID string) error {
	for _, completerID := range m.completions[taskID] {
		if completerID == userID {
			return nil
		}
	}
	m.completions[taskID] = append(m.completions[taskID], userID)
	return nil
}

func (m *mockTaskRepo) ClearCompletions(_ context.Context, taskID string) error {
	delete(m.completions, taskID)
	return nil
}

func (m *mockTaskRepo) CountCompletions(_ context.Context, taskID string) (int, error) {
	return len(m.completions[taskID]), nil
}

func (m *mockTaskRepo) ListCompleterIDs(_ context.Context, taskID string) ([]string, error) {
	return append([]string(nil), m.completions[taskID]...), nil
}

// ── Mock MessageRepository ──

type mockMessageRepo struct {
	users    *mockUserRepo
	messages map[string]*model.Message
	upvotes  map[string]map[string]bool // messageID -> userID 集合
	seq      int
}

func newMockMessageRepo(users *mockUserRepo) *mockMessageRepo {
	return &mockMessageRepo{
		users:    users,
		messages: make(map[string]*model.Message),
		upvotes:  make(map[string]map[string]bool),
	}
}

func (m *mockMessageRepo) Create(_ context.Context, message *model.Message) error {
	if message.MessageID == "" {
		m.seq++
		message.MessageID = fmt.Sprintf("msg-%03d", m.seq)
	}
	message.CreatedAt = time.Now()
	m.messages[message.MessageID] = message
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMessageRepo) ListByTable(_ context.Context, tableID string, limit int) ([]model.Message, error) {
	var result []model.Message
	for _, msg := range m.messages {
		if msg.TableID == tableID {
			if u, ok := m.users.users[msg.CreatedBy]; ok {
				msg.Creator = u
			}
			result = append(result, *msg)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockMessageRepo) HasUpvoted(_ context.Context, messageID, userID string) (bool, error) {
	return m.upvotes[messageID][userID], nil
}

func (m *mockMessageRepo) AddUpvote(_ context.Context, messageID, userID string) error {
	msg, ok := m.messages[messageID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.upvotes[messageID] == nil {
		m.upvotes[messageID] = make(map[string]bool)
	}
	m.upvotes[messageID][userID] = true
	msg.TotalUpvotes++
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.seq++
	notification.NotificationID = fmt.Sprintf("notif-%03d", m.seq)
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByTables(_ context.Context, tableIDs []string, limit int) ([]model.Notification, error) {
	inScope := make(map[string]bool, len(tableIDs))
	for _, id := range tableIDs {
		inScope[id] = true
	}
	var result []model.Notification
	for i := len(m.notifications) - 1; i >= 0 && len(result) < limit; i-- {
		n := m.notifications[i]
		if n.TableID != nil && inScope[*n.TableID] {
			result = append(result, *n)
		}
	}
	return result, nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	reports []*model.Report
	seq     int
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{}
}

func (m *mockReportRepo) Create(_ context.Context, report *model.Report) error {
	m.seq++
	report.ReportID = fmt.Sprintf("report-%03d", m.seq)
	report.CreatedAt = time.Now()
	m.reports = append(m.reports, report)
	return nil
}

func (m *mockReportRepo) List(_ context.Context, offset, limit int) ([]model.Report, int64, error) {
	total := int64(len(m.reports))
	if offset >= len(m.reports) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.reports) {
		end = len(m.reports)
	}
	var result []model.Report
	for _, r := range m.reports[offset:end] {
		result = append(result, *r)
	}
	return result, total, nil
}
