package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
)

// 排行榜导出最多包含的名次
const exportLeaderboardLimit = 100

// ExportService 导出业务接口
type ExportService interface {
	// ExportLeaderboard 导出学生积分排行榜（xlsx）
	ExportLeaderboard(ctx context.Context, userID string) ([]byte, string, error)
	// ExportTableCalendar 导出某桌今日任务的日历订阅（ics），重复任务带 RRULE
	ExportTableCalendar(ctx context.Context, userID, tableID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── ExportLeaderboard ──────────────────────

func (s *exportService) ExportLeaderboard(ctx context.Context, userID string) ([]byte, string, error) {
	users, err := s.repo.User.ListStudentsByPoints(ctx, exportLeaderboardLimit)
	if err != nil {
		s.logger.Error("查询排行榜失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "排行榜"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"名次", "姓名", "积分", "等级", "收藏品"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	// 表头加粗
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(sheet, "A1", "E1", style)
	}

	for row, u := range users {
		tier := Tier(u.Points)
		_, name := CollectableForTier(tier)
		values := []interface{}{row + 1, u.FullName(), u.Points, tier, name}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "B", "B", 24)
	f.SetColWidth(sheet, "E", "E", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("生成排行榜文件失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("leaderboard_%s.xlsx", time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// ────────────────────── ExportTableCalendar ──────────────────────

func (s *exportService) ExportTableCalendar(ctx context.Context, userID, tableID string) ([]byte, string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, "", ErrUserNotFound
	}

	table, err := s.repo.Table.GetByID(ctx, tableID)
	if err != nil {
		return nil, "", ErrTableAccessDenied
	}
	if table.University != user.University {
		return nil, "", ErrTableAccessDenied
	}
	isMember, err := s.repo.Table.IsMember(ctx, tableID, userID)
	if err != nil {
		return nil, "", err
	}
	if !isMember {
		return nil, "", ErrTableAccessDenied
	}

	tasks, err := s.repo.Task.ListByTableAndDate(ctx, tableID, model.Today())
	if err != nil {
		s.logger.Error("查询今日任务失败", zap.String("table_id", tableID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//campus-cafe//task-calendar//ZH")
	cal.SetName(table.Name)

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]

		event := cal.AddEvent(task.TaskID + "@campus-cafe")
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(task.DateSet)
		event.SetAllDayEndAt(task.DateSet.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s（%d 分）", task.Name, task.Points))
		event.SetDescription(task.Content)

		// 重复任务映射为 RRULE，剩余次数为 COUNT
		if task.MaxRepeats > 0 {
			switch task.RecurrenceInterval {
			case model.RecurrenceDaily:
				event.AddRrule(fmt.Sprintf("FREQ=DAILY;COUNT=%d", task.MaxRepeats+1))
			case model.RecurrenceWeekly:
				event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", task.MaxRepeats+1))
			}
		}
	}

	filename := fmt.Sprintf("%s_tasks.ics", table.Name)
	return []byte(cal.Serialize()), filename, nil
}
