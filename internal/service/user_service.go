package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrCourseTableJoin   = errors.New("课程桌不能手动加入或退出")
	ErrInvalidFacebook   = errors.New("Facebook 链接必须以 https://www.facebook.com/ 开头")
	ErrStaffFieldLimited = errors.New("教职工只能修改姓名和课程")
)

const (
	facebookPrefix  = "https://www.facebook.com/"
	instagramPrefix = "https://www.instagram.com/"
	twitterPrefix   = "https://www.twitter.com/"

	// socialClearSentinel 社交字段传 "/" 表示清除
	socialClearSentinel = "/"
)

// UserService 用户业务接口
type UserService interface {
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	// UpdateProfile 按字段增量修改个人信息；nil 字段不变
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	// GetProfile 查看他人主页；viewerID 用于决定可见范围
	GetProfile(ctx context.Context, viewerID, targetID string) (*dto.ProfileResponse, error)
	// StudyBreak 进入学习专注模式指定分钟数
	StudyBreak(ctx context.Context, userID string, minutes int) error
	// Leaderboard 按积分倒序返回前 limit 名学生
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 教职工不展示个人主页，只允许修改姓名和课程
	if user.IsStaff {
		if req.Year != nil || req.AddTable != nil || req.RemoveTable != nil ||
			req.ShareTables != nil || req.FacebookLink != nil ||
			req.InstagramUsername != nil || req.TwitterHandle != nil {
			return nil, ErrStaffFieldLimited
		}
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Year != nil {
		user.Year = req.Year
	}

	// 课程变更会同步迁移课程桌成员关系
	if req.Course != nil {
		newCourse := strings.ToLower(strings.TrimSpace(*req.Course))
		if newCourse != user.Course {
			if err := s.switchCourseTable(ctx, user, newCourse); err != nil {
				return nil, err
			}
			user.Course = newCourse
		}
	}

	if req.AddTable != nil {
		name := strings.ToLower(strings.TrimSpace(*req.AddTable))
		if strings.HasPrefix(name, strings.TrimSpace(model.CourseTablePrefix)) {
			return nil, ErrCourseTableJoin
		}
		if name != "" {
			if err := joinTableByName(ctx, s.repo, user, name); err != nil {
				return nil, err
			}
		}
	}

	if req.RemoveTable != nil {
		name := strings.ToLower(strings.TrimSpace(*req.RemoveTable))
		if strings.HasPrefix(name, strings.TrimSpace(model.CourseTablePrefix)) {
			return nil, ErrCourseTableJoin
		}
		if name != "" {
			table, err := s.repo.Table.GetByName(ctx, user.University, name)
			if err == nil {
				if err := s.repo.Table.RemoveMember(ctx, table.TableID, user.UserID); err != nil {
					return nil, err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
	}

	if req.ShareTables != nil {
		user.ShareTables = *req.ShareTables
	}

	// 社交链接：Facebook 要求完整链接，Instagram/Twitter 由用户名拼接
	if req.FacebookLink != nil {
		link := strings.TrimSpace(*req.FacebookLink)
		switch {
		case link == socialClearSentinel:
			user.Facebook = nil
		case link == "":
			// 空串不变
		case !strings.HasPrefix(link, facebookPrefix):
			return nil, ErrInvalidFacebook
		default:
			user.Facebook = &link
		}
	}
	if req.InstagramUsername != nil {
		applySocialHandle(&user.Instagram, *req.InstagramUsername, instagramPrefix)
	}
	if req.TwitterHandle != nil {
		applySocialHandle(&user.Twitter, *req.TwitterHandle, twitterPrefix)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新个人信息失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return s.buildProfile(ctx, user, true)
}

// switchCourseTable 退出旧课程桌并加入新课程桌（按需创建）
func (s *userService) switchCourseTable(ctx context.Context, user *model.User, newCourse string) error {
	if user.Course != "" {
		oldName := model.CourseTablePrefix + user.Course
		oldTable, err := s.repo.Table.GetByName(ctx, user.University, oldName)
		if err == nil {
			if err := s.repo.Table.RemoveMember(ctx, oldTable.TableID, user.UserID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if newCourse == "" {
		return nil
	}
	return joinTableByName(ctx, s.repo, user, model.CourseTablePrefix+newCourse)
}

// applySocialHandle 根据用户名设置社交链接；"/" 清除，空串不变
func applySocialHandle(field **string, handle, prefix string) {
	handle = strings.TrimSpace(handle)
	switch handle {
	case socialClearSentinel:
		*field = nil
	case "":
	default:
		link := prefix + strings.TrimPrefix(handle, "@")
		*field = &link
	}
}

// ────────────────────── GetProfile ──────────────────────

func (s *userService) GetProfile(ctx context.Context, viewerID, targetID string) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildProfile(ctx, user, viewerID == targetID)
}

// buildProfile 组装个人主页；isSelf 为 false 时遵循共享开关
func (s *userService) buildProfile(ctx context.Context, user *model.User, isSelf bool) (*dto.ProfileResponse, error) {
	resp := &dto.ProfileResponse{
		ID:         user.UserID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		University: user.University,
		IsStaff:    user.IsStaff,
		Course:     user.Course,
		Year:       user.Year,
		Points:     user.Points,
	}
	if user.Facebook != nil {
		resp.Facebook = *user.Facebook
	}
	if user.Instagram != nil {
		resp.Instagram = *user.Instagram
	}
	if user.Twitter != nil {
		resp.Twitter = *user.Twitter
	}
	if user.IsStudying(time.Now()) {
		resp.StudyingUntil = user.StudyingUntil.UTC().Format(time.RFC3339)
	}

	// 收藏品：当前等级及以下全部解锁
	if !user.IsStaff {
		resp.Collectables = CollectablesUpToTier(Tier(user.Points))
	}

	// 桌列表：课程桌永不对外展示；关闭共享后他人不可见
	resp.Tables = []string{}
	if isSelf || user.ShareTables {
		tables, err := s.repo.Table.ListByUser(ctx, user.UserID, user.University)
		if err != nil {
			return nil, err
		}
		for i := range tables {
			if tables[i].IsCourseTable() {
				continue
			}
			resp.Tables = append(resp.Tables, tables[i].Name)
		}
	}

	return resp, nil
}

// ────────────────────── StudyBreak ──────────────────────

func (s *userService) StudyBreak(ctx context.Context, userID string, minutes int) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	user.StudyingUntil = &until
	return s.repo.User.Update(ctx, user)
}

// ────────────────────── Leaderboard ──────────────────────

func (s *userService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	users, err := s.repo.User.ListStudentsByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, dto.LeaderboardEntry{
			ID:        users[i].UserID,
			FirstName: users[i].FirstName,
			LastName:  users[i].LastName,
			Points:    users[i].Points,
			Tier:      Tier(users[i].Points),
		})
	}
	return entries, nil
}
