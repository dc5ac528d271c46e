package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

const (
	ReportUsers    = "users"
	ReportSwaps    = "swaps"
	ReportFeedback = "feedback"

	defaultBroadcastType = "announcement"
)

type AdminUseCase struct {
	repo     repository.Repository
	gate     *WriteGate
	uploader ReportUploader
	now      func() time.Time
}

// NewAdminUseCase builds the moderation use case. uploader may be nil, in which case
// reports are only returned inline.
func NewAdminUseCase(repo repository.Repository, gate *WriteGate, uploader ReportUploader) *AdminUseCase {
	return &AdminUseCase{
		repo:     repo,
		gate:     gate,
		uploader: uploader,
		now:      time.Now,
	}
}

type PlatformStats struct {
	TotalUsers     int                       `json:"totalUsers"`
	ActiveUsers    int                       `json:"activeUsers"`
	PublicProfiles int                       `json:"publicProfiles"`
	BannedUsers    int                       `json:"bannedUsers"`
	TotalSwaps     int                       `json:"totalSwaps"`
	SwapsByStatus  map[entity.SwapStatus]int `json:"swapsByStatus"`
	TotalFeedback  int                       `json:"totalFeedback"`
	AverageRating  float64                   `json:"averageRating"`
}

type BroadcastInput struct {
	Content     string
	Type        string
	TargetUsers []string
}

// Report is an exported CSV. URL is set when the file was uploaded; otherwise Data holds it.
type Report struct {
	Kind string `json:"kind"`
	Rows int    `json:"rows"`
	URL  string `json:"url,omitempty"`
	Data []byte `json:"-"`
}

func (uc *AdminUseCase) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	swaps, err := uc.repo.GetSwaps(ctx)
	if err != nil {
		return nil, err
	}
	feedbacks, err := uc.repo.GetFeedbacks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{
		SwapsByStatus: map[entity.SwapStatus]int{
			entity.SwapPending:   0,
			entity.SwapAccepted:  0,
			entity.SwapRejected:  0,
			entity.SwapCompleted: 0,
			entity.SwapCancelled: 0,
		},
		TotalSwaps:    len(swaps),
		TotalFeedback: len(feedbacks),
	}

	for _, u := range users {
		if u.IsAdmin() {
			continue
		}
		stats.TotalUsers++
		if u.IsBanned {
			stats.BannedUsers++
		} else {
			stats.ActiveUsers++
		}
		if u.IsPublic {
			stats.PublicProfiles++
		}
	}
	for _, s := range swaps {
		stats.SwapsByStatus[s.Status]++
	}
	if len(feedbacks) > 0 {
		sum := 0
		for _, f := range feedbacks {
			sum += f.Rating
		}
		stats.AverageRating = math.Round(float64(sum)/float64(len(feedbacks))*10) / 10
	}

	return stats, nil
}

// Users lists every account, banned ones included.
func (uc *AdminUseCase) Users(ctx context.Context) ([]entity.User, error) {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]entity.User, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

func (uc *AdminUseCase) Ban(ctx context.Context, userID string) (*entity.User, error) {
	return uc.setBanned(ctx, userID, true)
}

func (uc *AdminUseCase) Unban(ctx context.Context, userID string) (*entity.User, error) {
	return uc.setBanned(ctx, userID, false)
}

func (uc *AdminUseCase) setBanned(ctx context.Context, userID string, banned bool) (*entity.User, error) {
	var updated entity.User
	err := uc.gate.Do(func() error {
		users, err := uc.repo.GetUsers(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			if users[i].IsAdmin() {
				return errors.Forbidden("Administrators cannot be banned", nil)
			}
			users[i].IsBanned = banned
			updated = users[i]
			return uc.repo.SetUsers(ctx, users)
		}
		return errors.NotFound("User", nil)
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{"user_id": userID, "banned": banned}).Info("user ban status changed")
	public := updated.Public()
	return &public, nil
}

// RemoveSkill strips an inappropriate label from a user's offered and wanted lists.
func (uc *AdminUseCase) RemoveSkill(ctx context.Context, userID, list, label string) (*entity.User, error) {
	var updated entity.User
	err := uc.gate.Do(func() error {
		users, err := uc.repo.GetUsers(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			if list != ListOffered && list != ListWanted {
				return errors.BadRequest("Only offered and wanted skills can be moderated", nil)
			}
			target, err := labelList(&users[i], list)
			if err != nil {
				return err
			}
			*target = removeFold(*target, label)
			updated = users[i]
			return uc.repo.SetUsers(ctx, users)
		}
		return errors.NotFound("User", nil)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Admin removed %s skill %q from user %s", list, label, userID)
	public := updated.Public()
	return &public, nil
}

// Broadcast appends a platform message. Without explicit targets it reaches every active non-admin user.
func (uc *AdminUseCase) Broadcast(ctx context.Context, input BroadcastInput) (*entity.PlatformMessage, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Broadcast content is required", nil)
	}

	targets := input.TargetUsers
	if targets == nil {
		users, err := uc.repo.GetUsers(ctx)
		if err != nil {
			return nil, err
		}
		targets = make([]string, 0, len(users))
		for _, u := range users {
			if !u.IsBanned && !u.IsAdmin() {
				targets = append(targets, u.ID)
			}
		}
	}

	msgType := input.Type
	if msgType == "" {
		msgType = defaultBroadcastType
	}

	msg := entity.PlatformMessage{
		ID:          uuid.New().String(),
		Content:     content,
		TargetUsers: targets,
		Type:        msgType,
	}

	err := uc.gate.Do(func() error {
		messages, err := uc.repo.GetPlatformMessages(ctx)
		if err != nil {
			return err
		}
		msg.Timestamp = uc.now().UTC()
		return uc.repo.SetPlatformMessages(ctx, append(messages, msg))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Platform message %s sent to %d users", msg.ID, len(targets))
	return &msg, nil
}

func (uc *AdminUseCase) Broadcasts(ctx context.Context) ([]entity.PlatformMessage, error) {
	return uc.repo.GetPlatformMessages(ctx)
}

// Report exports one collection as CSV and uploads it when an uploader is configured.
func (uc *AdminUseCase) Report(ctx context.Context, kind string) (*Report, error) {
	var (
		rows [][]string
		err  error
	)
	switch kind {
	case ReportUsers:
		rows, err = uc.userRows(ctx)
	case ReportSwaps:
		rows, err = uc.swapRows(ctx)
	case ReportFeedback:
		rows, err = uc.feedbackRows(ctx)
	default:
		return nil, errors.BadRequest("Unknown report "+kind, nil)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Internal("Failed to write report", err)
	}

	report := &Report{Kind: kind, Rows: len(rows) - 1, Data: buf.Bytes()}
	if uc.uploader == nil {
		return report, nil
	}

	url, err := uc.uploader.UploadReport(ctx, kind, bytes.NewReader(report.Data))
	if err != nil {
		logger.Warn("report upload failed, returning inline: %v", err)
		return report, nil
	}
	report.URL = url
	return report, nil
}

func (uc *AdminUseCase) userRows(ctx context.Context) ([][]string, error) {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"id", "name", "email", "location", "role", "isPublic", "isBanned", "rating", "totalSwaps", "skillsOffered", "skillsWanted", "createdAt"}}
	for _, u := range users {
		rows = append(rows, []string{
			u.ID, u.Name, u.Email, u.Location, u.Role,
			strconv.FormatBool(u.IsPublic), strconv.FormatBool(u.IsBanned),
			strconv.FormatFloat(u.Rating, 'f', 1, 64), strconv.Itoa(u.TotalSwaps),
			strings.Join(u.SkillsOffered, "; "), strings.Join(u.SkillsWanted, "; "),
			u.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}

func (uc *AdminUseCase) swapRows(ctx context.Context) ([][]string, error) {
	swaps, err := uc.repo.GetSwaps(ctx)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"id", "fromUserId", "toUserId", "fromSkill", "toSkill", "status", "createdAt", "updatedAt"}}
	for _, s := range swaps {
		rows = append(rows, []string{
			s.ID, s.FromUserID, s.ToUserID, s.FromSkill, s.ToSkill, string(s.Status),
			s.CreatedAt.Format(time.RFC3339), s.UpdatedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}

func (uc *AdminUseCase) feedbackRows(ctx context.Context) ([][]string, error) {
	feedbacks, err := uc.repo.GetFeedbacks(ctx)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"id", "swapId", "fromUserId", "toUserId", "rating", "comment", "createdAt"}}
	for _, f := range feedbacks {
		rows = append(rows, []string{
			f.ID, f.SwapID, f.FromUserID, f.ToUserID, strconv.Itoa(f.Rating), f.Comment,
			f.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}
