package blog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type CommentRepo interface {
	Create(dbc dbctx.Context, comments []*types.Comment) ([]*types.Comment, error)
	ListApprovedByPost(dbc dbctx.Context, postID uuid.UUID) ([]*types.Comment, error)
	CountApprovedByPosts(dbc dbctx.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Create(dbc dbctx.Context, comments []*types.Comment) ([]*types.Comment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(comments) == 0 {
		return []*types.Comment{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Post").Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListApprovedByPost returns approved comments, newest first.
func (r *commentRepo) ListApprovedByPost(dbc dbctx.Context, postID uuid.UUID) ([]*types.Comment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Comment
	if err := transaction.WithContext(dbc.Ctx).
		Where("post_id = ? AND is_approved = ?", postID, true).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *commentRepo) CountApprovedByPosts(dbc dbctx.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []countRow
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Comment{}).
		Select("post_id AS group_id, COUNT(*) AS n").
		Where("post_id IN ? AND is_approved = ?", postIDs, true).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.GroupID] = row.N
	}
	return out, nil
}
