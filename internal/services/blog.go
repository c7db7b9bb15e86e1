package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/pkg/pagination"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/validate"
)

const featuredPostLimit = 6

// PostQuery holds the public list filters.
type PostQuery struct {
	CategoryID   *uuid.UUID
	CategorySlug string
	Status       string
	Search       string
	Ordering     string
}

// CommentInput names its post by PostSlug (taken from the URL) or, failing
// that, by PostID from the body.
type CommentInput struct {
	PostID      *uuid.UUID `json:"post"`
	PostSlug    string     `json:"-"`
	AuthorName  string     `json:"author_name" binding:"required,max=100"`
	AuthorEmail string     `json:"author_email" binding:"required,email,max=254"`
	Content     string     `json:"content" binding:"required"`
}

type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type PostInput struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Excerpt       string     `json:"excerpt" binding:"max=500"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featured_image"`
	CategoryID    *uuid.UUID `json:"category"`
	AuthorID      uuid.UUID  `json:"author" binding:"required"`
	Status        string     `json:"status" binding:"oneof=draft published archived"`
	ReadTime      int        `json:"read_time"`
	IsFeatured    bool       `json:"is_featured"`
}

type BlogService interface {
	ListCategories(dbc dbctx.Context, p pagination.Params) (pagination.Page[CategoryView], error)
	ListPosts(dbc dbctx.Context, q PostQuery, p pagination.Params) (pagination.Page[PostListItem], error)
	FeaturedPosts(dbc dbctx.Context) ([]PostListItem, error)
	GetPost(dbc dbctx.Context, slug string) (*PostDetail, error)
	ListComments(dbc dbctx.Context, slug string) ([]CommentView, error)
	CreateComment(dbc dbctx.Context, in CommentInput) (*CommentView, error)
	UploadFeaturedImage(dbc dbctx.Context, slug string, raw []byte) (*PostDetail, error)

	CreateCategory(dbc dbctx.Context, in CategoryInput) (*types.Category, error)
	CreatePost(dbc dbctx.Context, in PostInput) (*types.BlogPost, error)
}

type blogService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	postRepo     repos.BlogPostRepo
	commentRepo  repos.CommentRepo
	media        MediaService
}

func NewBlogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	categoryRepo repos.CategoryRepo,
	postRepo repos.BlogPostRepo,
	commentRepo repos.CommentRepo,
	media MediaService,
) BlogService {
	return &blogService{
		db:           db,
		log:          baseLog.With("service", "BlogService"),
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		media:        media,
	}
}

func (s *blogService) dbc(dbc dbctx.Context) dbctx.Context {
	if dbc.Tx == nil {
		return dbctx.Context{Ctx: dbc.Ctx, Tx: s.db}
	}
	return dbc
}

func (s *blogService) ListCategories(dbc dbctx.Context, p pagination.Params) (pagination.Page[CategoryView], error) {
	inner := s.dbc(dbc)
	cats, total, err := s.categoryRepo.List(inner, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[CategoryView]{}, fmt.Errorf("list categories: %w", err)
	}
	if err := p.Check(total); err != nil {
		return pagination.Page[CategoryView]{}, err
	}
	ids := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	counts, err := s.postRepo.CountPublishedByCategories(inner, ids)
	if err != nil {
		return pagination.Page[CategoryView]{}, fmt.Errorf("count posts: %w", err)
	}
	items := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		items = append(items, NewCategoryView(c, counts[c.ID]))
	}
	return pagination.Page[CategoryView]{Items: items, Total: total, Params: p}, nil
}

func (s *blogService) listItems(inner dbctx.Context, posts []*types.BlogPost) ([]PostListItem, error) {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := s.commentRepo.CountApprovedByPosts(inner, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	items := make([]PostListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, NewPostListItem(p, counts[p.ID]))
	}
	return items, nil
}

func (s *blogService) ListPosts(dbc dbctx.Context, q PostQuery, p pagination.Params) (pagination.Page[PostListItem], error) {
	// Only published posts are public; asking for any other status yields
	// an empty listing.
	if q.Status != "" && q.Status != types.PostStatusPublished {
		if err := p.Check(0); err != nil {
			return pagination.Page[PostListItem]{}, err
		}
		return pagination.Page[PostListItem]{Items: []PostListItem{}, Params: p}, nil
	}
	inner := s.dbc(dbc)
	posts, total, err := s.postRepo.List(inner, repos.PostFilter{
		Status:       types.PostStatusPublished,
		CategoryID:   q.CategoryID,
		CategorySlug: strings.TrimSpace(q.CategorySlug),
		Search:       q.Search,
		Ordering:     q.Ordering,
	}, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[PostListItem]{}, fmt.Errorf("list posts: %w", err)
	}
	if err := p.Check(total); err != nil {
		return pagination.Page[PostListItem]{}, err
	}
	items, err := s.listItems(inner, posts)
	if err != nil {
		return pagination.Page[PostListItem]{}, err
	}
	return pagination.Page[PostListItem]{Items: items, Total: total, Params: p}, nil
}

func (s *blogService) FeaturedPosts(dbc dbctx.Context) ([]PostListItem, error) {
	inner := s.dbc(dbc)
	posts, _, err := s.postRepo.List(inner, repos.PostFilter{
		Status:       types.PostStatusPublished,
		FeaturedOnly: true,
	}, 0, featuredPostLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured posts: %w", err)
	}
	return s.listItems(inner, posts)
}

func (s *blogService) publishedPost(inner dbctx.Context, slug string) (*types.BlogPost, error) {
	post, err := s.postRepo.GetBySlug(inner, strings.TrimSpace(slug), types.PostStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post == nil {
		return nil, apierr.NotFound("No BlogPost matches the given query.")
	}
	return post, nil
}

func (s *blogService) detail(inner dbctx.Context, post *types.BlogPost) (*PostDetail, error) {
	comments, err := s.commentRepo.ListApprovedByPost(inner, post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := &PostDetail{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		FeaturedImage: post.FeaturedImage,
		ReadTime:      post.ReadTime,
		Views:         post.Views,
		Comments:      make([]CommentView, 0, len(comments)),
		CreatedAt:     post.CreatedAt,
		PublishedAt:   post.PublishedAt,
	}
	for _, c := range comments {
		out.Comments = append(out.Comments, NewCommentView(c))
	}
	if post.Author != nil {
		out.AuthorName = post.Author.FullName()
		out.AuthorAvatar = post.Author.Initials()
	}
	if post.Category != nil {
		counts, err := s.postRepo.CountPublishedByCategories(inner, []uuid.UUID{post.Category.ID})
		if err != nil {
			return nil, fmt.Errorf("count posts: %w", err)
		}
		cv := NewCategoryView(post.Category, counts[post.Category.ID])
		out.Category = &cv
	}
	return out, nil
}

// GetPost returns a published post and counts the view. The counter is
// incremented in SQL and the returned detail reflects this view.
func (s *blogService) GetPost(dbc dbctx.Context, slug string) (*PostDetail, error) {
	var out *PostDetail
	err := txBase(s.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		post, err := s.publishedPost(inner, slug)
		if err != nil {
			return err
		}
		if err := s.postRepo.IncrementViews(inner, post.ID); err != nil {
			return fmt.Errorf("increment views: %w", err)
		}
		post.Views++
		out, err = s.detail(inner, post)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *blogService) ListComments(dbc dbctx.Context, slug string) ([]CommentView, error) {
	inner := s.dbc(dbc)
	post, err := s.publishedPost(inner, slug)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListApprovedByPost(inner, post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentView(c))
	}
	return out, nil
}

// CreateComment attaches a comment to a published post identified by slug
// or, when PostSlug is empty, by PostID.
func (s *blogService) CreateComment(dbc dbctx.Context, in CommentInput) (*CommentView, error) {
	if in.PostSlug == "" && in.PostID == nil {
		return nil, apierr.FieldError("post", "This field is required.")
	}
	in.AuthorName = normalization.Trim(in.AuthorName)
	in.AuthorEmail = normalization.Email(in.AuthorEmail)
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var out *CommentView
	err := txBase(s.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		var post *types.BlogPost
		if in.PostSlug != "" {
			p, err := s.publishedPost(inner, in.PostSlug)
			if err != nil {
				return err
			}
			post = p
		} else {
			found, err := s.postRepo.GetByIDs(inner, []uuid.UUID{*in.PostID})
			if err != nil {
				return fmt.Errorf("load post: %w", err)
			}
			if len(found) == 0 || found[0].Status != types.PostStatusPublished {
				return apierr.FieldError("post", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", in.PostID.String()))
			}
			post = found[0]
		}
		c := &types.Comment{
			PostID:      post.ID,
			AuthorName:  in.AuthorName,
			AuthorEmail: in.AuthorEmail,
			Content:     in.Content,
		}
		if _, err := s.commentRepo.Create(inner, []*types.Comment{c}); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		v := NewCommentView(c)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Comment created", "comment_id", out.ID)
	return out, nil
}

// UploadFeaturedImage stores raw under blog/<post id>/ and points the post at
// it. The post may be in any status.
func (s *blogService) UploadFeaturedImage(dbc dbctx.Context, slug string, raw []byte) (*PostDetail, error) {
	inner := s.dbc(dbc)
	post, err := s.postRepo.GetBySlug(inner, strings.TrimSpace(slug), "")
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post == nil {
		return nil, apierr.NotFound("No BlogPost matches the given query.")
	}
	img, err := s.media.UploadImage(inner, "blog/"+post.ID.String(), raw)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.UpdateFields(inner, post.ID, map[string]interface{}{"featured_image": img.URL}); err != nil {
		s.media.Delete(inner, img.Key)
		return nil, fmt.Errorf("update post: %w", err)
	}
	post.FeaturedImage = img.URL
	return s.detail(inner, post)
}

func (s *blogService) CreateCategory(dbc dbctx.Context, in CategoryInput) (*types.Category, error) {
	in.Name = normalization.Trim(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	name := in.Name
	inner := s.dbc(dbc)
	existing, err := s.categoryRepo.GetByNames(inner, []string{name})
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	slug, err := uniqueSlug(name, "category", func(c string) (bool, error) {
		return s.categoryRepo.SlugExists(inner, c)
	})
	if err != nil {
		return nil, err
	}
	c := &types.Category{Name: name, Slug: slug, Description: strings.TrimSpace(in.Description)}
	if _, err := s.categoryRepo.Create(inner, []*types.Category{c}); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *blogService) CreatePost(dbc dbctx.Context, in PostInput) (*types.BlogPost, error) {
	in.Title = normalization.Trim(in.Title)
	if in.Status == "" {
		in.Status = types.PostStatusDraft
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	title, status := in.Title, in.Status
	readTime := in.ReadTime
	if readTime <= 0 {
		readTime = 5
	}

	inner := s.dbc(dbc)
	slug, err := uniqueSlug(title, "post", func(c string) (bool, error) {
		return s.postRepo.SlugExists(inner, c)
	})
	if err != nil {
		return nil, err
	}
	post := &types.BlogPost{
		Title:         title,
		Slug:          slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		FeaturedImage: in.FeaturedImage,
		CategoryID:    in.CategoryID,
		AuthorID:      in.AuthorID,
		Status:        status,
		ReadTime:      readTime,
		IsFeatured:    in.IsFeatured,
	}
	if status == types.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	if _, err := s.postRepo.Create(inner, []*types.BlogPost{post}); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}
