package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

// Catalog is the seed file layout.
type Catalog struct {
	Users []SeedUser `yaml:"users"`
	Blog  struct {
		Categories []SeedCategory `yaml:"categories"`
		Posts      []SeedPost     `yaml:"posts"`
	} `yaml:"blog"`
	Shop struct {
		Categories []SeedCategory `yaml:"categories"`
		Products   []SeedProduct  `yaml:"products"`
	} `yaml:"shop"`
}

type SeedUser struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Staff     bool   `yaml:"staff"`
}

type SeedCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type SeedPost struct {
	Title    string `yaml:"title"`
	Excerpt  string `yaml:"excerpt"`
	Content  string `yaml:"content"`
	Image    string `yaml:"image"`
	Category string `yaml:"category"`
	Author   string `yaml:"author"`
	Status   string `yaml:"status"`
	ReadTime int    `yaml:"read_time"`
	Featured bool   `yaml:"featured"`
}

type SeedProduct struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	ShortDescription string   `yaml:"short_description"`
	Price            float64  `yaml:"price"`
	ComparePrice     *float64 `yaml:"compare_price"`
	SKU              string   `yaml:"sku"`
	Category         string   `yaml:"category"`
	Image            string   `yaml:"image"`
	Status           string   `yaml:"status"`
	Stock            int      `yaml:"stock"`
	Featured         bool     `yaml:"featured"`
	Weight           *float64 `yaml:"weight"`
}

type SeedReport struct {
	Users             int
	BlogCategories    int
	Posts             int
	ProductCategories int
	Products          int
}

type SeedService interface {
	Load(ctx context.Context, r io.Reader) (*SeedReport, error)
	Apply(ctx context.Context, c *Catalog) (*SeedReport, error)
}

type seedService struct {
	db          *gorm.DB
	log         *logger.Logger
	auth        AuthService
	blog        BlogService
	shop        ShopService
	userRepo    repos.UserRepo
	postRepo    repos.BlogPostRepo
	productRepo repos.ProductRepo
	blogCats    repos.CategoryRepo
}

func NewSeedService(
	db *gorm.DB,
	baseLog *logger.Logger,
	auth AuthService,
	blog BlogService,
	shop ShopService,
	userRepo repos.UserRepo,
	postRepo repos.BlogPostRepo,
	productRepo repos.ProductRepo,
	blogCats repos.CategoryRepo,
) SeedService {
	return &seedService{
		db:          db,
		log:         baseLog.With("service", "SeedService"),
		auth:        auth,
		blog:        blog,
		shop:        shop,
		userRepo:    userRepo,
		postRepo:    postRepo,
		productRepo: productRepo,
		blogCats:    blogCats,
	}
}

func (s *seedService) Load(ctx context.Context, r io.Reader) (*SeedReport, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return s.Apply(ctx, &c)
}

// Apply is idempotent: users are matched by username, posts and products by
// the slug their title or name would produce, categories by name.
func (s *seedService) Apply(ctx context.Context, c *Catalog) (*SeedReport, error) {
	report := &SeedReport{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		users := map[string]uuid.UUID{}

		for _, u := range c.Users {
			found, err := s.userRepo.GetByUsernames(dbc, []string{normalization.Trim(u.Username)})
			if err != nil {
				return fmt.Errorf("load user %q: %w", u.Username, err)
			}
			if len(found) > 0 {
				users[found[0].Username] = found[0].ID
				continue
			}
			in := RegisterInput{
				Username:        u.Username,
				Email:           u.Email,
				Password:        u.Password,
				PasswordConfirm: u.Password,
				FirstName:       u.FirstName,
				LastName:        u.LastName,
			}
			var created *types.User
			if u.Staff {
				created, err = s.auth.CreateStaff(dbc, in)
			} else {
				created, err = s.auth.Register(dbc, in)
			}
			if err != nil {
				return fmt.Errorf("seed user %q: %w", u.Username, err)
			}
			users[created.Username] = created.ID
			report.Users++
		}

		blogCats := map[string]*uuid.UUID{}
		for _, bc := range c.Blog.Categories {
			cat, err := s.blog.CreateCategory(dbc, CategoryInput{Name: bc.Name, Description: bc.Description})
			if err != nil {
				return fmt.Errorf("seed blog category %q: %w", bc.Name, err)
			}
			id := cat.ID
			blogCats[cat.Name] = &id
			report.BlogCategories++
		}

		for _, p := range c.Blog.Posts {
			exists, err := s.postRepo.SlugExists(dbc, normalization.Slugify(p.Title))
			if err != nil {
				return fmt.Errorf("check post %q: %w", p.Title, err)
			}
			if exists {
				continue
			}
			authorID, ok := users[p.Author]
			if !ok {
				found, err := s.userRepo.GetByUsernames(dbc, []string{p.Author})
				if err != nil {
					return fmt.Errorf("load author %q: %w", p.Author, err)
				}
				if len(found) == 0 {
					return fmt.Errorf("post %q: unknown author %q", p.Title, p.Author)
				}
				authorID = found[0].ID
			}
			catID, err := s.blogCategoryID(dbc, blogCats, p.Category)
			if err != nil {
				return err
			}
			if _, err := s.blog.CreatePost(dbc, PostInput{
				Title:         p.Title,
				Excerpt:       p.Excerpt,
				Content:       p.Content,
				FeaturedImage: p.Image,
				CategoryID:    catID,
				AuthorID:      authorID,
				Status:        p.Status,
				ReadTime:      p.ReadTime,
				IsFeatured:    p.Featured,
			}); err != nil {
				return fmt.Errorf("seed post %q: %w", p.Title, err)
			}
			report.Posts++
		}

		shopCats := map[string]*uuid.UUID{}
		for _, sc := range c.Shop.Categories {
			cat, err := s.shop.CreateCategory(dbc, ProductCategoryInput{Name: sc.Name, Description: sc.Description, Image: sc.Image})
			if err != nil {
				return fmt.Errorf("seed product category %q: %w", sc.Name, err)
			}
			id := cat.ID
			shopCats[cat.Name] = &id
			report.ProductCategories++
		}

		for _, p := range c.Shop.Products {
			exists, err := s.productRepo.SlugExists(dbc, normalization.Slugify(p.Name))
			if err != nil {
				return fmt.Errorf("check product %q: %w", p.Name, err)
			}
			if exists {
				continue
			}
			var catID *uuid.UUID
			if p.Category != "" {
				id, ok := shopCats[p.Category]
				if !ok {
					cat, err := s.shop.CreateCategory(dbc, ProductCategoryInput{Name: p.Category})
					if err != nil {
						return fmt.Errorf("product %q category: %w", p.Name, err)
					}
					cid := cat.ID
					id = &cid
					shopCats[cat.Name] = id
				}
				catID = id
			}
			in := ProductInput{
				Name:             p.Name,
				Description:      p.Description,
				ShortDescription: p.ShortDescription,
				Price:            money.FromFloat(p.Price),
				SKU:              p.SKU,
				CategoryID:       catID,
				Image:            p.Image,
				Status:           p.Status,
				StockQuantity:    p.Stock,
				IsFeatured:       p.Featured,
				Weight:           p.Weight,
			}
			if p.ComparePrice != nil {
				cp := money.FromFloat(*p.ComparePrice)
				in.ComparePrice = &cp
			}
			if _, err := s.shop.CreateProduct(dbc, in); err != nil {
				return fmt.Errorf("seed product %q: %w", p.Name, err)
			}
			report.Products++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Catalog seeded",
		"users", report.Users,
		"blog_categories", report.BlogCategories,
		"posts", report.Posts,
		"product_categories", report.ProductCategories,
		"products", report.Products,
	)
	return report, nil
}

func (s *seedService) blogCategoryID(dbc dbctx.Context, known map[string]*uuid.UUID, name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}
	if id, ok := known[name]; ok {
		return id, nil
	}
	found, err := s.blogCats.GetByNames(dbc, []string{name})
	if err != nil {
		return nil, fmt.Errorf("load blog category %q: %w", name, err)
	}
	if len(found) > 0 {
		id := found[0].ID
		known[name] = &id
		return &id, nil
	}
	cat, err := s.blog.CreateCategory(dbc, CategoryInput{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create blog category %q: %w", name, err)
	}
	id := cat.ID
	known[name] = &id
	return &id, nil
}
