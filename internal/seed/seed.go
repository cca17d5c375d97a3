// Package seed creates demo data for development databases. Everything goes
// through the repositories so counter columns stay consistent.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/database"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much random data is generated on top of the fixed accounts.
type Options struct {
	ExtraUsers   int
	PostsPerUser int
	Clean        bool
}

// Account is a fixed demo login.
type Account struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     string
}

// DemoAccounts are always created, and the first is an admin.
var DemoAccounts = []Account{
	{Name: "Alice", Username: "alice", Email: "alice@remix.run", Password: "aliceiscool", Role: models.RoleAdmin},
	{Name: "Bob", Username: "bob", Email: "bob@remix.run", Password: "bobiscool", Role: models.RoleUser},
	{Name: "Charlie", Username: "charlie", Email: "charlie@remix.run", Password: "charlieiscool", Role: models.RoleUser},
}

var (
	cameras    = []string{"Leica M6", "Nikon FM2", "Canon AE-1", "Pentax K1000", "Mamiya RB67", "Hasselblad 500C/M"}
	lenses     = []string{"35mm f/2", "50mm f/1.4", "28mm f/2.8", "90mm f/2", "80mm f/2.8"}
	filmStocks = []string{"Kodak Portra 400", "Ilford HP5 Plus", "Fuji Superia 400", "Kodak Tri-X 400", "CineStill 800T", "Kodak Ektar 100"}

	fStops        = []int{2, 4, 8, 11}
	shutterSpeeds = []int{60, 125, 250, 500}
)

// Seeder writes demo data through the repositories.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	blogs    repository.BlogRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	votes    repository.VoteRepository
	follows  repository.FollowRepository
	chats    repository.ChatRepository
	faker    *gofakeit.Faker
}

// NewSeeder binds a Seeder to db. The same non-zero seed yields the same data;
// zero picks a random one.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		blogs:    repository.NewBlogRepository(db),
		comments: repository.NewCommentRepository(db),
		likes:    repository.NewLikeRepository(db),
		votes:    repository.NewVoteRepository(db),
		follows:  repository.NewFollowRepository(db),
		chats:    repository.NewChatRepository(db),
		faker:    gofakeit.New(seed),
	}
}

// ClearAll drops and recreates every table.
func (s *Seeder) ClearAll() error {
	tables := append([]interface{}{"chat_participants"}, database.PersistentModels()...)
	if err := s.db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return database.Migrate(s.db)
}

// Run seeds the fixed accounts and opts.ExtraUsers random ones, then links them together.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 2
	}

	users, err := s.createAccounts(ctx, DemoAccounts)
	if err != nil {
		return err
	}
	extra, err := s.createAccounts(ctx, s.randomAccounts(opts.ExtraUsers))
	if err != nil {
		return err
	}
	users = append(users, extra...)
	observability.Logger.Info("seeded users", "count", len(users))

	var posts []models.Post
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := s.createPost(ctx, u.ID)
			if err != nil {
				return err
			}
			posts = append(posts, *post)
		}
		if u.IsAdmin() {
			if err := s.createBlog(ctx, u.ID); err != nil {
				return err
			}
		}
	}
	observability.Logger.Info("seeded posts", "count", len(posts))

	if err := s.link(ctx, users, posts); err != nil {
		return err
	}

	if len(users) >= 2 {
		chat, err := s.chats.Create(ctx, []uint{users[0].ID, users[1].ID})
		if err != nil {
			return fmt.Errorf("create chat: %w", err)
		}
		for i, text := range []string{"Shot a roll of Portra today.", "Nice, which camera?"} {
			msg := &models.Message{ChatID: chat.ID, UserID: users[i%2].ID, Content: text}
			if err := s.chats.CreateMessage(ctx, msg); err != nil {
				return fmt.Errorf("create message: %w", err)
			}
		}
	}

	observability.Logger.Info("seeding completed")
	return nil
}

func (s *Seeder) randomAccounts(n int) []Account {
	out := make([]Account, 0, n)
	for i := 0; i < n; i++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		username := strings.ToLower(fmt.Sprintf("%s%s%d", first, last[:1], i))
		out = append(out, Account{
			Name:     first + " " + last,
			Username: username,
			Email:    username + "@example.com",
			Password: "password123",
			Role:     models.RoleUser,
		})
	}
	return out
}

func (s *Seeder) createAccounts(ctx context.Context, accounts []Account) ([]models.User, error) {
	users := make([]models.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.Password)
		if err != nil {
			return nil, err
		}
		u := &models.User{
			Name:     a.Name,
			Email:    a.Email,
			Username: a.Username,
			Role:     a.Role,
			Bio:      s.faker.Sentence(8),
		}
		if err := s.users.Create(ctx, u, hash); err != nil {
			return nil, fmt.Errorf("create user %s: %w", a.Username, err)
		}
		users = append(users, *u)
	}
	return users, nil
}

func (s *Seeder) createPost(ctx context.Context, userID uint) (*models.Post, error) {
	post := &models.Post{
		UserID:    userID,
		Content:   s.faker.Sentence(12),
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", s.faker.UUID()),
		Camera:    s.faker.RandomString(cameras),
		Lens:      s.faker.RandomString(lenses),
		FilmStock: s.faker.RandomString(filmStocks),
		Settings:  fmt.Sprintf("f/%d 1/%d", s.faker.RandomInt(fStops), s.faker.RandomInt(shutterSpeeds)),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *Seeder) createBlog(ctx context.Context, authorID uint) error {
	blog := &models.Blog{
		AuthorID: authorID,
		Title:    s.faker.Sentence(5),
		Subtitle: s.faker.Sentence(8),
		Content:  s.faker.Paragraph(3, 4, 12, "\n\n"),
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

// link makes every user follow the next one and react to posts they did not write.
func (s *Seeder) link(ctx context.Context, users []models.User, posts []models.Post) error {
	if len(users) < 2 {
		return nil
	}
	for i, u := range users {
		next := users[(i+1)%len(users)]
		if _, err := s.follows.Follow(ctx, u.ID, next.ID); err != nil {
			return fmt.Errorf("follow: %w", err)
		}
	}

	for _, p := range posts {
		for _, u := range users {
			if u.ID == p.UserID || !s.faker.Bool() {
				continue
			}
			target := models.LikeTarget{Kind: models.TargetPost, ID: p.ID}
			if _, err := s.likes.Create(ctx, u.ID, target); err != nil {
				return fmt.Errorf("like: %w", err)
			}
			if s.faker.Bool() {
				if _, err := s.votes.Create(ctx, u.ID, p.ID); err != nil {
					return fmt.Errorf("vote: %w", err)
				}
			}
			postID := p.ID
			comment := &models.Comment{UserID: u.ID, PostID: &postID, Content: s.faker.Sentence(6)}
			if err := s.comments.Create(ctx, comment); err != nil {
				return fmt.Errorf("comment: %w", err)
			}
		}
	}
	return nil
}
