package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"bloggy/internal/config"
	"bloggy/internal/db"
	"bloggy/internal/model"
	"bloggy/internal/repository"
	"bloggy/internal/service"
)

// demoUser is a deterministic development fixture.
type demoUser struct {
	Email    string
	Username string
	Name     string
	Location string
	Posts    []string
	Follows  []string
}

const demoPassword = "correct-horse"

var demoUsers = []demoUser{
	{
		Email:    "amelia@example.com",
		Username: "amelia",
		Name:     "Amelia Reyes",
		Location: "Lisbon",
		Posts:    []string{"First post. Still figuring out the editor.", "Second post, now with opinions."},
		Follows:  []string{"bram", "chidi"},
	},
	{
		Email:    "bram@example.com",
		Username: "bram",
		Name:     "Bram Okafor",
		Location: "Rotterdam",
		Posts:    []string{"Writing here instead of a newsletter from now on."},
		Follows:  []string{"amelia"},
	},
	{
		Email:    "chidi@example.com",
		Username: "chidi",
		Name:     "Chidi Eze",
		Location: "Lagos",
		Posts:    nil,
		Follows:  []string{"amelia", "bram"},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Role{}, &model.User{}, &model.Follow{}, &model.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	roleRepo := repository.NewRoleRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	followRepo := repository.NewFollowRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	ctx := context.Background()

	if err := service.NewRoleService(roleRepo).SeedRoles(ctx); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}
	log.Println("Canonical roles seeded")

	created, err := seedUsers(ctx, userRepo, roleRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users created: %d", created)

	posts, follows, err := seedContent(ctx, userRepo, followRepo, postRepo)
	if err != nil {
		log.Fatalf("Failed to seed content: %v", err)
	}
	log.Printf("Seed completed: %d posts, %d follow edges", posts, follows)
}

// seedUsers inserts the demo users with the default role, confirmed so they
// are usable immediately. Existing users are left alone.
func seedUsers(ctx context.Context, userRepo repository.UserRepository, roleRepo repository.RoleRepository) (int, error) {
	defaultRole, err := roleRepo.FindDefault(ctx)
	if err != nil {
		return 0, fmt.Errorf("find default role: %w", err)
	}

	created := 0
	for _, d := range demoUsers {
		if _, err := userRepo.FindByEmail(ctx, d.Email); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("check user %s: %w", d.Email, err)
		}

		user := &model.User{
			Email:     d.Email,
			Username:  d.Username,
			Name:      d.Name,
			Location:  d.Location,
			Confirmed: true,
			RoleID:    defaultRole.ID,
		}
		if err := user.SetPassword(demoPassword); err != nil {
			return created, fmt.Errorf("hash password for %s: %w", d.Email, err)
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return created, fmt.Errorf("create user %s: %w", d.Email, err)
		}
		created++
	}
	return created, nil
}

func seedContent(ctx context.Context, userRepo repository.UserRepository, followRepo repository.FollowRepository, postRepo repository.PostRepository) (posts int, follows int, err error) {
	byUsername := make(map[string]*model.User, len(demoUsers))
	for _, d := range demoUsers {
		user, err := userRepo.FindByUsername(ctx, d.Username)
		if err != nil {
			return posts, follows, fmt.Errorf("load user %s: %w", d.Username, err)
		}
		byUsername[d.Username] = user
	}

	for _, d := range demoUsers {
		author := byUsername[d.Username]

		existing, err := postRepo.ListByAuthor(ctx, author.ID)
		if err != nil {
			return posts, follows, fmt.Errorf("list posts for %s: %w", d.Username, err)
		}
		if len(existing) == 0 {
			for _, body := range d.Posts {
				if err := postRepo.Create(ctx, &model.Post{Body: body, AuthorID: author.ID}); err != nil {
					return posts, follows, fmt.Errorf("create post for %s: %w", d.Username, err)
				}
				posts++
			}
		}

		for _, followee := range d.Follows {
			target, ok := byUsername[followee]
			if !ok {
				continue
			}
			exists, err := followRepo.Exists(ctx, author.ID, target.ID)
			if err != nil {
				return posts, follows, fmt.Errorf("check follow %s->%s: %w", d.Username, followee, err)
			}
			if exists {
				continue
			}
			if err := followRepo.Create(ctx, &model.Follow{FollowerID: author.ID, FollowedID: target.ID}); err != nil {
				return posts, follows, fmt.Errorf("create follow %s->%s: %w", d.Username, followee, err)
			}
			follows++
		}
	}
	return posts, follows, nil
}
