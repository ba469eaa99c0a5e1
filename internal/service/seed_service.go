package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"ravencode_backend/internal/lives"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/repository"
	"ravencode_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the YAML document accepted by the seed command.
type SeedFile struct {
	Courses []SeedCourse `yaml:"courses"`
	Users   []SeedUser   `yaml:"users"`
}

type SeedCourse struct {
	Title       string       `yaml:"title"`
	Slug        string       `yaml:"slug"`
	Description string       `yaml:"description"`
	Lessons     []SeedLesson `yaml:"lessons"`
}

type SeedLesson struct {
	Title  string      `yaml:"title"`
	Order  int         `yaml:"order"`
	Theory *SeedTheory `yaml:"theory"`
}

type SeedTheory struct {
	Title string     `yaml:"title"`
	Pages []SeedPage `yaml:"pages"`
}

type SeedPage struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// SeedUser may carry lives state imported from elsewhere; lastLifeUpdate
// accepts a YAML timestamp or an ISO-8601 string.
type SeedUser struct {
	Name           string      `yaml:"name"`
	Email          string      `yaml:"email"`
	Password       string      `yaml:"password"`
	Role           string      `yaml:"role"`
	Lives          *int        `yaml:"lives"`
	LastLifeUpdate interface{} `yaml:"lastLifeUpdate"`
	Streak         int         `yaml:"streak"`
	XP             int         `yaml:"xp"`
}

type SeedResult struct {
	CoursesCreated int
	CoursesSkipped int
	LessonsCreated int
	UsersCreated   int
	UsersSkipped   int
}

type SeedService struct {
	DB    *gorm.DB
	Cache *repository.ContentCache
	Rules *RulesHolder
	Now   func() time.Time
}

func NewSeedService(db *gorm.DB, cache *repository.ContentCache, rules *RulesHolder) *SeedService {
	return &SeedService{DB: db, Cache: cache, Rules: rules, Now: time.Now}
}

func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply loads the file in one transaction. Courses whose slug and users
// whose email already exist are skipped.
func (s *SeedService) Apply(ctx context.Context, f *SeedFile) (*SeedResult, error) {
	res := &SeedResult{}
	var theoryIDs []uint
	now := s.Now()
	policy := s.Rules.Get().Lives

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range f.Courses {
			if c.Slug == "" || c.Title == "" {
				return fmt.Errorf("course %q: title and slug are required", c.Title)
			}
			var existing model.Course
			err := tx.Where("slug = ?", c.Slug).First(&existing).Error
			if err == nil {
				res.CoursesSkipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			course := model.Course{Title: c.Title, Slug: c.Slug, Description: c.Description}
			if err := tx.Create(&course).Error; err != nil {
				return err
			}
			res.CoursesCreated++

			for i, l := range c.Lessons {
				lesson := model.Lesson{CourseID: course.ID, Title: l.Title, Order: l.Order}
				if lesson.Order == 0 {
					lesson.Order = i + 1
				}
				if l.Theory != nil {
					theory := model.Theory{Title: l.Theory.Title}
					for j, p := range l.Theory.Pages {
						theory.Pages = append(theory.Pages, model.ContentPage{Title: p.Title, Body: p.Body, Order: j + 1})
					}
					if err := tx.Create(&theory).Error; err != nil {
						return err
					}
					lesson.TheoryID = &theory.ID
					theoryIDs = append(theoryIDs, theory.ID)
				}
				if err := tx.Create(&lesson).Error; err != nil {
					return err
				}
				res.LessonsCreated++
			}
		}

		for _, u := range f.Users {
			user, err := s.seedUser(u, policy, now)
			if err != nil {
				return err
			}
			var count int64
			if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				res.UsersSkipped++
				continue
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			res.UsersCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, theoryIDs...)
	logger.Log.Info("seed applied",
		zap.Int("courses", res.CoursesCreated),
		zap.Int("lessons", res.LessonsCreated),
		zap.Int("users", res.UsersCreated))
	return res, nil
}

func (s *SeedService) seedUser(u SeedUser, policy lives.Policy, now time.Time) (*model.User, error) {
	if u.Email == "" || u.Password == "" {
		return nil, fmt.Errorf("user %q: email and password are required", u.Name)
	}
	anchor, err := lives.NormalizeAnchor(u.LastLifeUpdate, now)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.Email, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := model.Student
	if u.Role == string(model.Admin) {
		role = model.Admin
	}

	count := policy.Max
	if u.Lives != nil {
		count = min(max(*u.Lives, 0), policy.Max)
	}

	return &model.User{
		Name:           u.Name,
		Email:          u.Email,
		Password:       string(hash),
		Role:           role,
		XP:             u.XP,
		Streak:         u.Streak,
		Lives:          &count,
		LastLifeUpdate: &anchor,
	}, nil
}
