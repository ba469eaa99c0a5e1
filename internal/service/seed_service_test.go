package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ravencode_backend/internal/lives"
	"ravencode_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const seedYAML = `
courses:
  - title: Go Basics
    slug: go-basics
    description: First steps
    lessons:
      - title: Hello
        order: 1
        theory:
          title: Hello World
          pages:
            - title: Intro
              body: Print something.
            - title: Run
              body: go run main.go
      - title: Variables
        order: 2
users:
  - name: Demo
    email: demo@example.com
    password: demo-password
    lives: 2
    lastLifeUpdate: "2026-05-04T09:45:00Z"
`

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Course{}, &model.Lesson{}, &model.Theory{}, &model.ContentPage{}))
	return db
}

func TestSeedService_Apply(t *testing.T) {
	db := newSeedDB(t)
	svc := NewSeedService(db, nil, NewRulesHolder(PracticeRules{Lives: lives.DefaultPolicy()}))
	svc.Now = func() time.Time { return t0 }

	file, err := ParseSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)

	res, err := svc.Apply(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CoursesCreated)
	assert.Equal(t, 2, res.LessonsCreated)
	assert.Equal(t, 1, res.UsersCreated)

	var pages []model.ContentPage
	require.NoError(t, db.Order("sort_order").Find(&pages).Error)
	require.Len(t, pages, 2)
	assert.Equal(t, "Intro", pages[0].Title)

	var user model.User
	require.NoError(t, db.Where("email = ?", "demo@example.com").First(&user).Error)
	require.NotNil(t, user.Lives)
	assert.Equal(t, 2, *user.Lives)
	assert.True(t, user.LastLifeUpdate.Equal(t0.Add(-15*time.Minute)))

	again, err := svc.Apply(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, 1, again.CoursesSkipped)
	assert.Equal(t, 1, again.UsersSkipped)
}

func TestSeedService_RejectsBadAnchor(t *testing.T) {
	db := newSeedDB(t)
	svc := NewSeedService(db, nil, NewRulesHolder(PracticeRules{Lives: lives.DefaultPolicy()}))

	file := &SeedFile{Users: []SeedUser{{Email: "x@example.com", Password: "password", LastLifeUpdate: "yesterday"}}}
	_, err := svc.Apply(context.Background(), file)
	assert.Error(t, err)

	var count int64
	db.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestParseSeedFile_UnknownField(t *testing.T) {
	_, err := ParseSeedFile(strings.NewReader("courses:\n  - titel: typo\n"))
	assert.Error(t, err)
}
