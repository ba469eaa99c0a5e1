package model

// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:200;not null" json:"title"`
	Slug        string   `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string   `gorm:"type:text" json:"description"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID uint    `gorm:"index;not null" json:"courseId"`
	Title    string  `gorm:"size:200;not null" json:"title"`
	Order    int     `gorm:"column:sort_order;index;not null" json:"order"`
	TheoryID *uint   `gorm:"index" json:"theoryId"`
	Theory   *Theory `gorm:"foreignKey:TheoryID" json:"-"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Theory groups the reading pages shown before a lesson's practice.
type Theory struct {
	BaseModel
	Title string        `gorm:"size:200;not null" json:"title"`
	Pages []ContentPage `gorm:"foreignKey:TheoryID" json:"pages,omitempty"`
}

func (Theory) TableName() string {
	return "theories"
}

type ContentPage struct {
	BaseModel
	TheoryID uint   `gorm:"index;not null" json:"theoryId"`
	Title    string `gorm:"size:200" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
	Order    int    `gorm:"column:sort_order;not null" json:"order"`
}

func (ContentPage) TableName() string {
	return "content_pages"
}
