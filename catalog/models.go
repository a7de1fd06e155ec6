package catalog

import (
	"time"

	"github.com/uptrace/bun"
)

// Course is a published course. Lessons hang off it ordered by their
// position.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:crs"`

	ID        int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name      string     `bun:"name,notnull" json:"name,omitempty"`
	Rating    *float64   `bun:"rating" json:"rating,omitempty"`
	IsActive  bool       `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`

	Lessons []*Lesson `bun:"rel:has-many,join:id=course_id" json:"lessons,omitempty"`
}

// Lesson is a single unit inside a course.
type Lesson struct {
	bun.BaseModel `bun:"table:lessons,alias:lsn"`

	ID        int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name      string     `bun:"name,notnull" json:"name,omitempty"`
	Order     int        `bun:"lesson_order,notnull" json:"order"`
	VideoURL  string     `bun:"video_url,notnull" json:"videoUrl,omitempty"`
	CourseID  int64      `bun:"course_id,notnull" json:"courseId,omitempty"`
	IsActive  bool       `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`

	Course *Course `bun:"rel:belongs-to,join:course_id=id" json:"-"`
}
