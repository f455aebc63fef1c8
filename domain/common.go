package domain

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pkg/errors"
)

// SQLModel is shared by every persisted entity. The same struct is mapped by
// gorm (postgres provider) and by the bson codec (mongo provider).
type SQLModel struct {
	ID        string `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt int64  `json:"createdAt" bson:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt int64  `json:"updatedAt" bson:"updated_at" gorm:"autoUpdateTime:milli"`
	DeletedAt int64  `json:"-" bson:"deleted_at" gorm:"index;default:0"`
}

func (m *SQLModel) IsDeleted() bool {
	return m.DeletedAt != 0
}

// Stamp fills the id and timestamps for a new record. gorm does the
// timestamps itself; the document and memory stores rely on this.
func (m *SQLModel) Stamp(now int64) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

type FindPageOption struct {
	Sort    []string `json:"sort" form:"sort"`
	Page    int      `json:"page" form:"page" default:"1"`
	PerPage int      `json:"perPage" form:"limit" default:"10"`
}

// Normalize clamps paging input to sane bounds.
func (o *FindPageOption) Normalize() {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PerPage <= 0 {
		o.PerPage = 10
	}
	if o.PerPage > 100 {
		o.PerPage = 100
	}
}

func (o *FindPageOption) Offset() int {
	return (o.Page - 1) * o.PerPage
}

// StringSlice stores a list of names as a json document column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	val, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(val), nil
}

func (s *StringSlice) Scan(input interface{}) error {
	switch v := input.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = StringSlice{}
		return nil
	default:
		return errors.New("type assertion to []byte failed")
	}
}

func (s StringSlice) GormDataType() string {
	return "jsonb"
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
}

func NewPagination(page, perPage int, totalItems int64) *Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((totalItems + int64(perPage) - 1) / int64(perPage))
	}
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
}
