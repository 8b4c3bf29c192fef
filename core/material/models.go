package material

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kidlearn/core"
)

// Material types
const (
	TypeWorksheet    = "worksheet"
	TypeActivityBook = "activity_book"
	TypeDrawing      = "drawing"
	TypePuzzle       = "puzzle"
	TypeGame         = "game"
)

// Grade levels
const (
	GradeKindergarten = "kindergarten"
	Grade1            = "grade1"
	Grade2            = "grade2"
	Grade3            = "grade3"
	Grade4            = "grade4"
	Grade5            = "grade5"
)

var (
	AllTypes       = []string{TypeWorksheet, TypeActivityBook, TypeDrawing, TypePuzzle, TypeGame}
	AllGradeLevels = []string{GradeKindergarten, Grade1, Grade2, Grade3, Grade4, Grade5}

	typeThumbnails = map[string]string{
		TypeWorksheet:    "📝",
		TypeActivityBook: "📖",
		TypeDrawing:      "🎨",
		TypePuzzle:       "🧩",
		TypeGame:         "🎮",
	}
	defaultThumbnail = "📄"
)

// Thumbnail returns the glyph shown in the catalog for the given material type.
func Thumbnail(typ string) string {
	if t, ok := typeThumbnails[typ]; ok {
		return t
	}
	return defaultThumbnail
}

type Material struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	GradeLevel    string    `json:"grade_level"`
	Thumbnail     string    `json:"thumbnail"`
	DownloadURL   string    `json:"download_url,omitempty"`
	IsInteractive bool      `json:"is_interactive"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"` // snapshot taken at submission time
	CreatedAt     time.Time `json:"created_at"`  // UTC
	Downloads     int       `json:"downloads"`
	Likes         int       `json:"likes"`
	Tags          []string  `json:"tags"`
}

// NewMaterial contains information needed to submit a new Material.
type NewMaterial struct {
	Title         string   `json:"title" validate:"required,min=3,max=100"`
	Description   string   `json:"description" validate:"required,max=1000"`
	Type          string   `json:"type" validate:"required,materialtype"`
	GradeLevel    string   `json:"grade_level" validate:"required,gradelevel"`
	IsInteractive bool     `json:"is_interactive"`
	Tags          []string `json:"tags"`
	DownloadURL   string   `json:"-"` // set once an uploaded file has been stored
}

func (nm *NewMaterial) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	nm.Description = core.CleanString(nm.Description)
	nm.Type = core.CleanString(nm.Type, true /* lower */)
	nm.GradeLevel = core.CleanString(nm.GradeLevel, true /* lower */)
	return validate.Struct(nm)
}

// pagination bounds
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// QueryFilter applies an AND operation on its set fields.
// Search does a case-insensitive substring match on Title, Description or any tag.
type QueryFilter struct {
	Type       string `query:"type"`
	GradeLevel string `query:"gradeLevel"`
	Search     string `query:"search"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

func (qf *QueryFilter) Clean() {
	qf.Type = core.CleanString(qf.Type, true /* lower */)
	qf.GradeLevel = core.CleanString(qf.GradeLevel, true /* lower */)
	qf.Search = core.CleanString(qf.Search)
	if qf.Limit <= 0 {
		qf.Limit = DefaultLimit
	} else if qf.Limit > MaxLimit {
		qf.Limit = MaxLimit
	}
	if qf.Offset < 0 {
		qf.Offset = 0
	}
}
