package material

import (
	"reflect"
	"testing"
	"time"

	"github.com/trezcool/kidlearn/core/user"
)

type repoMock struct {
	createFn       func(Material) (Material, error)
	queryFn        func(QueryFilter) ([]Material, int, error)
	getFn          func(string) (Material, error)
	incDownloadsFn func(string) (Material, error)
	incLikesFn     func(string) (int, error)
}

func (m *repoMock) CreateMaterial(mat Material) (Material, error) { return m.createFn(mat) }
func (m *repoMock) QueryMaterials(f QueryFilter) ([]Material, int, error) {
	return m.queryFn(f)
}
func (m *repoMock) GetMaterialByID(id string) (Material, error) { return m.getFn(id) }
func (m *repoMock) IncrementDownloads(id string) (Material, error) {
	return m.incDownloadsFn(id)
}
func (m *repoMock) IncrementLikes(id string) (int, error) { return m.incLikesFn(id) }

func TestService_Submit(t *testing.T) {
	parent := user.User{ID: "1", Name: "Sarah", Role: user.RoleParent}
	educator := user.User{ID: "2", Name: "Mr. T", Role: user.RoleEducator}

	var created Material
	repo := &repoMock{
		createFn: func(mat Material) (Material, error) {
			mat.ID = "42"
			created = mat
			return mat, nil
		},
	}
	svc := NewService(repo)

	if _, err := svc.Submit(NewMaterial{Title: "Letters"}, parent); err != ErrNotEducator {
		t.Errorf("Submit() by parent err = %v; want ErrNotEducator", err)
	}

	nm := NewMaterial{
		Title:       "Letters Workbook",
		Description: "Practice your letters.",
		Type:        TypeWorksheet,
		GradeLevel:  GradeKindergarten,
	}
	mat, err := svc.Submit(nm, educator)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if mat.ID != "42" {
		t.Errorf("ID = %q; want %q", mat.ID, "42")
	}
	if created.Thumbnail != "📝" {
		t.Errorf("thumbnail = %q; want %q", created.Thumbnail, "📝")
	}
	if created.AuthorID != educator.ID || created.AuthorName != educator.Name {
		t.Errorf("author = %s/%s; want %s/%s", created.AuthorID, created.AuthorName, educator.ID, educator.Name)
	}
	if created.Tags == nil || len(created.Tags) != 0 {
		t.Errorf("tags = %v; want empty list", created.Tags)
	}
	if created.CreatedAt.IsZero() || created.CreatedAt.Location() != time.UTC {
		t.Errorf("createdAt = %v; want a UTC timestamp", created.CreatedAt)
	}
}

func TestService_Query_cleansFilter(t *testing.T) {
	var gotFilter QueryFilter
	repo := &repoMock{
		queryFn: func(f QueryFilter) ([]Material, int, error) {
			gotFilter = f
			return nil, 0, nil
		},
	}
	svc := NewService(repo)

	tests := []struct {
		name   string
		filter QueryFilter
		want   QueryFilter
	}{
		{
			name:   "defaults",
			filter: QueryFilter{},
			want:   QueryFilter{Limit: DefaultLimit},
		},
		{
			name:   "limit capped, offset floored, values lowered",
			filter: QueryFilter{Type: " Puzzle ", GradeLevel: "GRADE1", Search: "  maze ", Limit: 1000, Offset: -3},
			want:   QueryFilter{Type: "puzzle", GradeLevel: "grade1", Search: "maze", Limit: MaxLimit},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Query(tt.filter); err != nil {
				t.Fatalf("Query(): %v", err)
			}
			if !reflect.DeepEqual(gotFilter, tt.want) {
				t.Errorf("repo filter = %+v; want %+v", gotFilter, tt.want)
			}
		})
	}
}

func TestService_Download(t *testing.T) {
	repo := &repoMock{
		incDownloadsFn: func(id string) (Material, error) {
			switch id {
			case "1":
				return Material{ID: "1", DownloadURL: "/materials/abc.pdf"}, nil
			case "2":
				return Material{ID: "2"}, nil
			}
			return Material{}, ErrNotFound
		},
	}
	svc := NewService(repo)

	url, err := svc.Download("1")
	if err != nil || url != "/materials/abc.pdf" {
		t.Errorf("Download(1) = %q, %v; want stored URL", url, err)
	}
	url, err = svc.Download("2")
	if err != nil || url != "/materials/2/download-file" {
		t.Errorf("Download(2) = %q, %v; want fallback URL", url, err)
	}
	if _, err = svc.Download("999"); err != ErrNotFound {
		t.Errorf("Download(999) err = %v; want ErrNotFound", err)
	}
}

func TestThumbnail(t *testing.T) {
	if got := Thumbnail(TypeGame); got != "🎮" {
		t.Errorf("Thumbnail(game) = %q; want 🎮", got)
	}
	if got := Thumbnail("hologram"); got != "📄" {
		t.Errorf("Thumbnail(unknown) = %q; want 📄", got)
	}
}
