package tests

import (
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"testing"

	echoapi "github.com/trezcool/kidlearn/apps/api/echo"
	"github.com/trezcool/kidlearn/core/material"
)

func Test_materialApi_query(t *testing.T) {
	app := setup(t, true /* seed */)

	path := func(typ, grade, search string, limit, offset int) string {
		v := make(url.Values)
		if typ != "" {
			v.Add("type", typ)
		}
		if grade != "" {
			v.Add("gradeLevel", grade)
		}
		if search != "" {
			v.Add("search", search)
		}
		if limit > 0 {
			v.Add("limit", strconv.Itoa(limit))
		}
		if offset > 0 {
			v.Add("offset", strconv.Itoa(offset))
		}
		if len(v) == 0 {
			return "/api/v1/materials"
		}
		return "/api/v1/materials?" + v.Encode()
	}

	type want struct {
		ids   []string
		total int
	}
	tests := []httpTest{
		{name: "no filter returns all", path: path("", "", "", 0, 0), extra: want{[]string{"1", "2", "3", "4", "5", "6", "7", "8"}, 8}},
		{name: "type=puzzle", path: path("puzzle", "", "", 0, 0), extra: want{[]string{"2", "8"}, 2}},
		{name: "type is case-insensitive", path: path("PUZZLE", "", "", 0, 0), extra: want{[]string{"2", "8"}, 2}},
		{name: "type (unknown)", path: path("lol", "", "", 0, 0), extra: want{[]string{}, 0}},
		{name: "gradeLevel=kindergarten", path: path("", "kindergarten", "", 0, 0), extra: want{[]string{"1", "3"}, 2}},
		{name: "type AND gradeLevel", path: path("worksheet", "grade4", "", 0, 0), extra: want{[]string{"6"}, 1}},
		{name: "type AND gradeLevel (empty)", path: path("drawing", "grade5", "", 0, 0), extra: want{[]string{}, 0}},
		{name: "search matches title and tags", path: path("", "", "math", 0, 0), extra: want{[]string{"2", "4", "7"}, 3}},
		{name: "search is case-insensitive", path: path("", "", "MATH", 0, 0), extra: want{[]string{"2", "4", "7"}, 3}},
		{name: "search matches description", path: path("", "", "pizzas", 0, 0), extra: want{[]string{"7"}, 1}},
		{name: "search (unknown)", path: path("", "", "quantum", 0, 0), extra: want{[]string{}, 0}},
		{name: "search AND type", path: path("game", "", "math", 0, 0), extra: want{[]string{"4", "7"}, 2}},
		{name: "limit", path: path("", "", "", 3, 0), extra: want{[]string{"1", "2", "3"}, 8}},
		{name: "limit and offset", path: path("", "", "", 3, 6), extra: want{[]string{"7", "8"}, 8}},
		{name: "offset past the end", path: path("", "", "", 0, 100), extra: want{[]string{}, 8}},
		{name: "limit is capped", path: path("", "", "", 1000, 0), extra: want{[]string{"1", "2", "3", "4", "5", "6", "7", "8"}, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; data %s", rec.Code, rec.Body.String())
			}
			var res echoapi.MaterialListResponse
			decodeObj(t, rec.Body.Bytes(), &res)
			w := tt.extra.(want)
			if res.Total != w.total {
				t.Errorf("total = %d; want %d", res.Total, w.total)
			}
			if ids := materialIDs(res.Items); !reflect.DeepEqual(ids, w.ids) {
				t.Errorf("ids = %v; want %v", ids, w.ids)
			}
		})
	}
}

func Test_materialApi_query_badParams(t *testing.T) {
	app := setup(t, true /* seed */)

	tests := []httpTest{
		{
			name: "limit is not a number", path: "/api/v1/materials?limit=abc",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: `strconv.ParseInt: parsing "abc": invalid syntax`}),
		},
		{
			name: "offset is not a number", path: "/api/v1/materials?offset=xyz",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: `strconv.ParseInt: parsing "xyz": invalid syntax`}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_materialApi_retrieve(t *testing.T) {
	app := setup(t, true /* seed */)

	mat, err := matRepo.GetMaterialByID("1")
	if err != nil {
		t.Fatalf("GetMaterialByID(): %v", err)
	}

	tests := []httpTest{
		{name: "ok", path: "/api/v1/materials/1", wantData: marchallObj(t, mat)},
		{name: "not found", path: "/api/v1/materials/999", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "material not found"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_materialApi_submit(t *testing.T) {
	app := setup(t, true /* seed */)
	conf.MediaRoot = t.TempDir()

	parent := getUser(t, "parent@example.com")
	educator := getUser(t, "teacher@example.com")

	body := func(title, typ, grade string) []byte {
		return marchallObj(t, material.NewMaterial{
			Title:       title,
			Description: "A test material.",
			Type:        typ,
			GradeLevel:  grade,
		})
	}
	collectionSize := func(t *testing.T) int {
		_, total, err := matRepo.QueryMaterials(material.QueryFilter{Limit: 1})
		if err != nil {
			t.Fatalf("QueryMaterials(): %v", err)
		}
		return total
	}

	tests := []httpTest{
		{
			name: "Auth required", body: body("Counting Stars", "worksheet", "grade1"),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Educator required", token: getToken(t, parent), body: body("Counting Stars", "worksheet", "grade1"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "only educators can submit materials"}),
		},
		{
			name: "title too short", token: getToken(t, educator), body: body("ab", "worksheet", "grade1"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "title must be at least 3 characters in length"}),
		},
		{
			name: "unknown type", token: getToken(t, educator), body: body("Counting Stars", "powerpoint", "grade1"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"type": "invalid material type"}),
		},
		{
			name: "unknown grade level", token: getToken(t, educator), body: body("Counting Stars", "worksheet", "grade13"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grade_level": "invalid grade level"}),
		},
		{name: "ok", token: getToken(t, educator), body: body("Counting Stars", "game", "grade1"), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sizeBefore := collectionSize(t)

			req, rec := newAuthRequest(http.MethodPost, "/api/v1/materials", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusCreated {
				checkCodeAndData(t, tt, rec)
				if size := collectionSize(t); size != sizeBefore {
					t.Errorf("collection size changed: %d -> %d", sizeBefore, size)
				}
				return
			}

			if rec.Code != http.StatusCreated {
				t.Fatalf("failed! code = %v; data %s", rec.Code, rec.Body.String())
			}
			var mat material.Material
			decodeObj(t, rec.Body.Bytes(), &mat)
			if mat.Thumbnail != material.Thumbnail("game") {
				t.Errorf("thumbnail = %q; want %q", mat.Thumbnail, material.Thumbnail("game"))
			}
			if mat.AuthorID != educator.ID || mat.AuthorName != educator.Name {
				t.Errorf("author = %s/%s; want %s/%s", mat.AuthorID, mat.AuthorName, educator.ID, educator.Name)
			}
			if mat.Tags == nil || len(mat.Tags) != 0 {
				t.Errorf("tags = %v; want empty list", mat.Tags)
			}
			if size := collectionSize(t); size != sizeBefore+1 {
				t.Errorf("collection size = %d; want %d", size, sizeBefore+1)
			}
		})
	}
}

func Test_materialApi_submitWithUpload(t *testing.T) {
	app := setup(t, true /* seed */)
	conf.MediaRoot = t.TempDir()

	educator := getUser(t, "teacher@example.com")

	fields := map[string]string{
		"title":          "Space Maze",
		"description":    "Find your way through the stars!",
		"type":           "puzzle",
		"grade_level":    "grade2",
		"is_interactive": "false",
		"tags":           `["space","maze"]`,
	}
	req, rec := newMultipartRequest(t, "/api/v1/materials", getToken(t, educator), fields, []byte("%PDF-1.4 test"), "maze.pdf")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; data %s", rec.Code, rec.Body.String())
	}
	var mat material.Material
	decodeObj(t, rec.Body.Bytes(), &mat)
	if !strings.HasPrefix(mat.DownloadURL, "/media/") {
		t.Errorf("download_url = %q; want /media/ prefix", mat.DownloadURL)
	}
	if !strings.HasSuffix(mat.DownloadURL, ".pdf") {
		t.Errorf("download_url = %q; want .pdf suffix", mat.DownloadURL)
	}
	if !reflect.DeepEqual(mat.Tags, []string{"space", "maze"}) {
		t.Errorf("tags = %v; want [space maze]", mat.Tags)
	}

	// the stored URL is returned on download
	req, rec = newRequest(http.MethodPost, "/api/v1/materials/"+mat.ID+"/download")
	app.ServeHTTP(rec, req)
	var res echoapi.DownloadResponse
	decodeObj(t, rec.Body.Bytes(), &res)
	if res.URL != mat.DownloadURL {
		t.Errorf("url = %q; want %q", res.URL, mat.DownloadURL)
	}
}

func Test_materialApi_download(t *testing.T) {
	app := setup(t, true /* seed */)

	tests := []httpTest{
		{name: "stored file URL", path: "/api/v1/materials/1/download", wantData: marchallObj(t, echoapi.DownloadResponse{URL: "/materials/abc-tracing.pdf"})},
		{name: "interactive fallback URL", path: "/api/v1/materials/2/download", wantData: marchallObj(t, echoapi.DownloadResponse{URL: "/materials/2/download-file"})},
		{name: "not found", path: "/api/v1/materials/999/download", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "material not found"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// each successful call counts one download
	mat, err := matRepo.GetMaterialByID("1")
	if err != nil {
		t.Fatalf("GetMaterialByID(): %v", err)
	}
	if mat.Downloads != 1251 {
		t.Errorf("downloads = %d; want 1251", mat.Downloads)
	}
}

func Test_materialApi_like(t *testing.T) {
	app := setup(t, true /* seed */)
	parent := getUser(t, "parent@example.com")
	token := getToken(t, parent)

	tests := []httpTest{
		{name: "Auth required", path: "/api/v1/materials/1/like", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "not found", path: "/api/v1/materials/999/like", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "material not found"}),
		},
		{name: "ok", path: "/api/v1/materials/1/like", token: token, wantData: marchallObj(t, echoapi.LikeResponse{Likes: 90})},
		{name: "ok: counts again", path: "/api/v1/materials/1/like", token: token, wantData: marchallObj(t, echoapi.LikeResponse{Likes: 91})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
