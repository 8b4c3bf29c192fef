package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/kidlearn/apps/api/echo"
	"github.com/trezcool/kidlearn/core/material"
	"github.com/trezcool/kidlearn/core/stats"
	"github.com/trezcool/kidlearn/core/user"
	emailsvc "github.com/trezcool/kidlearn/services/email"
	"github.com/trezcool/kidlearn/storage/database"
	dummydb "github.com/trezcool/kidlearn/storage/database/dummy"
)

var (
	usrRepo user.Repository
	matRepo material.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type testLogger struct{}

func (testLogger) Enable(bool)                     {}
func (testLogger) Debug(string, ...interface{})    {}
func (testLogger) Info(string, ...interface{})     {}
func (testLogger) Warn(string, ...interface{})     {}
func (testLogger) Error(string, ...interface{})    {}
func (testLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

func setup(t *testing.T, seed bool) *echoapi.Server {
	t.Helper()

	// set up store & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	matRepo = dummydb.NewMaterialRepository(db)
	statsRepo := dummydb.NewStatsRepository(db)

	if seed {
		if err = database.Seed(usrRepo, matRepo); err != nil {
			t.Fatalf("database.Seed(): %v", err)
		}
	}

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	matSvc := material.NewService(matRepo)
	statsSvc := stats.NewService(statsRepo)

	// set up server
	return echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      testLogger{},
			UserSvc:     usrSvc,
			MaterialSvc: matSvc,
			StatsSvc:    statsSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)
}

func getUser(t *testing.T, email string) user.User {
	t.Helper()
	usr, err := usrRepo.GetUserByEmail(email)
	if err != nil {
		t.Fatalf("GetUserByEmail(%s): %v", email, err)
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newMultipartRequest(t *testing.T, path, token string, fields map[string]string, file []byte, filename string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("WriteField(%s): %v", name, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		if _, err = io.Copy(part, bytes.NewReader(file)); err != nil {
			t.Fatalf("copying file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func decodeObj(t *testing.T, data []byte, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, obj); err != nil {
		t.Fatalf("decodeObj(): %v; data %s", err, data)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func materialIDs(mats []material.Material) []string {
	ids := make([]string, 0, len(mats))
	for _, m := range mats {
		ids = append(ids, m.ID)
	}
	return ids
}
