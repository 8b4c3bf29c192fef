package echoapi

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kidlearn/core"
	"github.com/trezcool/kidlearn/core/material"
	"github.com/trezcool/kidlearn/core/user"
)

type materialApi struct {
	conf       *core.Config
	svc        *material.Service
	usrSvc     *user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerMaterialAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := materialApi{
		conf:       deps.Conf,
		svc:        deps.MaterialSvc,
		usrSvc:     deps.UserSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	mg := g.Group("/materials")

	mg.GET("", api.query)
	mg.POST("", api.submit, jwt, educatorMiddleware())
	mg.GET("/:id", api.retrieve)
	mg.POST("/:id/download", api.download)
	mg.POST("/:id/like", api.like, jwt)
}

// Handlers

func (api *materialApi) query(ctx echo.Context) error {
	filter := new(material.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	mats, total, err := api.svc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying materials")
	}
	if mats == nil {
		mats = []material.Material{}
	}
	return ctx.JSON(http.StatusOK, MaterialListResponse{Items: mats, Total: total})
}

func (api *materialApi) retrieve(ctx echo.Context) error {
	mat, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return errMaterialNotFound
		}
		return errors.Wrap(err, "finding material by ID")
	}
	return ctx.JSON(http.StatusOK, mat)
}

func (api *materialApi) submit(ctx echo.Context) error {
	data, err := api.bindNewMaterial(ctx)
	if err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	mat, err := api.svc.Submit(data, ctxUsr)
	if err != nil {
		if errors.Cause(err) == material.ErrNotEducator {
			return errEducatorsOnly
		}
		return errors.Wrap(err, "submitting material")
	}
	return ctx.JSON(http.StatusCreated, mat)
}

func (api *materialApi) download(ctx echo.Context) error {
	url, err := api.svc.Download(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return errMaterialNotFound
		}
		return errors.Wrap(err, "downloading material")
	}
	return ctx.JSON(http.StatusOK, DownloadResponse{URL: url})
}

func (api *materialApi) like(ctx echo.Context) error {
	likes, err := api.svc.Like(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return errMaterialNotFound
		}
		return errors.Wrap(err, "liking material")
	}
	return ctx.JSON(http.StatusOK, LikeResponse{Likes: likes})
}

// bindNewMaterial accepts either a JSON body or a multipart form carrying an
// optional file upload.
func (api *materialApi) bindNewMaterial(ctx echo.Context) (material.NewMaterial, error) {
	var data material.NewMaterial

	cType := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(cType, echo.MIMEMultipartForm) {
		if err := ctx.Bind(&data); err != nil {
			return data, errors.Wrap(err, "binding to NewMaterial")
		}
		return data, nil
	}

	data.Title = ctx.FormValue("title")
	data.Description = ctx.FormValue("description")
	data.Type = ctx.FormValue("type")
	data.GradeLevel = ctx.FormValue("grade_level")
	if v := ctx.FormValue("is_interactive"); v != "" {
		data.IsInteractive, _ = strconv.ParseBool(v)
	}
	if tags := ctx.FormValue("tags"); tags != "" {
		data.Tags = parseTags(tags)
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		if errors.Cause(err) == http.ErrMissingFile {
			return data, nil
		}
		return data, errors.Wrap(err, "reading form file")
	}
	url, err := api.saveUpload(fh)
	if err != nil {
		return data, errors.Wrap(err, "saving upload")
	}
	data.DownloadURL = url
	return data, nil
}

// parseTags accepts a JSON array or a comma separated list.
func parseTags(s string) []string {
	if strings.HasPrefix(strings.TrimSpace(s), "[") {
		var tags []string
		if err := json.Unmarshal([]byte(s), &tags); err == nil {
			return tags
		}
	}
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// saveUpload stores the file under MediaRoot with a random name and returns
// the URL it is served from.
func (api *materialApi) saveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(fh.Filename)
	if err = os.MkdirAll(api.conf.MediaRoot, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(api.conf.MediaRoot, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/media/" + name, nil
}

type (
	MaterialListResponse struct {
		Items []material.Material `json:"items"`
		Total int                 `json:"total"`
	}

	DownloadResponse struct {
		URL string `json:"url"`
	}

	LikeResponse struct {
		Likes int `json:"likes"`
	}
)
