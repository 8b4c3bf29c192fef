package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// Filter narrows a catalog listing; zero-valued fields are ignored.
type Filter struct {
	Type       string
	GradeLevel string
	Search     string
	Limit      int
	Offset     int
}

func (f Filter) query() string {
	q := make(url.Values)
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.GradeLevel != "" {
		q.Set("gradeLevel", f.GradeLevel)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) ListMaterials(ctx context.Context, f Filter) (MaterialList, error) {
	var res materialListDTO
	if err := c.getJSON(ctx, "/api/v1/materials"+f.query(), &res); err != nil {
		return MaterialList{}, err
	}
	return res.unpack(), nil
}

func (c *Client) GetMaterial(ctx context.Context, id string) (Material, error) {
	var res materialDTO
	if err := c.getJSON(ctx, "/api/v1/materials/"+url.PathEscape(id), &res); err != nil {
		return Material{}, err
	}
	return res.unpack(), nil
}

// NewMaterial contains information needed to submit a material; File is an
// optional upload.
type NewMaterial struct {
	Title         string
	Description   string
	Type          string
	GradeLevel    string
	IsInteractive bool
	Tags          []string
	File          io.Reader
	Filename      string
}

// SubmitMaterial posts a multipart form with the material fields and the
// optional file.
func (c *Client) SubmitMaterial(ctx context.Context, nm NewMaterial) (Material, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"title":          nm.Title,
		"description":    nm.Description,
		"type":           nm.Type,
		"grade_level":    nm.GradeLevel,
		"is_interactive": strconv.FormatBool(nm.IsInteractive),
	}
	if len(nm.Tags) > 0 {
		tags, err := json.Marshal(nm.Tags)
		if err != nil {
			return Material{}, errors.Wrap(err, "marshaling tags")
		}
		fields["tags"] = string(tags)
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return Material{}, errors.Wrapf(err, "writing field %s", name)
		}
	}

	if nm.File != nil {
		filename := nm.Filename
		if filename == "" {
			filename = "upload"
		}
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return Material{}, errors.Wrap(err, "creating file part")
		}
		if _, err = io.Copy(part, nm.File); err != nil {
			return Material{}, errors.Wrap(err, "copying file")
		}
	}
	if err := w.Close(); err != nil {
		return Material{}, errors.Wrap(err, "closing multipart writer")
	}

	var res materialDTO
	if err := c.do(ctx, http.MethodPost, "/api/v1/materials", body, w.FormDataContentType(), &res); err != nil {
		return Material{}, err
	}
	return res.unpack(), nil
}

// DownloadMaterial counts a download and returns the file URL.
func (c *Client) DownloadMaterial(ctx context.Context, id string) (string, error) {
	var res downloadDTO
	if err := c.postJSON(ctx, "/api/v1/materials/"+url.PathEscape(id)+"/download", nil, &res); err != nil {
		return "", err
	}
	return res.URL, nil
}

// LikeMaterial counts a like and returns the new like count.
func (c *Client) LikeMaterial(ctx context.Context, id string) (int, error) {
	var res likeDTO
	if err := c.postJSON(ctx, "/api/v1/materials/"+url.PathEscape(id)+"/like", nil, &res); err != nil {
		return 0, err
	}
	return res.Likes, nil
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var res statsDTO
	if err := c.getJSON(ctx, "/api/v1/stats", &res); err != nil {
		return Stats{}, err
	}
	return res.unpack(), nil
}
