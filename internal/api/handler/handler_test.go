package handler

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/service"
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGroupService struct {
	service.GroupService
	lastPassword string
	created      *dto.GroupCreateDTO
	getErr       error
}

func (s *stubGroupService) CreateGroup(_ context.Context, req *dto.GroupCreateDTO) (*dto.GroupDTO, error) {
	s.created = req
	return &dto.GroupDTO{GroupID: 1, Name: req.Name, ImageURL: req.ImageURL}, nil
}

func (s *stubGroupService) GetGroup(_ context.Context, groupID uint64, password string) (*dto.GroupDTO, error) {
	s.lastPassword = password
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &dto.GroupDTO{GroupID: groupID}, nil
}

func (s *stubGroupService) ListGroups(_ context.Context, query *dto.ListQueryDTO) (*dto.PageDTO[*dto.GroupDTO], error) {
	return &dto.PageDTO[*dto.GroupDTO]{CurrentPage: 1, Data: []*dto.GroupDTO{}}, nil
}

type stubPostService struct {
	service.PostService
	lastPassword string
}

func (s *stubPostService) DeletePost(_ context.Context, _ uint64, password string) error {
	s.lastPassword = password
	if password != "ppw" {
		return service.ErrPasswordIncorrect
	}
	return nil
}

type stubImageService struct {
	calls int
}

func (s *stubImageService) UploadImage(_ context.Context, file *multipart.FileHeader) (*dto.ImageDTO, error) {
	s.calls++
	return &dto.ImageDTO{ImageURL: "http://cdn/images/" + file.Filename}, nil
}

func newTestRouter(groupSvc service.GroupService, postSvc service.PostService, imageSvc service.ImageService) *gin.Engine {
	gh := NewGroupHandler(groupSvc, imageSvc)
	ph := NewPostHandler(postSvc, imageSvc)

	r := gin.New()
	r.POST("/api/groups", gh.CreateGroup)
	r.GET("/api/groups", gh.ListGroups)
	r.GET("/api/groups/:groupId", gh.GetGroup)
	r.DELETE("/api/posts/:postId", ph.DeletePost)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var res dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return res
}

func TestGetGroupBadIDIsNotFound(t *testing.T) {
	r := newTestRouter(&stubGroupService{}, &stubPostService{}, &stubImageService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups/abc", nil))

	if w.Code != http.StatusNotFound || decode(t, w).Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetGroupPassesQueryPassword(t *testing.T) {
	svc := &stubGroupService{}
	r := newTestRouter(svc, &stubPostService{}, &stubImageService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups/1?password=pw1", nil))

	if w.Code != http.StatusOK || svc.lastPassword != "pw1" {
		t.Fatalf("status=%d password=%q", w.Code, svc.lastPassword)
	}
}

func TestGetGroupMapsGateErrors(t *testing.T) {
	svc := &stubGroupService{getErr: service.ErrPasswordRequired}
	r := newTestRouter(svc, &stubPostService{}, &stubImageService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups/1", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing password status = %d", w.Code)
	}

	svc.getErr = service.ErrPasswordIncorrect
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups/1?password=x", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong password status = %d", w.Code)
	}
}

func TestDeletePostReadsBodyPassword(t *testing.T) {
	svc := &stubPostService{}
	r := newTestRouter(&stubGroupService{}, svc, &stubImageService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/3", strings.NewReader(`{"password":"ppw"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || svc.lastPassword != "ppw" {
		t.Fatalf("status=%d password=%q", w.Code, svc.lastPassword)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/posts/3", strings.NewReader(`{"password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	r := newTestRouter(&stubGroupService{}, &stubPostService{}, &stubImageService{})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"name":`, http.StatusBadRequest},
		{"name too long", `{"name":"` + strings.Repeat("n", 21) + `","password":"pw"}`, http.StatusUnprocessableEntity},
		{"missing password", `{"name":"g"}`, http.StatusUnprocessableEntity},
		{"ok", `{"name":"g","password":"pw","isPublic":false}`, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/groups", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestCreateGroupMultipartUploadsImage(t *testing.T) {
	groupSvc := &stubGroupService{}
	imageSvc := &stubImageService{}
	r := newTestRouter(groupSvc, &stubPostService{}, imageSvc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "g")
	_ = mw.WriteField("password", "pw")
	_ = mw.WriteField("isPublic", "true")
	fw, _ := mw.CreateFormFile("image", "cover.png")
	_, _ = fw.Write([]byte("fake"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/groups", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if imageSvc.calls != 1 || groupSvc.created.ImageURL != "http://cdn/images/cover.png" {
		t.Fatalf("image not uploaded: calls=%d url=%q", imageSvc.calls, groupSvc.created.ImageURL)
	}
	if groupSvc.created.IsPublic == nil || !*groupSvc.created.IsPublic {
		t.Fatalf("isPublic not bound from form")
	}
}

func TestListGroupsEnvelope(t *testing.T) {
	r := newTestRouter(&stubGroupService{}, &stubPostService{}, &stubImageService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups?page=x&sortBy=mostLiked", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"currentPage":1`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}
