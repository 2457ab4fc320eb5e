package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/config"
	"github.com/Astemirdum/local-library/internal/errs"
	"github.com/Astemirdum/local-library/internal/model"
	"github.com/Astemirdum/local-library/internal/repository"
	mock_repository "github.com/Astemirdum/local-library/internal/repository/mocks"
	"github.com/Astemirdum/local-library/internal/view"
	"github.com/Astemirdum/local-library/internal/workflow"
)

type repoMocks struct {
	author       *mock_repository.MockAuthorRepository
	genre        *mock_repository.MockGenreRepository
	book         *mock_repository.MockBookRepository
	bookInstance *mock_repository.MockBookInstanceRepository
}

func newTestRouter(t *testing.T, ctrl *gomock.Controller) (http.Handler, repoMocks) {
	t.Helper()

	m := repoMocks{
		author:       mock_repository.NewMockAuthorRepository(ctrl),
		genre:        mock_repository.NewMockGenreRepository(ctrl),
		book:         mock_repository.NewMockBookRepository(ctrl),
		bookInstance: mock_repository.NewMockBookInstanceRepository(ctrl),
	}
	repo := &repository.Repository{
		Author:       m.author,
		Genre:        m.genre,
		Book:         m.book,
		BookInstance: m.bookInstance,
	}

	log := zap.NewNop()
	wf := Workflows{
		Home:         workflow.NewHome(repo, log),
		Author:       workflow.NewAuthor(repo, log),
		Genre:        workflow.NewGenre(repo, log),
		Book:         workflow.NewBook(repo, log),
		BookInstance: workflow.NewBookInstance(repo, log),
	}
	cfg := config.Config{
		Server: config.HTTPServer{RPS: 100},
		Mode:   "development",
	}

	renderer, err := view.NewRenderer(cfg.Development())
	require.NoError(t, err)

	return New(wf, cfg, log).NewRouter(renderer), m
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		target       string
		form         url.Values
		mockBehavior func(m repoMocks)
		wantStatus   int
		wantLocation string
		wantBody     []string
	}{
		{
			name:         "root redirects to catalog",
			method:       http.MethodGet,
			target:       "/",
			mockBehavior: func(m repoMocks) {},
			wantStatus:   http.StatusFound,
			wantLocation: "/catalog",
		},
		{
			name:         "health",
			method:       http.MethodGet,
			target:       "/manage/health",
			mockBehavior: func(m repoMocks) {},
			wantStatus:   http.StatusOK,
			wantBody:     []string{"OK"},
		},
		{
			name:   "home page shows counts",
			method: http.MethodGet,
			target: "/catalog",
			mockBehavior: func(m repoMocks) {
				m.book.EXPECT().Count(gomock.Any()).Return(5, nil)
				m.bookInstance.EXPECT().Count(gomock.Any()).Return(7, nil)
				m.bookInstance.EXPECT().CountByStatus(gomock.Any(), model.StatusAvailable).Return(3, nil)
				m.author.EXPECT().Count(gomock.Any()).Return(2, nil)
				m.genre.EXPECT().Count(gomock.Any()).Return(4, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Local Library Home", "Books", "Authors"},
		},
		{
			name:   "author list",
			method: http.MethodGet,
			target: "/catalog/authors",
			mockBehavior: func(m repoMocks) {
				m.author.EXPECT().List(gomock.Any()).Return([]model.Author{
					{ID: "a1", FamilyName: "Rothfuss", FirstName: "Patrick"},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Author List", "Rothfuss, Patrick"},
		},
		{
			name:   "author detail not found renders error page",
			method: http.MethodGet,
			target: "/catalog/author/missing",
			mockBehavior: func(m repoMocks) {
				m.author.EXPECT().Get(gomock.Any(), "missing").
					Return(model.Author{}, errs.ErrNotFound)
				m.book.EXPECT().ListByAuthor(gomock.Any(), "missing").
					Return(nil, nil).AnyTimes()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   []string{"Author not found"},
		},
		{
			name:   "create author form",
			method: http.MethodGet,
			target: "/catalog/author/create",
			mockBehavior: func(m repoMocks) {
				// no store access on a blank form
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Create Author", "first_name", "family_name"},
		},
		{
			name:   "invalid author submission re-renders with errors",
			method: http.MethodPost,
			target: "/catalog/author/create",
			form: url.Values{
				"first_name": {"Patrick"},
			},
			mockBehavior: func(m repoMocks) {},
			wantStatus:   http.StatusOK,
			wantBody:     []string{"Family name must be specified.", `value="Patrick"`},
		},
		{
			name:   "valid author submission redirects to detail",
			method: http.MethodPost,
			target: "/catalog/author/create",
			form: url.Values{
				"first_name":  {"Patrick"},
				"family_name": {"Rothfuss"},
			},
			mockBehavior: func(m repoMocks) {
				m.author.EXPECT().Create(gomock.Any(), gomock.Any()).Return("a1", nil)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/catalog/author/a1",
		},
		{
			name:   "duplicate genre redirects to existing record",
			method: http.MethodPost,
			target: "/catalog/genre/create",
			form:   url.Values{"name": {"Fantasy"}},
			mockBehavior: func(m repoMocks) {
				m.genre.EXPECT().FindByName(gomock.Any(), "Fantasy").
					Return(model.Genre{ID: "g1", Name: "Fantasy"}, nil)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/catalog/genre/g1",
		},
		{
			name:   "book form lists authors and genres",
			method: http.MethodGet,
			target: "/catalog/book/create",
			mockBehavior: func(m repoMocks) {
				m.author.EXPECT().List(gomock.Any()).Return([]model.Author{
					{ID: "a1", FamilyName: "Rothfuss", FirstName: "Patrick"},
				}, nil)
				m.genre.EXPECT().List(gomock.Any()).Return([]model.Genre{
					{ID: "g1", Name: "Fantasy"},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Create Book", "Rothfuss, Patrick", "Fantasy"},
		},
		{
			name:   "referencing book blocks author delete",
			method: http.MethodPost,
			target: "/catalog/author/a1/delete",
			mockBehavior: func(m repoMocks) {
				m.author.EXPECT().Get(gomock.Any(), "a1").
					Return(model.Author{ID: "a1", FamilyName: "Rothfuss", FirstName: "Patrick"}, nil)
				m.book.EXPECT().ListByAuthor(gomock.Any(), "a1").
					Return([]model.Book{{ID: "b1", Title: "The Name of the Wind"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Delete Author", "The Name of the Wind"},
		},
		{
			name:   "delete of a missing record redirects to the list",
			method: http.MethodGet,
			target: "/catalog/bookinstance/missing/delete",
			mockBehavior: func(m repoMocks) {
				m.bookInstance.EXPECT().Get(gomock.Any(), "missing").
					Return(model.BookInstance{}, errs.ErrNotFound)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/catalog/bookinstances",
		},
		{
			name:   "store failure renders the error page",
			method: http.MethodGet,
			target: "/catalog/genres",
			mockBehavior: func(m repoMocks) {
				m.genre.EXPECT().List(gomock.Any()).
					Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{"connection reset"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			router, m := newTestRouter(t, ctrl)
			tt.mockBehavior(m)

			var req *http.Request
			if tt.form != nil {
				req = httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.form.Encode()))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			} else {
				req = httptest.NewRequest(tt.method, tt.target, nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				require.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			for _, want := range tt.wantBody {
				require.Contains(t, rec.Body.String(), want)
			}
		})
	}
}
