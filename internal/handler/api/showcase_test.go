//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/handler/api"
	resdto "showcase-service/internal/handler/dto/response"
	"showcase-service/internal/usecase/commands"
	"showcase-service/internal/usecase/queries"
	"showcase-service/tests/common/builder"
	"showcase-service/tests/common/httptest"
	"showcase-service/tests/common/testutil"
	commandsmock "showcase-service/tests/mock/commands"
	queriesmock "showcase-service/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ShowcaseHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockShowcaseCommands
	mockQueries  *queriesmock.MockShowcaseQueries
	handler      *api.ShowcaseHandler
}

func (s *ShowcaseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockShowcaseCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockShowcaseQueries(s.mockCtrl)
	s.handler = api.NewShowcaseHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/showcases", s.handler.Schedule)
	s.router.GET("/showcases", s.handler.List)
	s.router.GET("/showcases/:id", s.handler.Get)
	s.router.POST("/showcases/:id/start", s.handler.Start)
	s.router.POST("/showcases/:id/finish", s.handler.Finish)
	s.router.DELETE("/showcases/:id", s.handler.Remove)
}

func (s *ShowcaseHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestShowcaseHandlerSuite(t *testing.T) {
	suite.Run(t, new(ShowcaseHandlerTestSuite))
}

// ================================================================================
// TestSchedule
// ================================================================================

func (s *ShowcaseHandlerTestSuite) TestSchedule() {
	url := "/showcases"
	reqBody := builder.NewShowcaseBuilder().BuildScheduleRequestDTO()

	s.Run("success: returns 202 Accepted", func() {
		s.mockCommands.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		s.Equal(http.StatusAccepted, rec.Code)
	})

	s.Run("error: 400 Bad Request on binding errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing showcase_id", mutate: testutil.Field("showcase_id", nil)},
			{name: "missing title", mutate: testutil.Field("title", nil)},
			{name: "missing start_time", mutate: testutil.Field("start_time", nil)},
			{name: "missing duration_seconds", mutate: testutil.Field("duration_seconds", nil)},
			{name: "non-positive duration_seconds", mutate: testutil.Field("duration_seconds", -60)},
			{name: "malformed showcase_id", mutate: testutil.Field("showcase_id", "not-a-uuid")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_COMMAND")
			})
		}
	})

	s.Run("error: maps command errors to statuses and codes", func() {
		cases := []struct {
			name         string
			commandsErr  error
			expectStatus int
			expectCode   string
		}{
			{
				name:         "validation failure",
				commandsErr:  commands.ErrInvalidCommand,
				expectStatus: http.StatusBadRequest,
				expectCode:   "INVALID_COMMAND",
			},
			{
				name:         "title in use",
				commandsErr:  commands.ErrTitleInUse,
				expectStatus: http.StatusConflict,
				expectCode:   "TITLE_IN_USE",
			},
			{
				name:         "reschedule attempt",
				commandsErr:  commands.ErrIllegalState,
				expectStatus: http.StatusConflict,
				expectCode:   "ILLEGAL_STATE",
			},
			{
				name:         "concurrent modification",
				commandsErr:  commands.ErrConcurrencyConflict,
				expectStatus: http.StatusConflict,
				expectCode:   "CONFLICT",
			},
			{
				name:         "store failure",
				commandsErr:  commands.ErrStoreFailure,
				expectStatus: http.StatusInternalServerError,
				expectCode:   "INTERNAL",
			},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return(tc.commandsErr).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectStatus, tc.expectCode)
			})
		}
	})
}

// ================================================================================
// TestStartFinishRemove
// ================================================================================

func (s *ShowcaseHandlerTestSuite) TestStart() {
	id := uuid.New()

	s.Run("success: returns 202 Accepted", func() {
		s.mockCommands.EXPECT().Start(gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/showcases/"+id.String()+"/start", nil)
		s.Equal(http.StatusAccepted, rec.Code)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/showcases/not-a-uuid/start", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_COMMAND")
	})

	s.Run("error: 404 when showcase unknown", func() {
		s.mockCommands.EXPECT().Start(gomock.Any(), id).Return(commands.ErrShowcaseNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/showcases/"+id.String()+"/start", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})

	s.Run("error: 409 when already finished", func() {
		s.mockCommands.EXPECT().Start(gomock.Any(), id).Return(commands.ErrIllegalState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/showcases/"+id.String()+"/start", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "ILLEGAL_STATE")
	})
}

func (s *ShowcaseHandlerTestSuite) TestFinish() {
	id := uuid.New()

	s.Run("success: returns 202 Accepted", func() {
		s.mockCommands.EXPECT().Finish(gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/showcases/"+id.String()+"/finish", nil)
		s.Equal(http.StatusAccepted, rec.Code)
	})

	s.Run("error: 409 when not yet started", func() {
		s.mockCommands.EXPECT().Finish(gomock.Any(), id).Return(commands.ErrIllegalState).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/showcases/"+id.String()+"/finish", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "ILLEGAL_STATE")
	})
}

func (s *ShowcaseHandlerTestSuite) TestRemove() {
	id := uuid.New()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Remove(gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/showcases/"+id.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/showcases/not-a-uuid", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_COMMAND")
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func (s *ShowcaseHandlerTestSuite) TestGet() {
	b := builder.NewShowcaseBuilder()
	view := b.BuildView()

	s.Run("success: returns the view", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ShowcaseID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/showcases/"+b.ShowcaseID.String(), nil)

		var body resdto.ShowcaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(b.ShowcaseID, body.ShowcaseID)
		s.Equal(b.Title, body.Title)
		s.Equal(showcase.StatusScheduled.String(), body.Status)
		s.Equal(int64(b.Duration.Seconds()), body.DurationSeconds)
	})

	s.Run("error: 404 when view missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ShowcaseID).Return(nil, queries.ErrShowcaseNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/showcases/"+b.ShowcaseID.String(), nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

func (s *ShowcaseHandlerTestSuite) TestList() {
	view := builder.NewShowcaseBuilder().BuildView()

	s.Run("success: returns items and next cursor", func() {
		next := &queries.Cursor{After: "opaque"}
		s.mockQueries.EXPECT().
			List(gomock.Any(), gomock.Any(), gomock.Any(), 2).
			Return([]*queries.ShowcaseView{view}, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/showcases?limit=2", nil)

		var body struct {
			Showcases  []resdto.ShowcaseResponse `json:"showcases"`
			NextCursor string                    `json:"next_cursor"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Showcases, 1)
		s.Equal("opaque", body.NextCursor)
	})

	s.Run("success: passes status filters through", func() {
		s.mockQueries.EXPECT().
			List(gomock.Any(), queries.ShowcaseFilters{Statuses: []showcase.Status{showcase.StatusScheduled, showcase.StatusStarted}}, gomock.Any(), gomock.Any()).
			Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/showcases?status=scheduled&status=STARTED", nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 on unknown status filter", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/showcases?status=bogus", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_COMMAND")
	})

	s.Run("error: 400 on invalid cursor", func() {
		s.mockQueries.EXPECT().
			List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/showcases?after="+strings.Repeat("x", 8), nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_COMMAND")
	})
}
