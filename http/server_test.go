package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/awalczyk/qbank"
	qbankhttp "github.com/awalczyk/qbank/http"
	"github.com/awalczyk/qbank/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestServer_SubmitCapture(t *testing.T) {
	t.Parallel()

	t.Run("submits capture and returns outcome", func(t *testing.T) {
		t.Parallel()

		captures := &mock.CaptureService{
			SubmitFn: func(ctx context.Context, c *qbank.Capture) (*qbank.Outcome, error) {
				assert.Equal(t, "https://example.com/question/4521", c.URL)
				return &qbank.Outcome{
					Status:       "success",
					CaptureCount: 1,
					Files:        qbank.FileSet{HTML: "/data/x.html", JSON: "/data/x.json"},
					Database:     qbank.DBResult{Persisted: true},
				}, nil
			},
		}
		srv := qbankhttp.NewServer(captures, nil, "", testLogger())

		body := `{"url":"https://example.com/question/4521","pageHTML":"<p/>"}`
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)

		var outcome qbank.Outcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
		assert.Equal(t, "success", outcome.Status)
		assert.True(t, outcome.Database.Persisted)
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		t.Parallel()

		srv := qbankhttp.NewServer(&mock.CaptureService{}, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader("{broken")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 400 for invalid capture", func(t *testing.T) {
		t.Parallel()

		captures := &mock.CaptureService{
			SubmitFn: func(ctx context.Context, c *qbank.Capture) (*qbank.Outcome, error) {
				return nil, qbank.Errorf(qbank.EINVALID, "capture URL required")
			},
		}
		srv := qbankhttp.NewServer(captures, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader("{}")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sets CORS headers", func(t *testing.T) {
		t.Parallel()

		srv := qbankhttp.NewServer(&mock.CaptureService{}, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/extract", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_Captures(t *testing.T) {
	t.Parallel()

	t.Run("lists capture summaries", func(t *testing.T) {
		t.Parallel()

		captures := &mock.CaptureService{
			CapturesFn: func() []qbank.CaptureSummary {
				return []qbank.CaptureSummary{
					{URL: "https://example.com/question/1", SiteName: "uworld"},
				}
			},
		}
		srv := qbankhttp.NewServer(captures, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extractions", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Count       int                    `json:"count"`
			Extractions []qbank.CaptureSummary `json:"extractions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		require.Len(t, resp.Extractions, 1)
		assert.Equal(t, "uworld", resp.Extractions[0].SiteName)
	})

	t.Run("returns capture by index", func(t *testing.T) {
		t.Parallel()

		captures := &mock.CaptureService{
			CaptureFn: func(index int) (*qbank.Capture, error) {
				assert.Equal(t, 3, index)
				return &qbank.Capture{URL: "https://example.com/question/3"}, nil
			},
		}
		srv := qbankhttp.NewServer(captures, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extractions/3", nil))

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("returns 404 for evicted index", func(t *testing.T) {
		t.Parallel()

		captures := &mock.CaptureService{
			CaptureFn: func(index int) (*qbank.Capture, error) {
				return nil, qbank.Errorf(qbank.ENOTFOUND, "capture not found")
			},
		}
		srv := qbankhttp.NewServer(captures, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extractions/99", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 400 for non-numeric index", func(t *testing.T) {
		t.Parallel()

		srv := qbankhttp.NewServer(&mock.CaptureService{}, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extractions/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("clears the capture log", func(t *testing.T) {
		t.Parallel()

		cleared := false
		captures := &mock.CaptureService{
			ClearCapturesFn: func() { cleared = true },
		}
		srv := qbankhttp.NewServer(captures, nil, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clear", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, cleared)
	})
}

func TestServer_Questions(t *testing.T) {
	t.Parallel()

	t.Run("lists question summaries", func(t *testing.T) {
		t.Parallel()

		store := &mock.QuestionStore{
			BeginFn: func(ctx context.Context) (qbank.Tx, error) {
				return &mock.Tx{
					QuestionSummariesFn: func(ctx context.Context) ([]*qbank.QuestionSummary, error) {
						return []*qbank.QuestionSummary{
							{ID: "q1", SourceName: "uworld", SourceKey: "4521"},
						}, nil
					},
				}, nil
			},
		}
		srv := qbankhttp.NewServer(&mock.CaptureService{}, store, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/questions", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Count     int                      `json:"count"`
			Questions []*qbank.QuestionSummary `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("returns question detail with media", func(t *testing.T) {
		t.Parallel()

		store := &mock.QuestionStore{
			BeginFn: func(ctx context.Context) (qbank.Tx, error) {
				return &mock.Tx{
					QuestionByIDFn: func(ctx context.Context, id string) (*qbank.Question, error) {
						return &qbank.Question{ID: id, SourceKey: "4521"}, nil
					},
					MediaByQuestionFn: func(ctx context.Context, questionID string) ([]*qbank.Media, error) {
						return []*qbank.Media{{ID: "m1", RelativePath: "uworld/4521_img1.png"}}, nil
					},
				}, nil
			},
		}
		srv := qbankhttp.NewServer(&mock.CaptureService{}, store, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/questions/q1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "4521_img1.png")
	})

	t.Run("updates metadata with list-form tags", func(t *testing.T) {
		t.Parallel()

		var applied qbank.QuestionUpdate
		committed := false
		store := &mock.QuestionStore{
			BeginFn: func(ctx context.Context) (qbank.Tx, error) {
				return &mock.Tx{
					UpdateQuestionFn: func(ctx context.Context, id string, upd qbank.QuestionUpdate) (*qbank.Question, error) {
						applied = upd
						return &qbank.Question{ID: id}, nil
					},
					CommitFn: func() error {
						committed = true
						return nil
					},
				}, nil
			},
		}
		srv := qbankhttp.NewServer(&mock.CaptureService{}, store, "", testLogger())

		body := `{"tags":["cardiology","ecg"],"state":"suspended"}`
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/questions/q1/metadata", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, applied.Tags)
		assert.Equal(t, "cardiology, ecg", *applied.Tags)
		require.NotNil(t, applied.State)
		assert.Equal(t, "suspended", *applied.State)
		assert.True(t, committed)
	})

	t.Run("rejects non-string tags", func(t *testing.T) {
		t.Parallel()

		srv := qbankhttp.NewServer(&mock.CaptureService{}, &mock.QuestionStore{}, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/questions/q1/metadata", strings.NewReader(`{"tags":[1,2]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 404 for unknown question", func(t *testing.T) {
		t.Parallel()

		store := &mock.QuestionStore{
			BeginFn: func(ctx context.Context) (qbank.Tx, error) {
				return &mock.Tx{
					QuestionByIDFn: func(ctx context.Context, id string) (*qbank.Question, error) {
						return nil, qbank.Errorf(qbank.ENOTFOUND, "question not found")
					},
				}, nil
			},
		}
		srv := qbankhttp.NewServer(&mock.CaptureService{}, store, "", testLogger())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/questions/none", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
