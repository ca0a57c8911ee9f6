package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"careerhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosts_CreateKeepsDuplicateTags(t *testing.T) {
	var received models.PostInput
	mux := http.NewServeMux()
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeJSON(w, http.StatusCreated, models.Post{ID: gofakeit.UUID(), Content: received.Content, Tags: received.Tags})
	})
	svc, _ := newTestServices(t, mux, "")

	in, err := models.NewPostInput("Hello", "a, b, b")
	require.NoError(t, err)
	post, err := svc.Posts.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Hello", received.Content)
	assert.Equal(t, []string{"a", "b", "b"}, received.Tags)
	assert.Equal(t, []string{"a", "b", "b"}, post.Tags)
}

type likeBackend struct {
	mu    sync.Mutex
	likes map[string]bool
}

func (b *likeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /posts/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.likes[r.PathValue("id")] = !b.likes[r.PathValue("id")]
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		post := models.Post{ID: "p1", Content: gofakeit.Sentence(6), Likes: []string{}}
		if b.likes["p1"] {
			post.Likes = []string{"me"}
		}
		writeJSON(w, http.StatusOK, []models.Post{post})
	})
	return mux
}

func TestPosts_ToggleLikeTwiceRestoresState(t *testing.T) {
	backend := &likeBackend{likes: map[string]bool{}}
	svc, _ := newTestServices(t, backend.handler(), "")
	ctx := context.Background()

	before, err := svc.Posts.List(ctx, 0, 20)
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, svc.Posts.ToggleLike(ctx, "p1"))
	mid, err := svc.Posts.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.True(t, mid[0].LikedBy("me"))

	require.NoError(t, svc.Posts.ToggleLike(ctx, "p1"))
	after, err := svc.Posts.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, before[0].LikedBy("me"), after[0].LikedBy("me"))
}

func TestPosts_AddCommentRequiresText(t *testing.T) {
	var hits atomic.Int32
	svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), "")

	err := svc.Posts.AddComment(context.Background(), "p1", "   ")
	assert.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestPosts_ListFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("network failure with flag on serves demo posts", func(t *testing.T) {
		posts, err := unreachableServices(t, "demo_fallback=on").Posts.List(ctx, 0, 20)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("network failure with flag off surfaces the error", func(t *testing.T) {
		_, err := unreachableServices(t, "demo_fallback=off").Posts.List(ctx, 0, 20)
		assert.ErrorIs(t, err, models.ErrNetwork)
	})

	t.Run("canceled request is not a network failure", func(t *testing.T) {
		var hits atomic.Int32
		svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeJSON(w, http.StatusOK, []models.Post{})
		}), "demo_fallback=on")
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		posts, err := svc.Posts.List(canceled, 0, 20)
		require.Error(t, err)
		assert.Nil(t, posts)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, models.ErrNetwork))
		assert.Zero(t, hits.Load())
	})

	t.Run("http error is never replaced", func(t *testing.T) {
		svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		}), "demo_fallback=on")
		_, err := svc.Posts.List(ctx, 0, 20)
		var apiErr *models.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "boom", apiErr.Message)
	})
}

func TestFallback_OtherResources(t *testing.T) {
	ctx := context.Background()
	svc := unreachableServices(t, "demo_fallback=on")

	notes, err := svc.Notifications.List(ctx, models.NotificationQuery{})
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	unread, err := svc.Notifications.List(ctx, models.NotificationQuery{UnreadOnly: true})
	require.NoError(t, err)
	for _, n := range unread {
		assert.False(t, n.IsRead)
	}

	gaps, err := svc.Learning.MyGaps(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, gaps)

	recs, err := svc.Learning.Recommendations(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, recs)

	paths, err := svc.Learning.MyPaths(ctx)
	require.NoError(t, err)
	assert.Len(t, paths, 1)

	// Jobs have no demo data.
	_, err = svc.Jobs.List(ctx, 0, 20, models.JobFilter{})
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestJobs_ListQuery(t *testing.T) {
	var query map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		writeJSON(w, http.StatusOK, []models.Job{{ID: gofakeit.UUID(), Title: gofakeit.JobTitle()}})
	})
	svc, _ := newTestServices(t, mux, "")

	jobs, err := svc.Jobs.List(context.Background(), 40, 20, models.JobFilter{Keyword: " go ", Location: "Berlin"})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, map[string]string{"skip": "40", "limit": "20", "keyword": "go", "location": "Berlin"}, query)
}

func TestJobs_CreateValidatesBeforeSending(t *testing.T) {
	var hits atomic.Int32
	svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), "")

	_, err := svc.Jobs.Create(context.Background(), models.JobInput{Description: "x"})
	assert.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestJobs_UpdateStage(t *testing.T) {
	var body map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /jobs/{id}/applications/{app}/stage", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "j1", r.PathValue("id"))
		assert.Equal(t, "a9", r.PathValue("app"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	})
	svc, _ := newTestServices(t, mux, "")

	require.NoError(t, svc.Jobs.UpdateStage(context.Background(), "j1", "a9", models.StageInterview))
	assert.Equal(t, "interview", body["stage"])
}

type inboxBackend struct {
	mu    sync.Mutex
	items []models.Notification
}

func (b *inboxBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /notifications/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.items)
	})
	mux.HandleFunc("PUT /notifications/read-all", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.items = models.MarkAllRead(b.items)
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PUT /notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.items = models.MarkRead(b.items, r.PathValue("id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestNotifications_MarkAllReadIsIdempotent(t *testing.T) {
	backend := &inboxBackend{}
	for i := 0; i < 4; i++ {
		backend.items = append(backend.items, models.Notification{
			ID:    gofakeit.UUID(),
			Title: gofakeit.Sentence(3),
			Kind:  models.KindMessage,
		})
	}
	svc, _ := newTestServices(t, backend.handler(), "")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.Notifications.MarkAllRead(ctx))
		items, err := svc.Notifications.List(ctx, models.NotificationQuery{})
		require.NoError(t, err)
		assert.Zero(t, models.CountUnread(items))
	}
}

func TestNotifications_ListQuery(t *testing.T) {
	var raw string
	svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []models.Notification{})
	}), "")

	_, err := svc.Notifications.List(context.Background(), models.NotificationQuery{UnreadOnly: true, Category: "jobs"})
	require.NoError(t, err)
	assert.Equal(t, "category=jobs&unread_only=true", raw)
}

func TestResume_Upload(t *testing.T) {
	var hits atomic.Int32
	var gotName string
	var gotContent []byte
	mux := http.NewServeMux()
	mux.HandleFunc("POST /resume/upload", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotName = fh.Filename
		gotContent, _ = io.ReadAll(f)
		writeJSON(w, http.StatusOK, models.ResumeResult{ID: "r1", FileName: fh.Filename, Skills: []string{"Go"}})
	})
	svc, _ := newTestServices(t, mux, "")
	ctx := context.Background()

	_, err := svc.Resume.Upload(ctx, "notes.docx", []byte("just some text"))
	assert.Error(t, err)
	_, err = svc.Resume.Upload(ctx, "cv.pdf", nil)
	assert.Error(t, err)
	assert.Zero(t, hits.Load(), "invalid files must not reach the backend")

	pdf := []byte("%PDF-1.7\n%%EOF\n")
	res, err := svc.Resume.Upload(ctx, "cv.pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "cv.pdf", gotName)
	assert.Equal(t, pdf, gotContent)
	assert.Equal(t, []string{"Go"}, res.Skills)
}

func TestScorecards_SubmitCarriesEveryCriterion(t *testing.T) {
	var got models.Scorecard
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scorecards", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})
	svc, _ := newTestServices(t, mux, "")

	tpl := models.ScorecardTemplate{ID: "t1", Name: "Backend loop"}
	ratings := map[string]int{}
	for i := 0; i < 5; i++ {
		name := gofakeit.HackerNoun() + strings.Repeat("x", i)
		tpl.Criteria = append(tpl.Criteria, models.Criterion{Name: name, Weight: float64(i + 1)})
		ratings[name] = 3
	}

	card, err := models.BuildScorecard(tpl, "app-1", models.DecisionPass, ratings, "solid")
	require.NoError(t, err)
	require.NoError(t, svc.Scorecards.Submit(context.Background(), card))

	require.Len(t, got.Scores, 5)
	for i, s := range got.Scores {
		assert.Equal(t, tpl.Criteria[i].Name, s.Criterion)
		assert.Equal(t, 3, s.Score)
		assert.Equal(t, tpl.Criteria[i].Weight, s.Weight)
	}
	assert.Equal(t, models.DecisionPass, got.Decision)
	assert.Equal(t, "app-1", got.ApplicationID)
}

func TestAdmin_Moderation(t *testing.T) {
	type hit struct{ path, reason string }
	var hits []hit
	var mu sync.Mutex
	svc, _ := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in models.ModerationInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		mu.Lock()
		hits = append(hits, hit{r.URL.Path, in.Reason})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}), "")
	ctx := context.Background()

	require.NoError(t, svc.Admin.ApproveJob(ctx, "j1"))
	require.NoError(t, svc.Admin.RejectJob(ctx, "j2", " spam "))
	require.NoError(t, svc.Admin.VerifyRecruiter(ctx, "r1"))
	require.NoError(t, svc.Admin.SuspendRecruiter(ctx, "r2", "fake company"))

	assert.Equal(t, []hit{
		{"/admin/jobs/j1/approve", ""},
		{"/admin/jobs/j2/reject", "spam"},
		{"/admin/recruiters/r1/verify", ""},
		{"/admin/recruiters/r2/suspend", "fake company"},
	}, hits)
}

func TestCompanies_Research(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /companies/research", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.CompanyResearch{Name: r.URL.Query().Get("name"), Industry: "Software"})
	})
	svc, _ := newTestServices(t, mux, "")

	res, err := svc.Companies.Research(context.Background(), " Acme Corp ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", res.Name)

	_, err = svc.Companies.Research(context.Background(), "")
	assert.Error(t, err)
}
