// comment_flow_test.go contains handler integration tests for the Comments
// handler group: creation error mapping and reaction toggles, including the
// locked-post rules. Tests exercise a real database connection and are
// skipped when it is unavailable.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return body
}

func TestCommentReactionOnLockedPost(t *testing.T) {
	env := newTestEnv(t)

	author := seedUser(t, env.DB, "hf_lockreact")
	category := seedCategory(t, env.DB, "HF LockReact", "hf-lockreact")
	post := seedPost(t, env.DB, author, category, "A thread that gets frozen")

	comment, err := env.Comments.Create("A comment before the freeze", author.ID, post.ID, nil)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	// Liking works while the post is open.
	req := httptest.NewRequest(http.MethodPost, "/api/comments/"+comment.ID.String()+"/like", nil)
	req = withUser(withChiURLParam(req, "id", comment.ID.String()), author)
	rec := httptest.NewRecorder()

	env.CommentsH.ToggleLike(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status before lock: got %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["liked"] != true {
		t.Errorf("liked: got %v, want true", body["liked"])
	}
	if body["likeCount"] != float64(1) {
		t.Errorf("likeCount: got %v, want 1", body["likeCount"])
	}

	lockPost(t, env.DB, post.ID)

	// Once locked, the whole thread is frozen: reactions are refused with
	// the dedicated locked error, not a 404.
	req = httptest.NewRequest(http.MethodPost, "/api/comments/"+comment.ID.String()+"/like", nil)
	req = withUser(withChiURLParam(req, "id", comment.ID.String()), author)
	rec = httptest.NewRecorder()

	env.CommentsH.ToggleLike(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status after lock: got %d, want 403 (body %q)", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	if body["message"] != "This post is locked." {
		t.Errorf("message: got %q, want the locked error", body["message"])
	}

	// The refused toggle left the existing reaction untouched.
	kind, err := env.Reactions.KindFor("comment", comment.ID, author.ID)
	if err != nil {
		t.Fatalf("KindFor: %v", err)
	}
	if string(kind) != "liked" {
		t.Errorf("reaction after refused toggle: got %q, want liked", kind)
	}

	// Dislikes are refused the same way.
	req = httptest.NewRequest(http.MethodPost, "/api/comments/"+comment.ID.String()+"/dislike", nil)
	req = withUser(withChiURLParam(req, "id", comment.ID.String()), author)
	rec = httptest.NewRecorder()

	env.CommentsH.ToggleDislike(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("dislike status after lock: got %d, want 403", rec.Code)
	}
}

func TestCommentCreateErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	author := seedUser(t, env.DB, "hf_cmap")
	category := seedCategory(t, env.DB, "HF CMap", "hf-cmap")
	post := seedPost(t, env.DB, author, category, "Error mapping post one")
	other := seedPost(t, env.DB, author, category, "Error mapping post two")

	top, err := env.Comments.Create("Top-level comment", author.ID, post.ID, nil)
	if err != nil {
		t.Fatalf("create top: %v", err)
	}
	reply, err := env.Comments.Create("First-level reply", author.ID, post.ID, &top.ID)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	locked := seedPost(t, env.DB, author, category, "Error mapping locked post")
	lockPost(t, env.DB, locked.ID)

	create := func(t *testing.T, payload string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/comments/", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		env.CommentsH.Create(rec, withUser(req, author))
		return rec
	}

	t.Run("locked post", func(t *testing.T) {
		rec := create(t, `{"content":"On a locked post","postId":"`+locked.ID.String()+`"}`)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rec.Code)
		}
		if body := decodeBody(t, rec); body["message"] != "This post is locked." {
			t.Errorf("message: got %q, want the locked error", body["message"])
		}
	})

	t.Run("missing post", func(t *testing.T) {
		rec := create(t, `{"content":"On a missing post","postId":"`+uuid.NewString()+`"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})

	t.Run("nested reply", func(t *testing.T) {
		rec := create(t, `{"content":"Reply to a reply","postId":"`+post.ID.String()+`","parentComment":"`+reply.ID.String()+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})

	t.Run("parent on different post", func(t *testing.T) {
		rec := create(t, `{"content":"Cross-post reply","postId":"`+other.ID.String()+`","parentComment":"`+top.ID.String()+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		rec := create(t, `{"content":"Orphaned reply","postId":"`+post.ID.String()+`","parentComment":"`+uuid.NewString()+`"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})
}
