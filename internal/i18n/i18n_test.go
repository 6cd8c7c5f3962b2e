package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return WithLocalizer(context.Background(), NewLocalizer(lang))
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "AppTitle"); got != "Drill" {
		t.Errorf("T(AppTitle) = %q, want 'Drill'", got)
	}
	if got := T(ctx, "Mode_review"); got != "Review mistakes" {
		t.Errorf("T(Mode_review) = %q", got)
	}
}

func TestTranslateChinese(t *testing.T) {
	ctx := initLang(t, "zh")

	if got := T(ctx, "PageLeaderboard"); got != "错题排行榜" {
		t.Errorf("T(PageLeaderboard) = %q, want '错题排行榜'", got)
	}
	if got := Td(ctx, "QuestionN", map[string]any{"ID": 12}); got != "第 12 题" {
		t.Errorf("Td(QuestionN) = %q", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "QuestionsLoaded", 1); got != "1 question" {
		t.Errorf("Tp(QuestionsLoaded, 1) = %q", got)
	}
	if got := Tp(ctx, "QuestionsLoaded", 5); got != "5 questions" {
		t.Errorf("Tp(QuestionsLoaded, 5) = %q", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "AnswerWrong", map[string]any{"Answer": "C"})
	if got != "Wrong! The correct answer is C." {
		t.Errorf("Td(AnswerWrong) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestUnsupportedLanguageFallsBack(t *testing.T) {
	ctx := initLang(t, "fr")

	if got := T(ctx, "AppTitle"); got != "Drill" {
		t.Errorf("T(AppTitle) = %q, want default language", got)
	}
}

func TestMiddlewareAcceptLanguage(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	tests := []struct {
		name   string
		query  string
		accept string
		want   string
	}{
		{"default", "", "", "Drill"},
		{"accept zh", "", "zh-CN,zh;q=0.9,en;q=0.8", "刷题"},
		{"query wins", "?lang=en", "zh-CN", "Drill"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Middleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = T(r.Context(), "AppTitle")
			}))
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("AppTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddlewareCookiePath(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	tests := []struct {
		basePath string
		want     string
	}{
		{"", "/"},
		{"/quiz", "/quiz/"},
	}
	for _, tt := range tests {
		h := Middleware(tt.basePath)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.basePath+"/?lang=zh", nil))

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != "lang" {
			t.Fatalf("basePath %q: expected one lang cookie, got %v", tt.basePath, cookies)
		}
		if cookies[0].Path != tt.want {
			t.Errorf("basePath %q: cookie path = %q, want %q", tt.basePath, cookies[0].Path, tt.want)
		}
	}
}
