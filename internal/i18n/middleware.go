package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Middleware injects a localizer into every request context. The language
// is taken from the "lang" query parameter or cookie, then Accept-Language,
// then the default passed to Init. The language cookie is scoped to basePath.
func Middleware(basePath string) func(http.Handler) http.Handler {
	matcher := language.NewMatcher(Supported())
	cookiePath := strings.TrimRight(basePath, "/") + "/"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var prefs []string
			if q := r.URL.Query().Get("lang"); q != "" {
				prefs = append(prefs, q)
				http.SetCookie(w, &http.Cookie{Name: "lang", Value: q, Path: cookiePath, SameSite: http.SameSiteLaxMode})
			} else if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
				prefs = append(prefs, c.Value)
			}
			if accept := r.Header.Get("Accept-Language"); accept != "" {
				if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
					tag, _, conf := matcher.Match(tags...)
					if conf != language.No {
						base, _ := tag.Base()
						prefs = append(prefs, base.String())
					}
				}
			}
			ctx := WithLocalizer(r.Context(), NewLocalizer(prefs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
