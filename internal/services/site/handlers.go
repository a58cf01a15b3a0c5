package site

import (
	"context"
	"encoding/xml"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
	"github.com/officialpathway/pathwei-website/internal/platform/i18n"
	"github.com/officialpathway/pathwei-website/internal/platform/id"
	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

const (
	pathHome       = "/"
	pathStory      = "/story"
	pathTeam       = "/team"
	pathPricing    = "/pricing"
	pathFeedback   = "/api/feedback"
	pathNewsletter = newsletter.PathSubscribe
	pathSitemap    = "/sitemap.xml"
	pathRobots     = "/robots.txt"
	pathHealth     = "/healthz"
	staticPrefix   = "/static/"
)

// maxFeedbackPage bounds the page path stored with feedback.
const maxFeedbackPage = 256

// contentPaths are the pages always listed in the sitemap.
var contentPaths = []string{pathHome, pathStory, pathTeam, pathPricing}

// SEOReader is the page metadata the site needs.
type SEOReader interface {
	GetSEO(ctx context.Context, path string) (storage.SEOEntry, error)
	ListSEO(ctx context.Context) ([]storage.SEOEntry, error)
}

// FeedbackWriter stores visitor feedback.
type FeedbackWriter interface {
	CreateFeedback(ctx context.Context, f storage.Feedback) error
}

type handlers struct {
	content    Content
	seo        SEOReader
	feedback   FeedbackWriter
	experiment *pricing.Experiment
	publicURL  string
	policy     requestmeta.SchemePolicy
	now        func() time.Time
}

func (h *handlers) language(w http.ResponseWriter, r *http.Request) language.Tag {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	return tag
}

// pageMeta merges stored SEO metadata for path over the content defaults.
func (h *handlers) pageMeta(r *http.Request, path, defaultTitle string) PageMeta {
	meta := PageMeta{
		Title:       defaultTitle,
		Description: h.content.Description,
		OGImage:     h.content.OGImage,
	}
	if h.seo != nil {
		entry, err := h.seo.GetSEO(r.Context(), path)
		switch {
		case err == nil:
			if entry.Title != "" {
				meta.Title = entry.Title
			}
			if entry.Description != "" {
				meta.Description = entry.Description
			}
			if entry.OGImage != "" {
				meta.OGImage = entry.OGImage
			}
			meta.Keywords = entry.Keywords
		case apperrors.IsCode(err, apperrors.CodeNotFound), apperrors.IsCode(err, apperrors.CodeSEOPathInvalid):
		default:
			log.Printf("seo lookup failed path=%s err=%v", path, err)
		}
	}
	base := h.baseURL(r)
	meta.Canonical = base + path
	if strings.HasPrefix(meta.OGImage, "/") {
		meta.OGImage = base + meta.OGImage
	}
	return meta
}

func (h *handlers) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if requestmeta.IsHTTPS(r, h.policy) {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *handlers) writePage(w http.ResponseWriter, r *http.Request, status int, path, title string, build func(tag language.Tag) templ.Component) {
	tag := h.language(w, r)
	view := layoutView{
		Meta:    h.pageMeta(r, path, title),
		Lang:    tag.String(),
		Active:  path,
		Company: h.content.Company,
		Product: h.content.Product,
	}
	pagerender.Write(w, r, pagerender.Page{
		StatusCode: status,
		Layout:     layout(view),
		Fragment:   build(tag),
	})
}

func (h *handlers) titled(title string) string {
	if title == "" {
		return h.content.Product + " | " + h.content.Company
	}
	return title + " | " + h.content.Product
}

func (h *handlers) assignedPrice(r *http.Request) string {
	if price, ok := pricing.PriceFromContext(r.Context()); ok {
		return price
	}
	price, _ := h.experiment.Assign(r)
	return price
}

func (h *handlers) serveHome(w http.ResponseWriter, r *http.Request) {
	price := h.assignedPrice(r)
	h.writePage(w, r, http.StatusOK, pathHome, h.titled(h.content.Tagline), func(tag language.Tag) templ.Component {
		return homePage(homeView{
			Content:        h.content,
			Price:          price,
			FormattedPrice: i18n.FormatPrice(tag, price),
		})
	})
}

func (h *handlers) serveStory(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, http.StatusOK, pathStory, h.titled(h.content.Story.Title), func(language.Tag) templ.Component {
		return storyPage(h.content.Story)
	})
}

func (h *handlers) serveTeam(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, http.StatusOK, pathTeam, h.titled(h.content.Team.Title), func(language.Tag) templ.Component {
		return teamPage(h.content.Team)
	})
}

func (h *handlers) servePricing(w http.ResponseWriter, r *http.Request) {
	price := h.assignedPrice(r)
	h.writePage(w, r, http.StatusOK, pathPricing, h.titled(h.content.Pricing.Title), func(tag language.Tag) templ.Component {
		return pricingPage(pricingView{
			Pricing:        h.content.Pricing,
			Price:          price,
			FormattedPrice: i18n.FormatPrice(tag, price),
		})
	})
}

func (h *handlers) serveNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		httpx.WriteError(w, r, apperrors.New(apperrors.CodeNotFound, "route not found"))
		return
	}
	h.writePage(w, r, http.StatusNotFound, r.URL.Path, h.titled("Not found"), func(language.Tag) templ.Component {
		return notFoundPage()
	})
}

type feedbackRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
	Page    string `json:"page"`
}

type feedbackResponse struct {
	ID string `json:"id"`
}

func (h *handlers) serveFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if httpx.IsJSONRequest(r) {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.WriteError(w, r, apperrors.New(apperrors.CodeInvalidArgument, "invalid form body"))
			return
		}
		req.Email = r.PostForm.Get("email")
		req.Message = r.PostForm.Get("message")
		req.Page = r.PostForm.Get("page")
		if raw := strings.TrimSpace(r.PostForm.Get("rating")); raw != "" {
			rating, err := strconv.Atoi(raw)
			if err != nil {
				httpx.WriteError(w, r, apperrors.New(apperrors.CodeFeedbackRatingInvalid, "rating must be a number"))
				return
			}
			req.Rating = rating
		}
	}

	email := ""
	if strings.TrimSpace(req.Email) != "" {
		normalized, err := newsletter.NormalizeEmail(req.Email)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		email = normalized
	}
	tag, _ := i18n.ResolveTag(r)
	entry := storage.Feedback{
		Email:     email,
		Message:   strings.TrimSpace(req.Message),
		Rating:    req.Rating,
		Page:      truncate(strings.TrimSpace(req.Page), maxFeedbackPage),
		Locale:    tag.String(),
		Status:    storage.FeedbackNew,
		CreatedAt: h.now().UTC(),
	}
	if err := storage.ValidateFeedback(entry); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	feedbackID, err := id.NewID()
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	entry.ID = feedbackID
	if err := h.feedback.CreateFeedback(r.Context(), entry); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	log.Printf("feedback received id=%s rating=%d page=%s", entry.ID, entry.Rating, entry.Page)
	_ = httpx.WriteJSON(w, http.StatusCreated, feedbackResponse{ID: entry.ID})
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (h *handlers) serveSitemap(w http.ResponseWriter, r *http.Request) {
	base := h.baseURL(r)
	lastMod := map[string]string{}
	paths := append([]string(nil), contentPaths...)
	seen := map[string]bool{}
	for _, path := range paths {
		seen[path] = true
	}
	if h.seo != nil {
		entries, err := h.seo.ListSEO(r.Context())
		if err != nil {
			log.Printf("sitemap seo list failed err=%v", err)
		}
		for _, entry := range entries {
			lastMod[entry.Path] = entry.UpdatedAt.UTC().Format("2006-01-02")
			if !seen[entry.Path] {
				seen[entry.Path] = true
				paths = append(paths, entry.Path)
			}
		}
	}

	set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range paths {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + path, LastMod: lastMod[path]})
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}

func (h *handlers) serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Sitemap: " + h.baseURL(r) + pathSitemap + "\n")
	_, _ = w.Write([]byte(b.String()))
}

func serveHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
