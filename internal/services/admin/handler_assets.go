package admin

import (
	"log"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/id"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

func (h *Handler) serveAssets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := storage.AssetFilter{
		UnpaidOnly: query.Get("unpaid") == "1",
		Category:   strings.TrimSpace(query.Get("category")),
	}
	assets, err := h.store.ListAssets(r.Context(), filter)
	if err != nil {
		fail(w, r, err)
		return
	}
	now := h.now()
	summary, err := h.store.SummarizeAssets(r.Context(), now)
	if err != nil {
		fail(w, r, err)
		return
	}

	view := templates.AssetsView{
		UnpaidOnly: filter.UnpaidOnly,
		Category:   filter.Category,
		Totals:     unpaidTotals(summary),
		Overdue:    summary.OverdueCount,
		Assets:     make([]templates.AssetRow, 0, len(assets)),
	}
	for _, asset := range assets {
		view.Assets = append(view.Assets, templates.AssetRow{
			ID:       asset.ID,
			Name:     asset.Name,
			Category: asset.Category,
			Amount:   formatMoney(asset.AmountCents, asset.Currency),
			DueDate:  formatDate(asset.DueDate),
			Paid:     asset.Paid,
			Overdue:  asset.Overdue(now),
			Notes:    asset.Notes,
		})
	}
	renderPage(w, r, h.pageContext(r, "Bills"), templates.AssetsPage(view))
}

func (h *Handler) handleAssetCreate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Assets) {
		return
	}
	name := formValue(r, "name")
	if name == "" {
		redirectError(w, r, routepath.Assets, apperrors.New(apperrors.CodeInvalidArgument, "name is required"))
		return
	}
	cents, err := parseAmountCents(formValue(r, "amount"))
	if err != nil {
		redirectError(w, r, routepath.Assets, err)
		return
	}
	var due time.Time
	if raw := formValue(r, "due_date"); raw != "" {
		due, err = time.Parse(dateLayout, raw)
		if err != nil {
			redirectError(w, r, routepath.Assets, apperrors.New(apperrors.CodeInvalidArgument, "due date must be YYYY-MM-DD"))
			return
		}
	}
	currency := strings.ToUpper(formValue(r, "currency"))
	if currency == "" {
		currency = "USD"
	}
	assetID, err := id.NewID()
	if err != nil {
		redirectError(w, r, routepath.Assets, err)
		return
	}
	now := h.now().UTC()
	asset := storage.Asset{
		ID:          assetID,
		Name:        name,
		Category:    formValue(r, "category"),
		AmountCents: cents,
		Currency:    currency,
		DueDate:     due,
		Notes:       formValue(r, "notes"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateAsset(r.Context(), asset); err != nil {
		redirectError(w, r, routepath.Assets, err)
		return
	}
	log.Printf("admin asset created asset_id=%s by=%s", asset.ID, principal(r).UserID)
	redirectFlash(w, r, routepath.Assets, "Added "+asset.Name+".")
}

func (h *Handler) handleAssetPaid(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Assets) {
		return
	}
	paid := formValue(r, "paid") == "1"
	if err := h.store.SetAssetPaid(r.Context(), formValue(r, "id"), paid, h.now().UTC()); err != nil {
		redirectError(w, r, routepath.Assets, err)
		return
	}
	message := "Marked unpaid."
	if paid {
		message = "Marked paid."
	}
	redirectFlash(w, r, routepath.Assets, message)
}

func (h *Handler) handleAssetDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Assets) {
		return
	}
	assetID := formValue(r, "id")
	if err := h.store.DeleteAsset(r.Context(), assetID); err != nil {
		redirectError(w, r, routepath.Assets, err)
		return
	}
	log.Printf("admin asset deleted asset_id=%s by=%s", assetID, principal(r).UserID)
	redirectFlash(w, r, routepath.Assets, "Bill deleted.")
}
