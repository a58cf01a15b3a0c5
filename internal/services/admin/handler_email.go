package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/id"
	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/services/mailer"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

// Audiences a bulk email can target.
const (
	AudienceNewsletter = "newsletter"
	AudienceUsers      = "users"
	AudienceAdmins     = "admins"
)

const (
	campaignHistory = 20
	// sendTimeout bounds one bulk send, detached from the browser request.
	sendTimeout = 10 * time.Minute
)

// recipients resolves an audience into deduplicated addresses.
func (h *Handler) recipients(ctx context.Context, audience string) ([]string, error) {
	switch audience {
	case AudienceNewsletter:
		emails, err := h.newsletter.Emails(ctx)
		if err != nil {
			return nil, err
		}
		return mailer.Dedupe(emails), nil
	case AudienceUsers, AudienceAdmins:
		users, err := h.store.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		emails := make([]string, 0, len(users))
		for _, user := range users {
			if audience == AudienceAdmins && user.Role != string(auth.RoleAdmin) {
				continue
			}
			emails = append(emails, user.Email)
		}
		return mailer.Dedupe(emails), nil
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "audience is not recognised",
			map[string]string{"Audience": audience})
	}
}

func (h *Handler) serveEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subscribers, err := h.newsletter.Count(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	users, err := h.store.CountUsers(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	admins, err := h.store.CountUsersByRole(ctx, string(auth.RoleAdmin))
	if err != nil {
		fail(w, r, err)
		return
	}
	campaigns, err := h.store.ListCampaigns(ctx, campaignHistory)
	if err != nil {
		fail(w, r, err)
		return
	}

	view := templates.EmailView{
		Audiences: []templates.AudienceOption{
			{Value: AudienceNewsletter, Label: "Newsletter subscribers", Count: formatCount(int64(subscribers))},
			{Value: AudienceUsers, Label: "All back-office users", Count: formatCount(int64(users))},
			{Value: AudienceAdmins, Label: "Admins", Count: formatCount(int64(admins))},
		},
		Campaigns: make([]templates.CampaignRow, 0, len(campaigns)),
	}
	for _, campaign := range campaigns {
		view.Campaigns = append(view.Campaigns, templates.CampaignRow{
			Subject:    campaign.Subject,
			Audience:   campaign.Audience,
			Recipients: formatCount(int64(campaign.Recipients)),
			Sent:       formatCount(int64(campaign.Sent)),
			Failed:     formatCount(int64(campaign.Failed)),
			CreatedBy:  campaign.CreatedBy,
			CreatedAt:  formatTime(campaign.CreatedAt),
		})
	}
	renderPage(w, r, h.pageContext(r, "Email"), templates.EmailPage(view))
}

func (h *Handler) handleEmailSend(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Email) {
		return
	}
	audience := formValue(r, "audience")
	subject := formValue(r, "subject")
	body := formValue(r, "body")
	if subject == "" || body == "" {
		redirectError(w, r, routepath.Email, apperrors.New(apperrors.CodeInvalidArgument, "subject and body are required"))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), sendTimeout)
	defer cancel()

	recipients, err := h.recipients(ctx, audience)
	if err != nil {
		redirectError(w, r, routepath.Email, err)
		return
	}
	if len(recipients) == 0 {
		redirectError(w, r, routepath.Email, apperrors.New(apperrors.CodeInvalidArgument, "the selected audience has no recipients"))
		return
	}

	result, sendErr := mailer.BulkSend(ctx, h.sender, recipients, subject, body, h.mailConcurrency)
	for _, failure := range result.Failures {
		log.Printf("bulk email delivery failed recipient=%s err=%v", failure.Recipient, failure.Err)
	}

	campaignID, err := id.NewID()
	if err != nil {
		redirectError(w, r, routepath.Email, err)
		return
	}
	campaign := storage.EmailCampaign{
		ID:           campaignID,
		Subject:      subject,
		BodyMarkdown: body,
		Audience:     audience,
		Recipients:   len(recipients),
		Sent:         result.Sent,
		Failed:       result.Failed + result.Skipped,
		CreatedBy:    principal(r).Email,
		CreatedAt:    h.now().UTC(),
	}
	if err := h.store.CreateCampaign(ctx, campaign); err != nil {
		redirectError(w, r, routepath.Email, err)
		return
	}
	log.Printf("bulk email sent campaign_id=%s audience=%s recipients=%d sent=%d failed=%d skipped=%d",
		campaign.ID, audience, len(recipients), result.Sent, result.Failed, result.Skipped)
	if sendErr != nil {
		redirectError(w, r, routepath.Email, fmt.Errorf("bulk send interrupted: %w", sendErr))
		return
	}
	message := fmt.Sprintf("Sent %d of %d.", result.Sent, len(recipients))
	if result.Failed > 0 {
		message += fmt.Sprintf(" %d failed.", result.Failed)
	}
	redirectFlash(w, r, routepath.Email, message)
}

// handleEmailPreview renders the Markdown body as it will be mailed.
func (h *Handler) handleEmailPreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	html, err := mailer.RenderMarkdown(r.PostForm.Get("body"))
	if err != nil {
		fail(w, r, err)
		return
	}
	pagerender.Write(w, r, pagerender.Page{Fragment: templates.EmailPreview(html)})
}
