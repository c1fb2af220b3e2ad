package core

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"time"

	"solarify-backend-go/internal/cache"
	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/mailer"
	"solarify-backend-go/internal/models"
)

// ErrRateLimited is returned when a client IP exceeds the contact-form
// submission limit for the current window.
var ErrRateLimited = errors.New("too many contact submissions, try again later")

// ContactServiceConfig holds contact-form settings.
type ContactServiceConfig struct {
	RateLimit   int // submissions per window per client IP
	RateWindow  time.Duration
	NotifyEmail string // support inbox; empty disables notification
	FromEmail   string
}

// contactService implements the ContactService interface.
type contactService struct {
	contactRepo db.ContactRepository
	limiter     cache.Cache
	mail        *mailer.Mailer
	cfg         ContactServiceConfig
	now         func() time.Time
}

// NewContactService creates a new ContactService instance. The mailer may be
// nil when SMTP is not configured; messages are then stored without
// notification.
func NewContactService(contactRepo db.ContactRepository, limiter cache.Cache, mail *mailer.Mailer, cfg ContactServiceConfig) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		limiter:     limiter,
		mail:        mail,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Submit stores the message and notifies the support inbox. Submissions are
// rate limited per client IP with a fixed window.
func (s *contactService) Submit(ctx context.Context, req models.ContactRequest, clientIP, userAgent string) (string, error) {
	if s.cfg.RateLimit > 0 && clientIP != "" {
		count, err := s.limiter.Incr(ctx, "contact:"+clientIP, s.cfg.RateWindow)
		if err != nil {
			// A broken limiter should not take the contact form down.
			log.Printf("contact rate limiter unavailable: %v", err)
		} else if count > int64(s.cfg.RateLimit) {
			return "", ErrRateLimited
		}
	}

	msg := &models.ContactMessage{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		IPAddress:   clientIP,
		UserAgent:   userAgent,
		SubmittedAt: s.now().UTC(),
	}
	key, err := s.contactRepo.Save(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to store contact message: %w", err)
	}

	if s.mail != nil && s.cfg.NotifyEmail != "" {
		body := fmt.Sprintf("<p><b>From:</b> %s &lt;%s&gt;</p><p><b>Subject:</b> %s</p><p>%s</p>",
			html.EscapeString(req.Name), html.EscapeString(req.Email),
			html.EscapeString(req.Subject), html.EscapeString(req.Message))
		if err := s.mail.SendEmail(s.cfg.NotifyEmail, s.cfg.FromEmail, "New contact message: "+req.Subject, body); err != nil {
			// Notification failure is logged, not surfaced; the message is
			// already stored.
			log.Printf("failed to send contact notification for message %s: %v", key, err)
		}
	}
	return key, nil
}
