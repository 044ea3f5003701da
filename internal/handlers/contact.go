package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riztech/portfolio-api/internal/audit"
	"github.com/riztech/portfolio-api/internal/config"
	logpkg "github.com/riztech/portfolio-api/internal/logger"
	"github.com/riztech/portfolio-api/internal/mail"
	"github.com/riztech/portfolio-api/internal/models"
	"github.com/riztech/portfolio-api/internal/ratelimit"
	"github.com/riztech/portfolio-api/internal/request"
	"github.com/riztech/portfolio-api/internal/validation"
	"go.uber.org/zap"
)

// User-facing outcome messages. These are part of the endpoint's contract;
// the client renders them verbatim.
const (
	msgMethodNotAllowed = "Only POST requests are allowed."
	msgRateLimited      = "Too many requests. Please wait before sending another message."
	msgThankYou         = "Thank you for your message! I'll get back to you as soon as possible."
	msgSendFailedPrefix = "Sorry, there was an error sending your message. Please try again later or contact me directly at "
)

// ContactHandler validates, rate-limits, relays and audit-logs contact form
// submissions.
//
// A rate-limit slot is consumed by the attempt, before content validation.
// Clients cannot rely on failed validation being free.
type ContactHandler struct {
	policy      config.Policy
	validator   *validation.Validator
	limiter     *ratelimit.Limiter
	sender      mail.Sender
	auditLog    *audit.Log
	logger      *zap.Logger
	sendTimeout time.Duration

	now func() time.Time
}

// NewContactHandler compiles the policy's spam patterns and builds the
// handler.
func NewContactHandler(
	policy config.Policy,
	limiter *ratelimit.Limiter,
	sender mail.Sender,
	auditLog *audit.Log,
	logger *zap.Logger,
	sendTimeout time.Duration,
) (*ContactHandler, error) {
	v, err := validation.New(policy.MaxMessageLength, policy.SpamPatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build validator: %w", err)
	}

	return &ContactHandler{
		policy:      policy,
		validator:   v,
		limiter:     limiter,
		sender:      sender,
		auditLog:    auditLog,
		logger:      logger,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}, nil
}

// Submit handles a contact form submission end to end: method gate, rate
// limit, sanitize, validate, compose, send, audit, respond.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondEnvelope(w, http.StatusMethodNotAllowed, failureEnvelope(msgMethodNotAllowed))
		return
	}

	ip := request.ClientIP(r)

	decision := h.limiter.Take(r.Context(), ip)
	if !decision.Allowed {
		h.logger.Warn("submission_rate_limited",
			zap.String("ip", logpkg.SanitizeString(ip, logpkg.MaxGeneralStringLength)),
			zap.Int("window_count", decision.Count),
		)
		if decision.RetryAfter > 0 {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(decision.RetryAfter.Seconds()))))
		}
		respondEnvelope(w, http.StatusTooManyRequests, failureEnvelope(msgRateLimited))
		return
	}

	// PostFormValue parses form-encoded and multipart bodies alike and
	// returns "" for missing fields, which the validator reports as required.
	sub := &models.Submission{
		ID:          uuid.New(),
		Name:        validation.Sanitize(r.PostFormValue("name")),
		Email:       validation.Sanitize(r.PostFormValue("email")),
		Message:     validation.Sanitize(r.PostFormValue("message")),
		IP:          ip,
		UserAgent:   logpkg.SanitizeUserAgent(request.UserAgent(r)),
		SubmittedAt: h.now(),
	}

	if errs := h.validator.Validate(sub); len(errs) > 0 {
		h.logger.Info("submission_rejected",
			zap.String("submission_id", sub.ID.String()),
			zap.Int("error_count", len(errs)),
		)
		h.logAttempt(sub, false)
		respondEnvelope(w, http.StatusBadRequest, failureEnvelope(strings.Join(errs, " ")))
		return
	}

	subject := mail.ComposeSubject(h.policy.SubjectPrefix, sub.Name)
	body, err := mail.ComposeBody(sub)
	if err != nil {
		// Template execution failing is a programming error, not user input.
		panic(fmt.Sprintf("compose email body: %v", err))
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.sendTimeout)
	defer cancel()

	sendErr := h.sender.Send(ctx, mail.Message{
		To:           h.policy.RecipientEmail,
		Subject:      subject,
		HTMLBody:     body,
		ReplyToEmail: sub.Email,
		ReplyToName:  sub.Name,
	})

	h.logAttempt(sub, sendErr == nil)

	if sendErr != nil {
		h.logger.Error("mail_send_failed",
			zap.String("submission_id", sub.ID.String()),
			zap.Error(sendErr),
		)
		respondEnvelope(w, http.StatusBadGateway, failureEnvelope(msgSendFailedPrefix+h.policy.RecipientEmail))
		return
	}

	h.logger.Info("submission_relayed",
		zap.String("submission_id", sub.ID.String()),
		zap.Int("message_length", len(sub.Message)),
	)
	respondEnvelope(w, http.StatusOK, successEnvelope(msgThankYou))
}

// logAttempt appends the audit record. Audit failures are logged but never
// fail the request; the user already got their answer.
func (h *ContactHandler) logAttempt(sub *models.Submission, success bool) {
	if err := h.auditLog.Append(models.NewLogEntry(sub, success)); err != nil {
		h.logger.Error("audit_append_failed",
			zap.String("submission_id", sub.ID.String()),
			zap.Error(err),
		)
	}
}
