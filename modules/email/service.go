package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mailer "github.com/ngavatar/ngavatar/pkg/email"
	"github.com/ngavatar/ngavatar/pkg/strgen"
	"github.com/ngavatar/ngavatar/pkg/template"
)

// verifyCodeLength is the length of generated verification codes.
const verifyCodeLength = 32

// Service implements the email lifecycle: add with verification mail,
// verify by code, bind avatars, remove.
type Service struct {
	cfg    Config
	repo   Repository
	sender mailer.EmailSender
	views  template.Dir
	log    *slog.Logger
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates an email service. views must contain the
// verify_mail template used for verification mail bodies.
func NewService(cfg Config, repo Repository, sender mailer.EmailSender, views template.Dir, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:    cfg,
		repo:   repo,
		sender: sender,
		views:  views,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers an address for the account and dispatches the
// verification mail. The record is rolled back when the mail cannot be
// sent so the address can be re-added later.
func (s *Service) Add(ctx context.Context, accountID int64, address string) (*Email, error) {
	if !ValidAddress(address) {
		return nil, ErrInvalidAddress
	}
	address = NormalizeAddress(address)

	now := s.now()
	record := &Email{
		AccountID:     accountID,
		Address:       address,
		Hash:          HashAddress(address),
		VerifyCode:    strgen.RandomString(verifyCodeLength),
		CodeExpiresAt: now.Add(s.cfg.VerifyCodeTTL),
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, record); err != nil {
		if delErr := s.repo.Delete(ctx, record.ID); delErr != nil {
			s.log.ErrorContext(ctx, "failed to roll back email after send failure",
				slog.Int64("email_id", record.ID), slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "verification mail sent",
		slog.Int64("account_id", accountID), slog.String("hash", record.Hash))
	return record, nil
}

// Verify consumes a verification code. Expired codes leave the record
// in place so the address shows up as unverified rather than vanishing.
func (s *Service) Verify(ctx context.Context, code string) (*Email, error) {
	if code == "" {
		return nil, ErrEmailNotFound
	}

	record, err := s.repo.FindByVerifyCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if record.Verified {
		return nil, ErrAlreadyVerified
	}
	if record.CodeExpiresAt.Before(s.now()) {
		return nil, ErrVerifyCodeExpired
	}

	if err := s.repo.MarkVerified(ctx, record.ID); err != nil {
		return nil, err
	}
	record.Verified = true
	record.VerifyCode = ""
	return record, nil
}

// Bind points an email at an avatar, nil avatarID to unbind. Only
// verified addresses owned by the account can be bound.
func (s *Service) Bind(ctx context.Context, accountID, emailID int64, avatarID *int64) error {
	record, err := s.repo.FindByID(ctx, emailID)
	if err != nil {
		return err
	}
	if record.AccountID != accountID {
		return ErrNotOwner
	}
	if !record.Verified && avatarID != nil {
		return fmt.Errorf("%w: address is not verified", ErrEmailNotFound)
	}
	return s.repo.BindAvatar(ctx, emailID, avatarID)
}

// Remove deletes an address owned by the account.
func (s *Service) Remove(ctx context.Context, accountID, emailID int64) error {
	record, err := s.repo.FindByID(ctx, emailID)
	if err != nil {
		if errors.Is(err, ErrEmailNotFound) {
			return nil
		}
		return err
	}
	if record.AccountID != accountID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, emailID)
}

// List returns the account's addresses.
func (s *Service) List(ctx context.Context, accountID int64) ([]*Email, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// Lookup resolves a public address hash to its record.
func (s *Service) Lookup(ctx context.Context, hash string) (*Email, error) {
	return s.repo.FindByHash(ctx, hash)
}

func (s *Service) sendVerification(ctx context.Context, record *Email) error {
	body, err := s.views.Render("verify_mail", map[string]any{
		"address":    record.Address,
		"verify_url": fmt.Sprintf("%s/verifyemail?code=%s", s.cfg.BaseURL, record.VerifyCode),
	})
	if err != nil {
		return fmt.Errorf("render verification mail: %w", err)
	}

	return s.sender.SendEmail(ctx, mailer.SendEmailParams{
		SendTo:   record.Address,
		Subject:  "Verify your email address",
		BodyHTML: body,
		Tag:      "email-verification",
	})
}
