package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/ngavatar/ngavatar/pkg/file"
	"github.com/ngavatar/ngavatar/pkg/strgen"
)

// allowedImageTypes are the sniffed MIME types accepted for uploads.
var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif"}

// imageExtensions maps accepted MIME types to the stored file extension.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// filenameLength is the length of generated storage file names.
const filenameLength = 16

// EmailUnbinder clears avatar bindings when an avatar is deleted.
// Satisfied by the email repository.
type EmailUnbinder interface {
	UnbindAvatar(ctx context.Context, avatarID int64) error
}

// Service implements the avatar lifecycle: upload to file storage plus
// metadata row, delete with email unbinding, image retrieval.
type Service struct {
	cfg    Config
	repo   Repository
	store  file.Storage
	emails EmailUnbinder
	log    *slog.Logger
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates an avatar service.
func NewService(cfg Config, repo Repository, store file.Storage, emails EmailUnbinder, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:    cfg,
		repo:   repo,
		store:  store,
		emails: emails,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload validates and stores an uploaded image for the account. The
// image is sniffed for its real type; the declared filename only feeds
// the default title.
func (s *Service) Upload(ctx context.Context, accountID int64, title string, fh *multipart.FileHeader) (*Avatar, error) {
	if fh == nil {
		return nil, ErrMissingImage
	}
	if err := file.ValidateSize(fh, s.cfg.MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageTooLarge, err)
	}
	if err := file.ValidateMIMEType(fh, allowedImageTypes...); err != nil {
		if errors.Is(err, file.ErrMIMETypeNotAllowed) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return nil, err
	}

	mimeType, err := file.GetMIMEType(fh)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = file.SanitizeFilename(fh.Filename)
	}

	path := fmt.Sprintf("%d/%s%s", accountID, strgen.RandomString(filenameLength), imageExtensions[mimeType])
	stored, err := s.store.Save(ctx, fh, path)
	if err != nil {
		return nil, fmt.Errorf("store avatar image: %w", err)
	}

	record := &Avatar{
		AccountID:   accountID,
		Title:       title,
		FilePath:    stored.RelativePath,
		ContentType: mimeType,
		Size:        stored.Size,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if delErr := s.store.Delete(ctx, stored.RelativePath); delErr != nil {
			s.log.ErrorContext(ctx, "failed to roll back avatar image",
				slog.String("path", stored.RelativePath), slog.String("error", delErr.Error()))
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "avatar uploaded",
		slog.Int64("account_id", accountID), slog.Int64("avatar_id", record.ID))
	return record, nil
}

// Delete removes an avatar owned by the account, clearing any email
// bindings first. The stored image is removed best-effort.
func (s *Service) Delete(ctx context.Context, accountID, avatarID int64) error {
	record, err := s.repo.FindByID(ctx, avatarID)
	if err != nil {
		if errors.Is(err, ErrAvatarNotFound) {
			return nil
		}
		return err
	}
	if record.AccountID != accountID {
		return ErrNotOwner
	}

	if err := s.emails.UnbindAvatar(ctx, avatarID); err != nil {
		return fmt.Errorf("unbind avatar from emails: %w", err)
	}
	if err := s.repo.Delete(ctx, avatarID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, record.FilePath); err != nil {
		s.log.ErrorContext(ctx, "failed to delete avatar image",
			slog.String("path", record.FilePath), slog.String("error", err.Error()))
	}
	return nil
}

// Get returns an avatar row by ID.
func (s *Service) Get(ctx context.Context, avatarID int64) (*Avatar, error) {
	return s.repo.FindByID(ctx, avatarID)
}

// List returns the account's avatars.
func (s *Service) List(ctx context.Context, accountID int64) ([]*Avatar, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// Image reads the stored image bytes for an avatar.
func (s *Service) Image(ctx context.Context, record *Avatar) ([]byte, error) {
	r, err := s.store.Open(ctx, record.FilePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read avatar image: %w", err)
	}
	return data, nil
}
