package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/core/ports"
	"github.com/SscSPs/copro_ledger/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveStore uploads documents into one Google Drive folder. The reference
// handed back is the Drive file ID.
type DriveStore struct {
	service  *drive.Service
	folderID string
	now      func() time.Time
}

var _ ports.DocumentStore = (*DriveStore)(nil)

// NewDriveStore authenticates with the stored refresh token. Extra client
// options replace the OAuth client, e.g. to target an emulator.
func NewDriveStore(ctx context.Context, cfg config.GDriveConfig, opts ...option.ClientOption) (*DriveStore, error) {
	if len(opts) == 0 {
		if cfg.ClientID == "" || cfg.RefreshToken == "" {
			return nil, fmt.Errorf("drive store requires a client ID and a refresh token")
		}
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{drive.DriveFileScope},
		}
		client := oauthConfig.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		opts = []option.ClientOption{option.WithHTTPClient(client)}
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}
	return &DriveStore{
		service:  service,
		folderID: cfg.FolderID,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *DriveStore) Store(ctx context.Context, upload domain.DocumentUpload, operationDate time.Time, label string) (*domain.DocumentRef, error) {
	if err := upload.Validate(operationDate, s.now()); err != nil {
		return nil, err
	}
	file := &drive.File{
		Name:        domain.DocumentName(operationDate, label, upload.FileName),
		Description: label,
	}
	if s.folderID != "" {
		file.Parents = []string{s.folderID}
	}

	created, err := s.service.Files.Create(file).
		Media(bytes.NewReader(upload.Content)).
		Fields("id", "size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: drive upload of %s: %v", apperrors.ErrExternalDependency, file.Name, err)
	}
	return &domain.DocumentRef{
		Reference: created.Id,
		Size:      int64(len(upload.Content)),
		Extension: upload.Extension(),
	}, nil
}

func (s *DriveStore) Release(ctx context.Context, ref domain.DocumentRef) error {
	if err := s.service.Files.Delete(ref.Reference).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: drive delete of %s: %v", apperrors.ErrExternalDependency, ref.Reference, err)
	}
	return nil
}
