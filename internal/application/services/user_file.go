package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/domain/user"
	domain "drive-me-local/internal/domain/user_file"
	"drive-me-local/internal/infrastructure/metrics"
)

const (
	maxFileNameBytes      = 255
	defaultFileName       = "file"
	DefaultUploadMaxBytes = 10 << 20
	fallbackMimeType      = "application/octet-stream"
)

type UserFileService struct {
	logger             *zap.Logger
	blobs              ports.BlobStore
	userFileRepository domain.Repository
	activity           ports.ActivityLog
	mCounter           *prometheus.CounterVec
	maxBytes           int64
}

func NewUserFileService(
	logger *zap.Logger,
	blobs ports.BlobStore,
	userFileRepository domain.Repository,
	activity ports.ActivityLog,
	mCounter *prometheus.CounterVec,
	maxBytes int64,
) ports.UserFileService {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}

	return &UserFileService{
		logger:             logger,
		blobs:              blobs,
		userFileRepository: userFileRepository,
		activity:           activity,
		mCounter:           mCounter,
		maxBytes:           maxBytes,
	}
}

// RecordUpload stores the bytes under a fresh key first and the metadata row
// second. The same owner uploading the same name again replaces the row; the
// previous blob is removed only once the new row is in place.
func (ufs *UserFileService) RecordUpload(
	ctx context.Context,
	owner *user.User,
	in *multipart.FileHeader,
) (*domain.UserFile, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}
	if in == nil {
		return nil, ValidationError{"file": "file is required"}
	}
	if in.Size <= 0 {
		return nil, ErrEmptyFile
	}
	if in.Size > ufs.maxBytes {
		return nil, ErrFileTooLarge
	}

	name := cleanFileName(in.Filename)
	uf := &domain.UserFile{
		OwnerID:      owner.ID,
		OwnerName:    owner.Username,
		FileName:     name,
		OriginalName: in.Filename,
		StorageKey:   storageKey(owner.ID),
		MimeType:     detectMimeType(in.Header.Get("Content-Type"), name),
		SizeBytes:    in.Size,
	}

	existing, err := ufs.userFileRepository.FetchUserFileByName(ctx, owner.ID, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	f, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	if err = ufs.blobs.Put(ctx, uf.StorageKey, f, uf.SizeBytes, uf.MimeType); err != nil {
		ufs.logger.Error("blob put failed", zap.Error(err), zap.String("key", uf.StorageKey))
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	out, err := ufs.userFileRepository.UpsertUserFile(ctx, uf)
	if err != nil {
		ufs.logger.Error("UpsertUserFile() error", zap.Error(err), zap.String("key", uf.StorageKey))
		ufs.removeBlob(ctx, uf.StorageKey)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if existing != nil && existing.StorageKey != out.StorageKey {
		ufs.removeBlob(ctx, existing.StorageKey)
	}

	ufs.activity.Append(fmt.Sprintf("file uploaded: %s by %s", out.FileName, owner.Username))
	ufs.mCounter.WithLabelValues(metrics.FileUploaded).Inc()

	return out, nil
}

// removeBlob is best effort; a leftover blob is unreachable but harmless.
func (ufs *UserFileService) removeBlob(ctx context.Context, key string) {
	if err := ufs.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		ufs.logger.Warn("orphan blob left behind", zap.Error(err), zap.String("key", key))
	}
}

func (ufs *UserFileService) ListFor(ctx context.Context, owner *user.User) (domain.UserFiles, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}

	fls, err := ufs.userFileRepository.FetchUserFiles(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return fls, nil
}

func (ufs *UserFileService) ListAll(ctx context.Context, requester *user.User) (domain.UserFiles, error) {
	if requester == nil {
		return nil, ErrUnauthenticated
	}
	if !requester.IsAdmin() {
		return nil, ErrForbidden
	}

	fls, err := ufs.userFileRepository.FetchAllFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return fls, nil
}

// OpenForDownload hands out the bytes of a file to its owner or an admin.
// Everyone else gets ErrNotFound, same as for a file that does not exist.
func (ufs *UserFileService) OpenForDownload(
	ctx context.Context,
	requester *user.User,
	id domain.ID,
) (*domain.UserFile, io.ReadCloser, error) {
	if requester == nil {
		return nil, nil, ErrUnauthenticated
	}

	uf, err := ufs.userFileRepository.FetchUserFile(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return ufs.open(ctx, requester, uf)
}

func (ufs *UserFileService) OpenOwnByName(
	ctx context.Context,
	requester *user.User,
	fileName string,
) (*domain.UserFile, io.ReadCloser, error) {
	if requester == nil {
		return nil, nil, ErrUnauthenticated
	}

	uf, err := ufs.userFileRepository.FetchUserFileByName(ctx, requester.ID, cleanFileName(fileName))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return ufs.open(ctx, requester, uf)
}

func (ufs *UserFileService) open(
	ctx context.Context,
	requester *user.User,
	uf *domain.UserFile,
) (*domain.UserFile, io.ReadCloser, error) {
	if uf == nil {
		return nil, nil, ErrNotFound
	}
	if !uf.OwnedBy(requester) && !requester.IsAdmin() {
		ufs.mCounter.WithLabelValues(metrics.AccessDenied).Inc()
		ufs.logger.Info("download refused",
			zap.Int64("file_id", int64(uf.ID)),
			zap.Int64("requester_id", int64(requester.ID)),
		)
		return nil, nil, ErrNotFound
	}

	rc, err := ufs.blobs.Get(ctx, uf.StorageKey)
	if errors.Is(err, ports.ErrBlobNotFound) {
		ufs.logger.Warn("orphan file record", zap.Int64("file_id", int64(uf.ID)), zap.String("key", uf.StorageKey))
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	ufs.mCounter.WithLabelValues(metrics.FileDownloaded).Inc()

	return uf, rc, nil
}

// storageKey: "users/<owner id>/<uuid>". Keys never derive from the client
// name, so two uploads never share bytes.
func storageKey(ownerID user.ID) string {
	return fmt.Sprintf("users/%d/%s", ownerID, uuid.NewString())
}

func detectMimeType(declared, name string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "" {
		return mt
	}
	if mt := mime.TypeByExtension(path.Ext(name)); mt != "" {
		return mt
	}

	return fallbackMimeType
}

// cleanFileName turns a client supplied name into the display name the file
// is listed and looked up under. Only directory parts and control characters
// go; case, spaces and non-ASCII letters are kept so distinct names stay
// distinct.
func cleanFileName(original string) string {
	s := strings.ReplaceAll(original, "\\", "/")
	s = path.Base(s)
	s = norm.NFC.String(s)

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	if s == "." || s == ".." || s == "/" || s == "" {
		return defaultFileName
	}

	for len(s) > maxFileNameBytes {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}

	return s
}
