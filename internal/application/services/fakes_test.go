package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/domain/activity"
	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/domain/user_file"
)

type FakeUserRepository struct {
	mu     sync.Mutex
	users  []*user.User
	nextID user.ID

	Err error
}

func (f *FakeUserRepository) FetchUserByID(_ context.Context, id user.ID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *FakeUserRepository) FetchUserByUsername(_ context.Context, username string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *FakeUserRepository) FetchUsers(_ context.Context) (user.Users, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make(user.Users, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *FakeUserRepository) CountUsers(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	return int64(len(f.users)), nil
}

func (f *FakeUserRepository) CreateUser(_ context.Context, req user.User) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, u := range f.users {
		if u.Username == req.Username {
			return nil, user.ErrDuplicateUsername
		}
	}
	f.nextID++
	req.ID = f.nextID
	req.CreatedAt = time.Now()
	f.users = append(f.users, &req)
	cp := req
	return &cp, nil
}

func (f *FakeUserRepository) setRole(id user.ID, role user.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.Role = role
		}
	}
}

type FakeUserFileRepository struct {
	mu     sync.Mutex
	files  []*user_file.UserFile
	nextID user_file.ID

	UpsertErr error
	FetchErr  error
}

func (f *FakeUserFileRepository) FetchUserFiles(_ context.Context, ownerID user.ID) (user_file.UserFiles, error) {
	return f.filter(func(uf *user_file.UserFile) bool { return uf.OwnerID == ownerID })
}

func (f *FakeUserFileRepository) FetchAllFiles(_ context.Context) (user_file.UserFiles, error) {
	return f.filter(func(*user_file.UserFile) bool { return true })
}

func (f *FakeUserFileRepository) FetchUserFile(_ context.Context, id user_file.ID) (*user_file.UserFile, error) {
	fls, err := f.filter(func(uf *user_file.UserFile) bool { return uf.ID == id })
	if err != nil || len(fls) == 0 {
		return nil, err
	}
	return fls[0], nil
}

func (f *FakeUserFileRepository) FetchUserFileByName(
	_ context.Context,
	ownerID user.ID,
	fileName string,
) (*user_file.UserFile, error) {
	fls, err := f.filter(func(uf *user_file.UserFile) bool { return uf.OwnerID == ownerID && uf.FileName == fileName })
	if err != nil || len(fls) == 0 {
		return nil, err
	}
	return fls[0], nil
}

func (f *FakeUserFileRepository) CountFiles(_ context.Context) (int64, error) {
	fls, err := f.filter(func(*user_file.UserFile) bool { return true })
	return int64(len(fls)), err
}

func (f *FakeUserFileRepository) UpsertUserFile(_ context.Context, req *user_file.UserFile) (*user_file.UserFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpsertErr != nil {
		return nil, f.UpsertErr
	}

	now := time.Now()
	for _, uf := range f.files {
		if uf.OwnerID == req.OwnerID && uf.FileName == req.FileName {
			uf.OriginalName = req.OriginalName
			uf.StorageKey = req.StorageKey
			uf.MimeType = req.MimeType
			uf.SizeBytes = req.SizeBytes
			uf.UploadedAt = now
			cp := *uf
			return &cp, nil
		}
	}

	f.nextID++
	row := *req
	row.ID = f.nextID
	row.UploadedAt = now
	f.files = append(f.files, &row)
	cp := row
	return &cp, nil
}

func (f *FakeUserFileRepository) filter(keep func(*user_file.UserFile) bool) (user_file.UserFiles, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}

	out := make(user_file.UserFiles, 0)
	for _, uf := range f.files {
		if keep(uf) {
			cp := *uf
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type FakeActivityLog struct {
	mu     sync.Mutex
	events []string
}

func (f *FakeActivityLog) Append(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *FakeActivityLog) Recent(_ context.Context, limit int) (activity.Entries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(activity.Entries, 0, limit)
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, &activity.Entry{ID: int64(i + 1), Event: f.events[i]})
	}
	return out, nil
}

func (f *FakeActivityLog) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.events)), nil
}

func (f *FakeActivityLog) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type FakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	PutErr error
	GetErr error
}

func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *FakeBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = b
	return nil
}

func (f *FakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blobs[key]
	if !ok {
		return nil, ports.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *FakeBlobStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

func (f *FakeBlobStore) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok
}

func (f *FakeBlobStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

type FakeActivityRepository struct {
	mu      sync.Mutex
	entries activity.Entries
	Err     error
}

func (f *FakeActivityRepository) AppendEntry(_ context.Context, e activity.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, &e)
	return nil
}

func (f *FakeActivityRepository) FetchRecent(_ context.Context, limit int) (activity.Entries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make(activity.Entries, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *FakeActivityRepository) CountEntries(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	return int64(len(f.entries)), nil
}

func (f *FakeActivityRepository) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type FakePublisher struct {
	mu        sync.Mutex
	published []string
	Err       error
}

func (f *FakePublisher) Publish(_ context.Context, e activity.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.published = append(f.published, e.Event)
	return nil
}

func newFileHeader(t *testing.T, fileName, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	fhs := form.File["file"]
	require.Len(t, fhs, 1)
	return fhs[0]
}
