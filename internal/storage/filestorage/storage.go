package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ObjectPrefix - префикс нормализованной ссылки на объект
	ObjectPrefix = "/objects/"
	// UploadRoute - путь, на который клиент отправляет PUT с содержимым
	UploadRoute = "/api/v1/blob/"

	aclSuffix = ".acl.json"
)

// ObjectStorage интерфейс blob-хранилища с прямой загрузкой по подписанной ссылке
type ObjectStorage interface {
	IssueUploadURL(objectID uuid.UUID, ttl time.Duration) (uploadURL string, expiresAt time.Time, err error)
	VerifyUploadToken(objectID uuid.UUID, token string) error
	Put(ctx context.Context, objectID uuid.UUID, r io.Reader) (int64, error)
	Open(ctx context.Context, objectID uuid.UUID) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, objectID uuid.UUID) error
	Walk(ctx context.Context, fn func(ObjectInfo) error) error
	NormalizeObjectPath(rawURL string) string
	SetAccessPolicy(ctx context.Context, rawPath string, policy models.AccessPolicy) (string, error)
	GetAccessPolicy(ctx context.Context, objectID uuid.UUID) (models.AccessPolicy, error)
}

type ObjectInfo struct {
	ID      uuid.UUID
	Size    int64
	ModTime time.Time
	// Public заполняет сервис загрузок по ACL; хранилище его не выставляет
	Public bool
}

// LocalObjectStorage хранит объекты в каталоге на диске, ACL лежит рядом в json
type LocalObjectStorage struct {
	baseDir string // Каталог с объектами (например: "./objects")
	baseURL string // Внешний адрес сервера (например: "http://localhost:8080")
	secret  []byte // Ключ подписи ссылок на загрузку
	maxSize int64
}

func NewLocalObjectStorage(baseDir, baseURL, secret string, maxSize int64) (*LocalObjectStorage, error) {
	if secret == "" {
		return nil, errors.New("object storage: signing secret is empty")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalObjectStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		maxSize: maxSize,
	}, nil
}

type uploadClaims struct {
	jwt.RegisteredClaims
}

// IssueUploadURL выдаёт подписанную одноразовую ссылку для PUT
func (s *LocalObjectStorage) IssueUploadURL(objectID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, uploadClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   objectID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign upload url: %w", err)
	}

	q := url.Values{}
	q.Set("token", signed)

	return s.baseURL + UploadRoute + objectID.String() + "?" + q.Encode(), expiresAt, nil
}

// VerifyUploadToken проверяет подпись и срок действия ссылки для объекта
func (s *LocalObjectStorage) VerifyUploadToken(objectID uuid.UUID, token string) error {
	var claims uploadClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return storage.ErrSlotExpired
		}
		return storage.ErrInvalidSignature
	}

	if claims.Subject != objectID.String() {
		return storage.ErrInvalidSignature
	}

	return nil
}

// Put записывает содержимое объекта; прерывается при отмене контекста
func (s *LocalObjectStorage) Put(ctx context.Context, objectID uuid.UUID, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	filePath := s.objectPath(objectID)
	tmpPath := filePath + ".part"

	dst, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}

	size, copyErr := io.Copy(dst, io.LimitReader(ctxReader{ctx: ctx, r: r}, s.maxSize+1))

	closeErr := dst.Close()
	if copyErr == nil && size > s.maxSize {
		copyErr = storage.ErrFileTooLarge
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write object: %w", copyErr)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to store object: %w", err)
	}

	return size, nil
}

// ctxReader проверяет контекст перед каждым чтением, поэтому отмена
// прерывает копирование на границе очередного блока
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

func (s *LocalObjectStorage) Open(ctx context.Context, objectID uuid.UUID) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(s.objectPath(objectID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, storage.ErrObjectNotFound
		}
		return nil, ObjectInfo{}, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}

	return f, ObjectInfo{ID: objectID, Size: st.Size(), ModTime: st.ModTime()}, nil
}

// Delete удаляет объект вместе с ACL; отсутствующий объект не ошибка
func (s *LocalObjectStorage) Delete(ctx context.Context, objectID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, p := range []string{s.objectPath(objectID), s.objectPath(objectID) + aclSuffix} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Walk обходит все сохранённые объекты
func (s *LocalObjectStorage) Walk(ctx context.Context, fn func(ObjectInfo) error) error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}

		id, err := uuid.Parse(entry.Name())
		if err != nil {
			// ACL, незавершённые загрузки и посторонние файлы
			continue
		}

		st, err := entry.Info()
		if err != nil {
			continue
		}

		if err := fn(ObjectInfo{ID: id, Size: st.Size(), ModTime: st.ModTime()}); err != nil {
			return err
		}
	}

	return nil
}

// NormalizeObjectPath превращает ссылку на загрузку в "/objects/<id>".
// Уже нормализованные и сторонние ссылки возвращаются без изменений.
func (s *LocalObjectStorage) NormalizeObjectPath(rawURL string) string {
	if strings.HasPrefix(rawURL, ObjectPrefix) {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	base, err := url.Parse(s.baseURL)
	if err != nil || !strings.EqualFold(u.Host, base.Host) {
		return rawURL
	}

	id, ok := strings.CutPrefix(u.Path, UploadRoute)
	if !ok {
		return rawURL
	}
	if _, err := uuid.Parse(id); err != nil {
		return rawURL
	}

	return ObjectPrefix + id
}

// SetAccessPolicy нормализует путь и сохраняет ACL объекта.
// Для сторонних ссылок ACL не ставится, путь возвращается как есть.
func (s *LocalObjectStorage) SetAccessPolicy(ctx context.Context, rawPath string, policy models.AccessPolicy) (string, error) {
	normalized := s.NormalizeObjectPath(rawPath)

	objectID, ok := ObjectIDFromPath(normalized)
	if !ok {
		return normalized, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := os.Stat(s.objectPath(objectID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", storage.ErrObjectNotFound
		}
		return "", err
	}

	data, err := json.Marshal(policy)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(s.objectPath(objectID)+aclSuffix, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write acl: %w", err)
	}

	return normalized, nil
}

// GetAccessPolicy читает ACL; объект без ACL считается приватным без владельца.
// Для отсутствующего объекта возвращается storage.ErrObjectNotFound.
func (s *LocalObjectStorage) GetAccessPolicy(ctx context.Context, objectID uuid.UUID) (models.AccessPolicy, error) {
	if err := ctx.Err(); err != nil {
		return models.AccessPolicy{}, err
	}

	data, err := os.ReadFile(s.objectPath(objectID) + aclSuffix)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return models.AccessPolicy{}, err
		}
		if _, err := os.Stat(s.objectPath(objectID)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return models.AccessPolicy{}, storage.ErrObjectNotFound
			}
			return models.AccessPolicy{}, err
		}
		return models.AccessPolicy{Visibility: models.VisibilityPrivate}, nil
	}

	var policy models.AccessPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return models.AccessPolicy{}, fmt.Errorf("corrupted acl for %s: %w", objectID, err)
	}

	return policy, nil
}

func (s *LocalObjectStorage) objectPath(objectID uuid.UUID) string {
	return filepath.Join(s.baseDir, objectID.String())
}

// ObjectIDFromPath извлекает id из "/objects/<id>"
func ObjectIDFromPath(path string) (uuid.UUID, bool) {
	rest, ok := strings.CutPrefix(path, ObjectPrefix)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
