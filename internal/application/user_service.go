package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/59-devv/adonis-roleplay/internal/domain/entity"
	repo "github.com/59-devv/adonis-roleplay/internal/domain/repository"
	"github.com/59-devv/adonis-roleplay/pkg/apperr"
	"github.com/59-devv/adonis-roleplay/pkg/helpers"
)

type Service struct {
	Repo         repo.UserRepository
	Redis        *redis.Client
	ProfileTTL   time.Duration
	Logger       *logrus.Logger
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	Events       *helpers.RabbitPublisher
}

func NewService(repo repo.UserRepository, rdb *redis.Client, profileTTL time.Duration, logger *logrus.Logger, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esUsersIndex string, events *helpers.RabbitPublisher) *Service {
	return &Service{
		Repo:         repo,
		Redis:        rdb,
		ProfileTTL:   profileTTL,
		Logger:       logger,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Events:       events,
	}
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	Avatar   string
}

// Register creates a new account. The email check runs before the
// username check so a payload colliding on both reports the email
// conflict; the store's unique constraints back the same guarantee up
// when two concurrent creates race past the pre-check.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if _, err := s.Repo.GetByEmail(in.Email); err == nil {
		return nil, apperr.ErrEmailInUse
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Repo.GetByUsername(in.Username); err == nil {
		return nil, apperr.ErrUsernameInUse
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:    in.Email,
		Username: in.Username,
		Password: hash,
		Avatar:   in.Avatar,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, mapDuplicate(err)
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user created")
	}

	s.cacheProfile(ctx, u)
	s.publishEvent(ctx, "user.created", u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

type UpdateInput struct {
	Email    string
	Avatar   string
	Password string
}

// Update applies the submitted fields to an existing account. Email is
// overwritten with whatever the caller sent, avatar only when non-empty,
// and the password is rehashed on every call even if the plaintext is
// unchanged.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	u.Email = in.Email
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash

	if err := s.Repo.Update(u); err != nil {
		return nil, mapNotFound(mapDuplicate(err))
	}

	s.cacheProfile(ctx, u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

// GetProfile reads one account, through the redis cache when available.
// The cached view never contains the password hash.
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if s.Redis != nil {
		var cached profileView
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(userID), &cached); err == nil && hit {
			return cached.toEntity(), nil
		}
	}

	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.cacheProfile(ctx, u)
	return u, nil
}

// UploadAvatar stores the avatar in GCS and points the account at the
// resulting public URL.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		return "", mapNotFound(err)
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	u.Avatar = url
	if err := s.Repo.Update(u); err != nil {
		return "", mapNotFound(mapDuplicate(err))
	}
	s.cacheProfile(ctx, u)
	_ = s.indexUser(ctx, u)
	return url, nil
}

// profileView is the redis cache shape. The hash stays out of it so a
// cache dump can never expose credentials.
type profileView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v profileView) toEntity() *entity.User {
	return &entity.User{
		ID:        v.ID,
		Email:     v.Email,
		Username:  v.Username,
		Avatar:    v.Avatar,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func (s *Service) cacheProfile(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	view := profileView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.ID), view, s.ProfileTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
	}
}

func (s *Service) publishEvent(ctx context.Context, eventType string, u *entity.User) {
	if s.Events == nil {
		return
	}
	evt := map[string]any{
		"type":     eventType,
		"user_id":  u.ID,
		"email":    u.Email,
		"username": u.Username,
		"at":       time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Events.PublishJSON(ctx, evt); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("event publish failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"avatar":     u.Avatar,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on email and username.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "username"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateEmail):
		return apperr.ErrEmailInUse
	case errors.Is(err, repo.ErrDuplicateUsername):
		return apperr.ErrUsernameInUse
	}
	return err
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.ErrUserNotFound
	}
	return err
}
