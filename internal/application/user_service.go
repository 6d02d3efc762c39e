package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer"
	mailtpl "github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer/templates"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/validation"
)

const (
	minNameLength     = 3
	emailTokenBytes   = 64
	resetTokenBytes   = 20
	profileImagesRoot = "profile-images"
)

type UserService struct {
	Cfg          *config.Config
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Images       ImageStore
	Mail         MailSender
	ES           *elasticsearch.Client
	ESUsersIndex string
	Logger       *logrus.Logger

	store userStore
}

func NewUserService(cfg *config.Config, r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, images ImageStore, mail MailSender, es *elasticsearch.Client, logger *logrus.Logger, clock Clock) *UserService {
	return &UserService{
		Cfg:          cfg,
		Repo:         r,
		JWT:          jwt,
		Redis:        rdb,
		Images:       images,
		Mail:         mail,
		ES:           es,
		ESUsersIndex: cfg.ESUsersIndex,
		Logger:       logger,
		store:        newUserStore(r, clock),
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

func (s *UserService) nowRFC3339() string {
	return s.store.now().UTC().Format(time.RFC3339Nano)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < minNameLength {
		return "", fmt.Errorf("%w: name must have at least %d characters", ErrInvalidInput, minNameLength)
	}
	return name, nil
}

func validPassword(pw string) error {
	if len(pw) < helpers.MinPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, helpers.MinPasswordLength)
	}
	return nil
}

// Register creates an unverified user and mails the verification link.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	name, err := validName(in.Name)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if !validation.IsEmail(email) {
		return nil, fmt.Errorf("%w: email %q is malformed", ErrInvalidInput, in.Email)
	}
	if err := validPassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: lookup email: %w", ErrInternal, err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}
	token, err := helpers.RandomToken(emailTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: email token: %w", ErrInternal, err)
	}

	now := s.store.now()
	u := &entity.User{
		Name:          name,
		Email:         email,
		Password:      hash,
		EmailToken:    token,
		QuestionStats: entity.QuestionStats{Daily: entity.DailyStats{LastUpdated: now}},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: create user: %w", ErrInternal, err)
	}

	s.sendMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.VerifyEmail,
		Data:     mailtpl.NewVerifyEmailData(s.Cfg, u.Name, u.Email, withToken(s.Cfg.VerifyEmailURL, token)),
	})
	_ = s.indexUser(ctx, u)

	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, nil
}

func withToken(base, token string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

// sendMail never fails the caller; delivery problems are logged.
func (s *UserService) sendMail(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.Send(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Warn("send email failed")
	}
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("%w: lookup email: %w", ErrInternal, err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, ErrEmailNotVerified
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, fmt.Errorf("%w: sign tokens: %w", ErrInternal, err)
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":       u.ID,
			"email":         u.Email,
			"name":          u.Name,
			"profile_image": u.ProfileImage,
			"sid":           sid,
			"logged_in":     true,
			"created_at":    s.nowRFC3339(),
		}
		if rErr := helpers.SaveSession(ctx, s.Redis, u.ID, fields); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", helpers.SessionKey(u.ID)).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *UserService) signPair(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsVerified: u.IsVerified}
	return resp, pair, nil
}

// Refresh rotates the session id and both tokens when refreshToken belongs to the live session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := helpers.GetSession(ctx, s.Redis, u.ID)
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", fmt.Errorf("%w: sign tokens: %w", ErrInternal, err)
	}
	if s.Redis != nil {
		// the old sid stays live if this write fails, so the new pair would be refused
		err := helpers.SaveSession(ctx, s.Redis, u.ID, map[string]any{
			"sid":        sid,
			"updated_at": s.nowRFC3339(),
		})
		if err != nil {
			helpers.LogError(s.Logger, "redis session rotate failed", err, logrus.Fields{"key": helpers.SessionKey(u.ID)})
			return TokenPair{}, "", fmt.Errorf("%w: save session: %w", ErrInternal, err)
		}
	}
	return pair, u.ID, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil || userID == "" {
		return nil
	}
	if err := helpers.DeleteSession(ctx, s.Redis, userID); err != nil {
		return fmt.Errorf("%w: delete session: %w", ErrInternal, err)
	}
	return nil
}

// VerifyEmail marks the owner of token as verified and consumes the token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	u, err := s.Repo.GetByEmailToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%w: lookup email token: %w", ErrInternal, err)
	}
	u.IsVerified = true
	u.EmailToken = ""
	if err := s.store.save(ctx, u); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("email verified")
	}
	return nil
}

// ForgotPassword stores a fresh reset token on the user and mails the reset link.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validation.IsEmail(email) {
		return fmt.Errorf("%w: email %q is malformed", ErrInvalidInput, email)
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: email %s", ErrNotFound, email)
		}
		return fmt.Errorf("%w: lookup email: %w", ErrInternal, err)
	}
	token, err := helpers.RandomToken(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("%w: reset token: %w", ErrInternal, err)
	}
	expires := s.store.now().Add(s.Cfg.ResetTokenTTL)
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = expires
	if err := s.store.save(ctx, u); err != nil {
		return err
	}

	s.sendMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.ForgotPassword,
		Data: mailtpl.NewForgotPasswordData(s.Cfg, u.Name, u.Email, withToken(s.Cfg.ResetPasswordURL, token),
			mailtpl.WithExpiresAt(expires)),
	})
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validPassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidToken
	}
	u, err := s.Repo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%w: lookup reset token: %w", ErrInternal, err)
	}
	if !u.ResetTokenValid(token, s.store.now()) {
		return ErrInvalidToken
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}
	u.Password = hash
	u.ClearResetToken()
	if err := s.store.save(ctx, u); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password reset")
	}
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	return s.store.load(ctx, "user", userID)
}

// UpdateName renames the user and refreshes the cached session and search index.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) (entity.PublicProfile, error) {
	if err := requireID("userId", userID); err != nil {
		return entity.PublicProfile{}, err
	}
	name, err := validName(name)
	if err != nil {
		return entity.PublicProfile{}, err
	}
	u, err := s.store.load(ctx, "user", userID)
	if err != nil {
		return entity.PublicProfile{}, err
	}
	u.Name = name
	if err := s.store.save(ctx, u); err != nil {
		return entity.PublicProfile{}, err
	}
	s.touchSession(ctx, u.ID, map[string]any{"name": u.Name})
	_ = s.indexUser(ctx, u)
	return u.Public(), nil
}

// ImageUpload is one profile picture as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadProfileImage stores img, points the user at it and removes the previous image.
func (s *UserService) UploadProfileImage(ctx context.Context, userID string, img ImageUpload) (string, error) {
	if err := requireID("userId", userID); err != nil {
		return "", err
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return "", fmt.Errorf("%w: only image files are accepted", ErrInvalidInput)
	}
	if limit := s.Cfg.ProfileImageMaxBytes; limit > 0 && img.Size > limit {
		return "", fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidInput, limit)
	}
	if s.Images == nil {
		return "", fmt.Errorf("%w: image storage not configured", ErrInternal)
	}
	u, err := s.store.load(ctx, "user", userID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(img.Filename))
	objectPath := path.Join(profileImagesRoot, userID, uuid.NewString()+ext)
	imageURL, err := s.Images.Upload(ctx, objectPath, img.ContentType, img.Body)
	if err != nil {
		return "", fmt.Errorf("%w: upload image: %w", ErrInternal, err)
	}

	previous := u.ProfileImage
	u.ProfileImage = imageURL
	if err := s.store.save(ctx, u); err != nil {
		return "", err
	}
	if previous != "" && previous != imageURL {
		if dErr := s.Images.Delete(ctx, previous); dErr != nil && s.Logger != nil {
			s.Logger.WithError(dErr).WithField("user_id", u.ID).Warn("delete previous profile image failed")
		}
	}
	s.touchSession(ctx, u.ID, map[string]any{"profile_image": u.ProfileImage})
	_ = s.indexUser(ctx, u)
	return imageURL, nil
}

// touchSession updates cached profile fields of a live session, preserving its TTL.
func (s *UserService) touchSession(ctx context.Context, userID string, fields map[string]any) {
	if s.Redis == nil {
		return
	}
	fields["updated_at"] = s.nowRFC3339()
	if err := helpers.UpdateSession(ctx, s.Redis, userID, fields); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", helpers.SessionKey(userID)).Warn("redis session update failed")
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":           u.ID,
		"name":         u.Name,
		"profileImage": u.ProfileImage,
		"created_at":   u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":   u.UpdatedAt.Format(time.RFC3339Nano),
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

// SearchUsers matches q against indexed user names and returns public profiles only.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]entity.PublicProfile, error) {
	out := []entity.PublicProfile{}
	q = strings.TrimSpace(q)
	if s.ES == nil || s.ESUsersIndex == "" || q == "" {
		return out, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"name": map[string]any{"query": q, "fuzziness": "AUTO"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, fmt.Errorf("%w: search users: %w", ErrInternal, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("%w: search users: %s", ErrInternal, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.PublicProfile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode search: %w", ErrInternal, err)
	}
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
