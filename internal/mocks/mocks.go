package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"runrun-service/internal/avatars"
	"runrun-service/internal/models"
	"runrun-service/internal/push"
	"runrun-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	args := m.Called(ctx, userID)
	var profile models.UserProfile
	if val := args.Get(0); val != nil {
		profile = val.(models.UserProfile)
	}
	return profile, args.Error(1)
}

func (m *UserRepositoryMock) UpsertProfile(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	args := m.Called(ctx, profile)
	var stored models.UserProfile
	if val := args.Get(0); val != nil {
		stored = val.(models.UserProfile)
	}
	return stored, args.Error(1)
}

func (m *UserRepositoryMock) SetDeviceToken(ctx context.Context, userID string, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	var ids []string
	if val := args.Get(0); val != nil {
		ids = val.([]string)
	}
	return ids, args.Error(1)
}

func (m *UserRepositoryMock) ListFriends(ctx context.Context, userID string) ([]models.UserProfile, error) {
	args := m.Called(ctx, userID)
	var friends []models.UserProfile
	if val := args.Get(0); val != nil {
		friends = val.([]models.UserProfile)
	}
	return friends, args.Error(1)
}

func (m *UserRepositoryMock) AddFriendEdges(ctx context.Context, userID string, friendID string) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *UserRepositoryMock) RemoveFriendEdges(ctx context.Context, userID string, friendID string) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

type FriendRequestRepositoryMock struct {
	mock.Mock
}

func (m *FriendRequestRepositoryMock) Get(ctx context.Context, requestID string) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) GetByUsers(ctx context.Context, fromUserID string, toUserID string) (models.FriendRequest, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) Upsert(ctx context.Context, req models.FriendRequest) (models.FriendRequest, error) {
	args := m.Called(ctx, req)
	var stored models.FriendRequest
	if val := args.Get(0); val != nil {
		stored = val.(models.FriendRequest)
	}
	return stored, args.Error(1)
}

func (m *FriendRequestRepositoryMock) SetStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) (models.FriendRequest, error) {
	args := m.Called(ctx, requestID, status)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRequestRepositoryMock) ListIncoming(ctx context.Context, toUserID string) ([]models.FriendRequest, error) {
	args := m.Called(ctx, toUserID)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

type RunRecordRepositoryMock struct {
	mock.Mock
}

func (m *RunRecordRepositoryMock) UpsertBatch(ctx context.Context, records []models.RunRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *RunRecordRepositoryMock) ListForUser(ctx context.Context, userID string) ([]models.RunRecord, error) {
	args := m.Called(ctx, userID)
	var records []models.RunRecord
	if val := args.Get(0); val != nil {
		records = val.([]models.RunRecord)
	}
	return records, args.Error(1)
}

type CascadeRepositoryMock struct {
	mock.Mock
}

func (m *CascadeRepositoryMock) DeleteUserData(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) Send(ctx context.Context, n push.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type AvatarStoreMock struct {
	mock.Mock
}

func (m *AvatarStoreMock) DeleteAll(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) SendTestNotification(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.FriendRequestRepository = (*FriendRequestRepositoryMock)(nil)
var _ repositories.RunRecordRepository = (*RunRecordRepositoryMock)(nil)
var _ repositories.CascadeRepository = (*CascadeRepositoryMock)(nil)
var _ push.Sender = (*SenderMock)(nil)
var _ avatars.Store = (*AvatarStoreMock)(nil)
