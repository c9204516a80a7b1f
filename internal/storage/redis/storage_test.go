package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/jmhart/chatroom-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// User tests

func (s *StorageSuite) TestCreateAndGetUser() {
	created, err := s.storage.CreateUser(s.ctx, &model.User{
		Name:         "alice",
		PasswordHash: "hash",
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.NotZero(created.ID)

	retrieved, err := s.storage.GetUser(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Name)
	s.Equal("hash", retrieved.PasswordHash)
}

func (s *StorageSuite) TestCreateUserAssignsIncreasingIDs() {
	first, err := s.storage.CreateUser(s.ctx, &model.User{Name: "alice"})
	s.Require().NoError(err)
	second, err := s.storage.CreateUser(s.ctx, &model.User{Name: "bob"})
	s.Require().NoError(err)

	s.Greater(second.ID, first.ID)
}

func (s *StorageSuite) TestCreateUserDuplicateName() {
	_, err := s.storage.CreateUser(s.ctx, &model.User{Name: "alice"})
	s.Require().NoError(err)

	_, err = s.storage.CreateUser(s.ctx, &model.User{Name: "alice"})
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, 999)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByName() {
	created, err := s.storage.CreateUser(s.ctx, &model.User{Name: "alice"})
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUserByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, retrieved.ID)
}

func (s *StorageSuite) TestGetUserByNameNotFound() {
	_, err := s.storage.GetUserByName(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Message tests

func (s *StorageSuite) TestCreateAndGetMessage() {
	created, err := s.storage.CreateMessage(s.ctx, &model.Message{
		AuthorID:   1,
		AuthorName: "alice",
		Content:    "hello",
		CreatedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.NotZero(created.ID)

	retrieved, err := s.storage.GetMessage(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("hello", retrieved.Content)
	s.Equal("alice", retrieved.AuthorName)
}

func (s *StorageSuite) TestGetMessageNotFound() {
	_, err := s.storage.GetMessage(s.ctx, 999)
	s.ErrorIs(err, model.ErrMessageNotFound)
}

func (s *StorageSuite) TestUpdateMessage() {
	created, err := s.storage.CreateMessage(s.ctx, &model.Message{Content: "original"})
	s.Require().NoError(err)

	created.Content = "revised"
	s.Require().NoError(s.storage.UpdateMessage(s.ctx, created))

	retrieved, err := s.storage.GetMessage(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("revised", retrieved.Content)
}

func (s *StorageSuite) TestUpdateMessageNotFound() {
	err := s.storage.UpdateMessage(s.ctx, &model.Message{ID: 999, Content: "x"})
	s.ErrorIs(err, model.ErrMessageNotFound)
}

func (s *StorageSuite) TestDeleteMessage() {
	created, err := s.storage.CreateMessage(s.ctx, &model.Message{Content: "doomed"})
	s.Require().NoError(err)

	s.Require().NoError(s.storage.DeleteMessage(s.ctx, created.ID))

	_, err = s.storage.GetMessage(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrMessageNotFound)
}

func (s *StorageSuite) TestDeleteMessageRemovesFromListing() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	kept, _ := s.storage.CreateMessage(s.ctx, &model.Message{Content: "kept", CreatedAt: base})
	doomed, _ := s.storage.CreateMessage(s.ctx, &model.Message{Content: "doomed", CreatedAt: base.Add(time.Second)})

	s.Require().NoError(s.storage.DeleteMessage(s.ctx, doomed.ID))

	messages, err := s.storage.ListMessages(s.ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(messages, 1)
	s.Equal(kept.ID, messages[0].ID)
}

func (s *StorageSuite) TestDeleteMessageNotFound() {
	err := s.storage.DeleteMessage(s.ctx, 999)
	s.ErrorIs(err, model.ErrMessageNotFound)
}

func (s *StorageSuite) TestListMessagesOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	first, _ := s.storage.CreateMessage(s.ctx, &model.Message{Content: "a", CreatedAt: base})
	second, _ := s.storage.CreateMessage(s.ctx, &model.Message{Content: "b", CreatedAt: base.Add(time.Second)})
	third, _ := s.storage.CreateMessage(s.ctx, &model.Message{Content: "c", CreatedAt: base.Add(2 * time.Second)})

	messages, err := s.storage.ListMessages(s.ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(messages, 3)
	s.Equal(first.ID, messages[0].ID)
	s.Equal(second.ID, messages[1].ID)
	s.Equal(third.ID, messages[2].ID)
}

func (s *StorageSuite) TestListMessagesBreaksTimestampTiesByID() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// More than 9 entries so lexical member ordering ("10" < "9") would
	// misorder without the explicit ID tiebreak
	for i := 0; i < 12; i++ {
		_, err := s.storage.CreateMessage(s.ctx, &model.Message{Content: "m", CreatedAt: at})
		s.Require().NoError(err)
	}

	messages, err := s.storage.ListMessages(s.ctx, 100)
	s.Require().NoError(err)
	s.Require().Len(messages, 12)
	for i := 1; i < len(messages); i++ {
		s.Less(messages[i-1].ID, messages[i].ID)
	}
}

func (s *StorageSuite) TestListMessagesRespectsLimit() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.storage.CreateMessage(s.ctx, &model.Message{
			Content:   "m",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		s.Require().NoError(err)
	}

	messages, err := s.storage.ListMessages(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(messages, 3)
}

func (s *StorageSuite) TestListMessagesEmpty() {
	messages, err := s.storage.ListMessages(s.ctx, 100)
	s.Require().NoError(err)
	s.Empty(messages)
}
