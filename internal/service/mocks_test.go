package service

import (
	"entrehive-backend/internal/model"
	"entrehive-backend/internal/repository/interfaces"
	"entrehive-backend/internal/util"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User, profile *model.Profile) error {
	args := m.Called(user, profile)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(profile *model.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockUserRepository) GetProfileByUserID(userID int) (*model.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserRepository) ListPublicProfiles(filter interfaces.ProfileFilter, page, pageSize int) ([]*model.User, int, error) {
	args := m.Called(filter, page, pageSize)
	return args.Get(0).([]*model.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) GetProfileStats() (*model.ProfileStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileStats), args.Error(1)
}

func (m *MockUserRepository) SearchUsers(query string, limit int) ([]*model.User, error) {
	args := m.Called(query, limit)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateFollow(follow *model.Follow) error {
	args := m.Called(follow)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteFollow(followerID, followingID int) error {
	args := m.Called(followerID, followingID)
	return args.Error(0)
}

func (m *MockUserRepository) IsFollowing(followerID, followingID int) (bool, error) {
	args := m.Called(followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) GetFollowSuggestions(userID int, universityID *int, limit int) ([]*model.User, error) {
	args := m.Called(userID, universityID, limit)
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockPostRepository 是 PostRepository 接口的模拟实现
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) UpdatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) DeletePost(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) ListVisiblePosts(viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error) {
	args := m.Called(viewer, page, pageSize)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) ListUserPosts(authorID int, viewer interfaces.Viewer, page, pageSize int) ([]*model.Post, int, error) {
	args := m.Called(authorID, viewer, page, pageSize)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) SearchPosts(viewer interfaces.Viewer, query string, limit int) ([]*model.Post, error) {
	args := m.Called(viewer, query, limit)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockPostRepository) GetCommentByID(id int) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockPostRepository) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	args := m.Called(postID)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockPostRepository) UpdateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteComment(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleLike(userID, postID int) (bool, int, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) GetLikes(postID int) ([]*model.Like, error) {
	args := m.Called(postID)
	return args.Get(0).([]*model.Like), args.Error(1)
}

func (m *MockPostRepository) IsPostLikedByUser(postID, userID int) (bool, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) CreateShare(share *model.PostShare) error {
	args := m.Called(share)
	return args.Error(0)
}

// MockFeedRepository 是 FeedRepository 接口的模拟实现
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) GetConfigByUserID(userID int) (*model.FeedConfig, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedConfig), args.Error(1)
}

func (m *MockFeedRepository) CreateConfig(config *model.FeedConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

func (m *MockFeedRepository) UpdateConfig(config *model.FeedConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

func (m *MockFeedRepository) IncrementTopicMentions(topics []string) error {
	args := m.Called(topics)
	return args.Error(0)
}

func (m *MockFeedRepository) ListTrendingTopics(limit int) ([]*model.TrendingTopic, error) {
	args := m.Called(limit)
	return args.Get(0).([]*model.TrendingTopic), args.Error(1)
}

// MockNotificationRepository 是 NotificationRepository 接口的模拟实现
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *model.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(id int) (*model.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByRecipient(recipientID int, isRead *bool, limit int) ([]*model.Notification, error) {
	args := m.Called(recipientID, isRead, limit)
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountByRecipient(recipientID int) (int, error) {
	args := m.Called(recipientID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) UnreadCount(recipientID int) (int, error) {
	args := m.Called(recipientID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(recipientID int) (int, error) {
	args := m.Called(recipientID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) DeleteAllRead(recipientID int) (int, error) {
	args := m.Called(recipientID)
	return args.Int(0), args.Error(1)
}

// MockUniversityRepository 是 UniversityRepository 接口的模拟实现
type MockUniversityRepository struct {
	mock.Mock
}

func (m *MockUniversityRepository) Create(university *model.University) error {
	args := m.Called(university)
	return args.Error(0)
}

func (m *MockUniversityRepository) FindByID(id int) (*model.University, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.University), args.Error(1)
}

func (m *MockUniversityRepository) FindByDomain(domain string) (*model.University, error) {
	args := m.Called(domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.University), args.Error(1)
}

func (m *MockUniversityRepository) List(filter interfaces.UniversityFilter, page, pageSize int) ([]*model.University, int, error) {
	args := m.Called(filter, page, pageSize)
	return args.Get(0).([]*model.University), args.Int(1), args.Error(2)
}

func (m *MockUniversityRepository) ListTypes() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUniversityRepository) ListByCountry(country string) ([]*model.University, error) {
	args := m.Called(country)
	return args.Get(0).([]*model.University), args.Error(1)
}

func (m *MockUniversityRepository) SearchByDomain(query string, limit int) ([]*model.University, error) {
	args := m.Called(query, limit)
	return args.Get(0).([]*model.University), args.Error(1)
}

func (m *MockUniversityRepository) RefreshStats(universityID int) error {
	args := m.Called(universityID)
	return args.Error(0)
}

// MockContactRepository 是 ContactRepository 接口的模拟实现
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(inquiry *model.ContactInquiry) error {
	args := m.Called(inquiry)
	return args.Error(0)
}

func (m *MockContactRepository) FindByID(id int) (*model.ContactInquiry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContactInquiry), args.Error(1)
}

func (m *MockContactRepository) List(filter interfaces.InquiryFilter, page, pageSize int) ([]*model.ContactInquiry, int, error) {
	args := m.Called(filter, page, pageSize)
	return args.Get(0).([]*model.ContactInquiry), args.Int(1), args.Error(2)
}

func (m *MockContactRepository) Update(inquiry *model.ContactInquiry) error {
	args := m.Called(inquiry)
	return args.Error(0)
}

// MockProjectRepository 是 ProjectRepository 接口的模拟实现
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(project *model.Project) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindByID(id int) (*model.Project, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByIDs(ids []int) ([]*model.Project, error) {
	args := m.Called(ids)
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *MockProjectRepository) List(viewer interfaces.Viewer, page, pageSize int) ([]*model.Project, int, error) {
	args := m.Called(viewer, page, pageSize)
	return args.Get(0).([]*model.Project), args.Int(1), args.Error(2)
}

func (m *MockProjectRepository) Search(viewer interfaces.Viewer, query string, limit int) ([]*model.Project, error) {
	args := m.Called(viewer, query, limit)
	return args.Get(0).([]*model.Project), args.Error(1)
}

// MockMessageRepository 是 MessageRepository 接口的模拟实现
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateConversation(conversation *model.Conversation) error {
	args := m.Called(conversation)
	return args.Error(0)
}

func (m *MockMessageRepository) GetConversationByID(id int) (*model.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversation), args.Error(1)
}

func (m *MockMessageRepository) FindConversationByParticipants(participant1ID, participant2ID int) (*model.Conversation, error) {
	args := m.Called(participant1ID, participant2ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversation), args.Error(1)
}

func (m *MockMessageRepository) ListConversations(userID int, includeArchived bool) ([]*model.Conversation, error) {
	args := m.Called(userID, includeArchived)
	return args.Get(0).([]*model.Conversation), args.Error(1)
}

func (m *MockMessageRepository) SetArchived(conversationID, userID int, archived bool) error {
	args := m.Called(conversationID, userID, archived)
	return args.Error(0)
}

func (m *MockMessageRepository) CreateMessage(message *model.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetMessageByID(id int) (*model.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) ListMessages(conversationID, limit int) ([]*model.Message, error) {
	args := m.Called(conversationID, limit)
	return args.Get(0).([]*model.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkMessageAsRead(messageID int) error {
	args := m.Called(messageID)
	return args.Error(0)
}

func (m *MockMessageRepository) MarkConversationAsRead(conversationID, readerID int) (int, error) {
	args := m.Called(conversationID, readerID)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageRepository) UnreadMessageCount(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageRepository) GetInboxStats(userID int) (*model.InboxStats, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InboxStats), args.Error(1)
}
