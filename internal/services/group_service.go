package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IcramDoku/cmsc447project/internal/cache"
	"github.com/IcramDoku/cmsc447project/internal/models"
	"github.com/IcramDoku/cmsc447project/internal/repository"
	"github.com/IcramDoku/cmsc447project/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound              = errors.New("group not found")
	ErrInvalidGroupName           = errors.New("group name cannot be empty")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyGroupMember         = errors.New("user is already a member of this group")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
)

// GroupService provides business logic for group operations.
type GroupService struct {
	groupRepo   repository.GroupRepository
	memberCache *cache.MemberCache
}

// NewGroupService creates a new GroupService. memberCache may be nil.
func NewGroupService(groupRepo repository.GroupRepository, memberCache *cache.MemberCache) *GroupService {
	return &GroupService{
		groupRepo:   groupRepo,
		memberCache: memberCache,
	}
}

// CreateGroup creates a new group with the creator as its first member.
func (s *GroupService) CreateGroup(name string, creatorID uint64) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidGroupName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	group := &models.Group{
		Name:       name,
		InviteCode: inviteCode,
	}

	if err := s.groupRepo.CreateWithOwner(group, creatorID); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// JoinGroup adds a user to the group matching the invite code.
func (s *GroupService) JoinGroup(ctx context.Context, inviteCode string, userID uint64) (*models.Group, error) {
	group, err := s.groupRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	if _, err := s.groupRepo.FindMember(group.ID, userID); err == nil {
		return nil, ErrAlreadyGroupMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.groupRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	// The cached member list for this group is now stale.
	s.memberCache.Invalidate(ctx, group.ID)

	return group, nil
}

// ListGroupsForUser returns the groups the user belongs to.
func (s *GroupService) ListGroupsForUser(userID uint64) ([]models.GroupMember, error) {
	memberships, err := s.groupRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return memberships, nil
}

// GetGroupMembers returns a group and its members with stale user
// references filtered out.
func (s *GroupService) GetGroupMembers(groupID uint64) ([]models.GroupMember, error) {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	members, err := s.groupRepo.ListMembers(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	filtered := make([]models.GroupMember, 0, len(members))
	for _, m := range members {
		if m.User.ID == 0 {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered, nil
}
