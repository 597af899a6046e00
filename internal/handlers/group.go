package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/IcramDoku/cmsc447project/internal/dto"
	apierrors "github.com/IcramDoku/cmsc447project/internal/errors"
	"github.com/IcramDoku/cmsc447project/internal/middleware"
	"github.com/IcramDoku/cmsc447project/internal/services"
	"github.com/gin-gonic/gin"
)

// GroupHandler coordinates group-related HTTP handlers.
type GroupHandler struct {
	groupService *services.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup creates a new group with the caller as its first member.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateGroupRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(req.Name, userID)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group, true))
}

// JoinGroup adds the caller to the group matching the invite code.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinGroupRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.JoinGroup(c.Request.Context(), req.InviteCode, userID)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group, false))
}

// ListGroups returns the groups the caller belongs to.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.groupService.ListGroupsForUser(userID)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	groups := make([]dto.GroupDTO, 0, len(memberships))
	for _, m := range memberships {
		groups = append(groups, dto.ToGroupDTO(m.Group, true))
	}

	c.JSON(http.StatusOK, groups)
}

// GetMembers returns the members of the :groupId group.
func (h *GroupHandler) GetMembers(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid group ID")
		return
	}

	members, err := h.groupService.GetGroupMembers(groupID)
	if err != nil {
		respondGroupError(c, err)
		return
	}

	users := make([]dto.UserDTO, 0, len(members))
	for _, m := range members {
		users = append(users, dto.ToUserDTO(m.User))
	}

	c.JSON(http.StatusOK, users)
}

func respondGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidGroupName):
		apierrors.MissingFields(c, "Group name is required")
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, "Invalid invite code")
	case errors.Is(err, services.ErrAlreadyGroupMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrGroupNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		log.Printf("group: unexpected error: %v", err)
		apierrors.InternalError(c, "")
	}
}
