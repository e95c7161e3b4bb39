package ledger

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/mmynk/splitchain/internal/errors"
	"github.com/mmynk/splitchain/internal/models"
)

// CreateGroup registers a group created by caller and returns its ID.
//
// The member list starts with caller, followed by candidates in order with
// zero principals and repeats dropped. IDs are assigned sequentially from 1.
func (l *Ledger) CreateGroup(ctx context.Context, caller, name, description string, candidates []string) (uint64, error) {
	ctx, span := l.startSpan(ctx, "CreateGroup", attribute.Int("candidates", len(candidates)))
	defer span.End()

	if name == "" {
		return 0, apperrors.InvalidInput("group name is required")
	}
	if caller == "" {
		return 0, apperrors.Unauthorized("caller is required to create a group")
	}

	members := lo.Uniq(lo.Compact(append([]string{caller}, candidates...)))

	l.mu.Lock()
	defer l.mu.Unlock()

	count, err := l.store.GroupCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}

	now := l.now().Unix()
	group := &models.Group{
		ID:          count + 1,
		Name:        name,
		Description: description,
		Creator:     caller,
		Members:     members,
		Active:      true,
		CreatedAt:   now,
	}

	event, err := models.NewEvent(models.EventGroupCreated, group.ID, now, models.GroupCreated{
		GroupID:   group.ID,
		Name:      group.Name,
		Creator:   group.Creator,
		Members:   group.Members,
		Timestamp: now,
	})
	if err != nil {
		return 0, err
	}

	if err := l.store.CreateGroup(ctx, group, &event); err != nil {
		return 0, fmt.Errorf("failed to create group: %w", err)
	}

	span.SetAttributes(attribute.Int64("group_id", int64(group.ID)))
	l.metrics.GroupCreated()
	l.notify(ctx, event)
	return group.ID, nil
}

func (l *Ledger) GetGroup(ctx context.Context, groupID uint64) (*models.Group, error) {
	return l.loadGroup(ctx, groupID)
}

// GetGroupMembers returns the members in the order they were added.
func (l *Ledger) GetGroupMembers(ctx context.Context, groupID uint64) ([]string, error) {
	group, err := l.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group.Members, nil
}

// IsMember reports whether principal belongs to the group. Unknown groups
// report false rather than an error; only storage failures are returned.
func (l *Ledger) IsMember(ctx context.Context, groupID uint64, principal string) (bool, error) {
	group, err := l.loadGroup(ctx, groupID)
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return group.HasMember(principal), nil
}

// GetUserGroups returns the IDs of the groups principal belongs to, oldest first.
func (l *Ledger) GetUserGroups(ctx context.Context, principal string) ([]uint64, error) {
	if principal == "" {
		return []uint64{}, nil
	}
	ids, err := l.store.ListUserGroups(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	return ids, nil
}

func (l *Ledger) GroupCount(ctx context.Context) (uint64, error) {
	count, err := l.store.GroupCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return count, nil
}
