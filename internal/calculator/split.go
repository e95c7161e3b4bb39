package calculator

import (
	"math"
	"strconv"

	apperrors "github.com/mmynk/splitchain/internal/errors"
	"github.com/mmynk/splitchain/internal/models"
)

// EvenSplit divides amount equally across members.
// Based on the rounding policy: share = amount / len(members), floored. The
// remainder (amount mod len(members)) is not allocated to anyone, so the payer
// implicitly absorbs it.
func EvenSplit(amount int64, members []string) ([]models.Split, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be greater than 0", "amount", strconv.FormatInt(amount, 10))
	}
	if len(members) == 0 {
		return nil, apperrors.InvalidInput("must have at least one member")
	}

	share := amount / int64(len(members))
	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{Member: m, Amount: share}
	}
	return splits, nil
}

// Remainder returns the part of amount an even split leaves unallocated.
func Remainder(amount int64, memberCount int) int64 {
	if memberCount <= 0 {
		return 0
	}
	return amount % int64(memberCount)
}

// UnevenSplit validates caller-supplied owed amounts against the group's members
// and returns them in group member order.
//
// Checks, first failure wins:
//   - members and amounts have equal length; every listed principal is a group
//     member, listed once, with a non-negative amount
//   - every group member is listed (a member owing 0 must say so)
//   - the amounts sum exactly to amount
func UnevenSplit(amount int64, groupMembers, members []string, amounts []int64) ([]models.Split, error) {
	if len(members) != len(amounts) {
		return nil, apperrors.InvalidInput("members and amounts length mismatch",
			"members", strconv.Itoa(len(members)),
			"amounts", strconv.Itoa(len(amounts)),
		)
	}

	inGroup := make(map[string]bool, len(groupMembers))
	for _, m := range groupMembers {
		inGroup[m] = true
	}

	owed := make(map[string]int64, len(members))
	var total int64
	for i, m := range members {
		if !inGroup[m] {
			return nil, apperrors.InvalidInput("split member is not a group member", "member", m)
		}
		if _, dup := owed[m]; dup {
			return nil, apperrors.InvalidInput("duplicate split member", "member", m)
		}
		if amounts[i] < 0 {
			return nil, apperrors.InvalidInput("split amount cannot be negative",
				"member", m,
				"amount", strconv.FormatInt(amounts[i], 10),
			)
		}
		if amounts[i] > math.MaxInt64-total {
			return nil, apperrors.InvalidInput("split amounts overflow")
		}
		owed[m] = amounts[i]
		total += amounts[i]
	}

	for _, m := range groupMembers {
		if _, ok := owed[m]; !ok {
			return nil, apperrors.InvalidInput("every group member must be listed in the split", "missing", m)
		}
	}

	if total != amount {
		return nil, apperrors.InvalidInput("split mismatch",
			"amount", strconv.FormatInt(amount, 10),
			"sum", strconv.FormatInt(total, 10),
		)
	}

	splits := make([]models.Split, len(groupMembers))
	for i, m := range groupMembers {
		splits[i] = models.Split{Member: m, Amount: owed[m]}
	}
	return splits, nil
}
