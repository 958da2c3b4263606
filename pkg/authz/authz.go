package authz

import (
	"recipeclip/domain"
)

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

type Permission string

const (
	PermissionClipBasic    Permission = "clip_basic"
	PermissionClipAI       Permission = "clip_ai"
	PermissionClipUpload   Permission = "clip_upload"
	PermissionRecipeSave   Permission = "recipe_save"
	PermissionRecipeCreate Permission = "recipe_create"
	PermissionRecipeEdit   Permission = "recipe_edit"
	PermissionRecipeList   Permission = "recipe_list"
	PermissionRecipeDelete Permission = "recipe_delete"
)

// tierPermissions is loaded once and never mutated.
var tierPermissions = map[Tier]map[Permission]bool{
	TierFree: {
		PermissionClipBasic:    true,
		PermissionRecipeSave:   true,
		PermissionRecipeCreate: true,
		PermissionRecipeEdit:   true,
		PermissionRecipeList:   true,
		PermissionRecipeDelete: true,
	},
	TierPro: {
		PermissionClipBasic:    true,
		PermissionClipAI:       true,
		PermissionClipUpload:   true,
		PermissionRecipeSave:   true,
		PermissionRecipeCreate: true,
		PermissionRecipeEdit:   true,
		PermissionRecipeList:   true,
		PermissionRecipeDelete: true,
	},
}

// TierInfo is computed per request and never persisted.
type TierInfo struct {
	Tier      Tier
	ExpiresAt string
	IsExpired bool
}

// TierConfig is the subset of settings tier resolution depends on.
type TierConfig interface {
	IsSingleTenant() bool
	IsProUser(userID string) bool
}

// ResolveTier maps a resolved identity to a subscription tier.
// Single-tenant deployments always resolve to pro. Unauthenticated users
// (nil) resolve to free.
func ResolveTier(user *domain.User, cfg TierConfig) TierInfo {
	if cfg.IsSingleTenant() {
		return TierInfo{Tier: TierPro}
	}
	if user == nil {
		return TierInfo{Tier: TierFree}
	}
	if cfg.IsProUser(user.ID) {
		return TierInfo{Tier: TierPro}
	}
	return TierInfo{Tier: TierFree}
}

func HasPermission(tier Tier, permission Permission) bool {
	return tierPermissions[tier][permission]
}

// CheckPermission returns nil when the tier allows the action. A denied
// action reports "subscription_expired" only when the tier info is expired,
// otherwise "upgrade_required".
func CheckPermission(info TierInfo, permission Permission) error {
	if HasPermission(info.Tier, permission) {
		return nil
	}
	if info.IsExpired {
		return &SubscriptionExpiredError{Feature: string(permission), ExpiredAt: info.ExpiresAt}
	}
	return &UpgradeRequiredError{Feature: string(permission)}
}
