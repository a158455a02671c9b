package authz

import (
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/google/uuid"
)

// Operation names an action guarded by a policy.
type Operation string

// Guarded operations.
const (
	OpLogin               Operation = "login"
	OpRegister            Operation = "register"
	OpListPosts           Operation = "list_posts"
	OpGetPost             Operation = "get_post"
	OpRecommendations     Operation = "recommendations"
	OpServeImage          Operation = "serve_image"
	OpCreatePost          Operation = "create_post"
	OpUpdatePost          Operation = "update_post"
	OpDeletePost          Operation = "delete_post"
	OpReplaceCover        Operation = "replace_cover"
	OpListUsers           Operation = "list_users"
	OpGetUser             Operation = "get_user"
	OpListSavedPosts      Operation = "list_saved_posts"
	OpSavePost            Operation = "save_post"
	OpUnsavePost          Operation = "unsave_post"
	OpReplaceProfileImage Operation = "replace_profile_image"
	OpListMyPosts         Operation = "list_my_posts"
)

// Policy is the access rule of one operation.
type Policy struct {
	// Public operations need no claims.
	Public bool
	// Role, when set, is the role the caller must hold.
	Role domain.Role
	// Owner requires the caller to be the owner of the target entity.
	Owner bool
	// RoleOrOwner relaxes Role and Owner into a disjunction.
	RoleOrOwner bool
	// Message is returned when the caller is authenticated but not allowed.
	Message string
}

// Policies is the access table of every guarded operation.
var Policies = map[Operation]Policy{
	OpLogin:           {Public: true},
	OpRegister:        {Public: true},
	OpListPosts:       {Public: true},
	OpGetPost:         {Public: true},
	OpRecommendations: {Public: true},
	OpServeImage:      {Public: true},

	OpCreatePost:   {Role: domain.RoleBlogger, Message: "You are not allowed to create a post"},
	OpUpdatePost:   {Role: domain.RoleBlogger, Owner: true, Message: "You are not allowed to update this post"},
	OpDeletePost:   {Role: domain.RoleBlogger, Owner: true, Message: "You are not allowed to delete this post"},
	OpReplaceCover: {Role: domain.RoleBlogger, Owner: true, Message: "You are not allowed to update this post"},
	OpListUsers:    {Role: domain.RoleBlogger, Message: "You are not allowed to access this route"},
	OpGetUser: {
		Role:        domain.RoleBlogger,
		Owner:       true,
		RoleOrOwner: true,
		Message:     "You are not allowed to access this route",
	},

	OpListSavedPosts:      {},
	OpSavePost:            {},
	OpUnsavePost:          {},
	OpReplaceProfileImage: {},
	OpListMyPosts:         {},
}

// Requirement is a single role and ownership check.
type Requirement struct {
	Role    domain.Role
	OwnerID uuid.UUID
	// RoleOrOwner passes when either the role or the ownership check passes.
	RoleOrOwner bool
	Message     string
}

const defaultDeniedMessage = "You are not allowed to access this route"

// Evaluate checks claims against req. Claims must be non-nil.
// An unset Role or a nil OwnerID skips that check.
func Evaluate(claims *domain.Claims, req Requirement) error {
	if claims == nil {
		return domain.NewAuthenticationError("Unauthorized")
	}

	roleSet := req.Role != ""
	ownerSet := req.OwnerID != uuid.Nil
	roleOK := !roleSet || claims.Role == req.Role
	ownerOK := !ownerSet || claims.Subject == req.OwnerID

	allowed := roleOK && ownerOK
	if req.RoleOrOwner && roleSet && ownerSet {
		allowed = roleOK || ownerOK
	}
	if allowed {
		return nil
	}

	msg := req.Message
	if msg == "" {
		msg = defaultDeniedMessage
	}
	return domain.NewAuthorizationError(msg)
}
