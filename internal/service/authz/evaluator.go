package authz

import (
	"fmt"
	"log/slog"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/google/uuid"
)

// Evaluator applies a policy table to claims.
type Evaluator struct {
	policies map[Operation]Policy
	logger   *slog.Logger
}

// NewEvaluator creates an Evaluator over policies, or Policies when nil.
func NewEvaluator(policies map[Operation]Policy, logger *slog.Logger) *Evaluator {
	if policies == nil {
		policies = Policies
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		policies: policies,
		logger:   logger.With(slog.String("component", "authz")),
	}
}

// Authorize checks whether claims may perform op on an entity owned by
// ownerID. ownerID is ignored by policies without an ownership rule.
// Nil claims fail every non-public operation with an authentication error.
func (e *Evaluator) Authorize(claims *domain.Claims, op Operation, ownerID uuid.UUID) error {
	policy, ok := e.policies[op]
	if !ok {
		return domain.NewInternalError("authorization failed", fmt.Errorf("no policy for operation %q", op))
	}
	if policy.Public {
		return nil
	}
	if claims == nil {
		return domain.NewAuthenticationError("Unauthorized")
	}

	req := Requirement{
		Role:        policy.Role,
		RoleOrOwner: policy.RoleOrOwner,
		Message:     policy.Message,
	}
	if policy.Owner {
		req.OwnerID = ownerID
		if ownerID == uuid.Nil {
			// An owned entity without an owner can never match.
			req.OwnerID = uuid.Max
		}
	}

	if err := Evaluate(claims, req); err != nil {
		e.logger.Debug("access denied",
			slog.String("operation", string(op)),
			slog.String("user_id", claims.Subject.String()),
			slog.String("role", string(claims.Role)))
		return err
	}
	return nil
}

// AuthorizeRole runs the checks of op that need no target entity: the
// authentication requirement and, unless ownership alone can grant access,
// the role. Callers run it before loading the entity.
func (e *Evaluator) AuthorizeRole(claims *domain.Claims, op Operation) error {
	policy, ok := e.policies[op]
	if !ok {
		return domain.NewInternalError("authorization failed", fmt.Errorf("no policy for operation %q", op))
	}
	if policy.Public {
		return nil
	}
	if claims == nil {
		return domain.NewAuthenticationError("Unauthorized")
	}
	if policy.RoleOrOwner {
		return nil
	}
	return Evaluate(claims, Requirement{Role: policy.Role, Message: policy.Message})
}
