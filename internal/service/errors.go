package service

import (
	"fmt"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
)

// Client-facing messages shared by several services.
const (
	msgUserNotFound   = "User not found"
	msgPostNotFound   = "Post not found"
	msgAuthorNotFound = "Author not found"
	msgInternal       = "Internal server error"
)

// ServiceError records which service operation failed. It is the cause of
// the internal errors services return, so logs show where a storage failure
// surfaced while clients only see msgInternal.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// internalError wraps an unexpected failure as an ErrInternal domain error.
func internalError(service, op string, err error) error {
	return domain.NewInternalError(msgInternal, &ServiceError{Service: service, Op: op, Err: err})
}
