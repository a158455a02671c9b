// Package authz decides whether verified claims may perform an operation.
//
// Rules are declared once in Policies and evaluated by Evaluator.Authorize,
// which services call before touching storage.
package authz
