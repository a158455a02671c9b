// Package domain contains the core business entities of the blog: users,
// posts, access-token claims and paginated results, along with the error
// kinds every layer uses to classify failures. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
