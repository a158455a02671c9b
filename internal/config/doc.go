// Package config loads the blog API settings from an optional .env file,
// an optional config.yaml and BLOG_-prefixed environment variables, then
// validates them before any component is constructed.
package config
