// Package asset manages uploaded images: validating uploads, moving them
// from the temporary upload directory into their final location, replacing
// the previous image of an entity and serving stored images.
//
// Storage is abstracted behind FileStore, with a local filesystem
// implementation and an S3-compatible one.
package asset
