// Package service contains the blog's use cases. It coordinates domain
// entities, the store interfaces, the authorization policy table and the
// asset manager, and reports failures as domain errors whose kind the API
// layer maps to a status code.
//
// Key components:
//
//   - QueryEngine: paginated, filtered post listings
//   - PostService: post CRUD, cover images and recommendations
//   - UserService: registration, user lookup and profile images
//   - SavedPostService: the user to post "saved" relation
//   - ImageService: reading stored images
//
// Services never depend on a concrete database. Multi-step writes run
// through a store.Transactor.
package service
