package asset

// Kind identifies a family of images sharing a directory and filename prefix.
type Kind string

const (
	// KindProfile is a user's profile picture.
	KindProfile Kind = "profile"
	// KindCover is a post's cover image.
	KindCover Kind = "cover"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindProfile || k == KindCover
}

// Dir returns the directory, relative to the storage root, holding images of kind k.
func (k Kind) Dir() string {
	switch k {
	case KindProfile:
		return "profiles"
	case KindCover:
		return "posts"
	default:
		return ""
	}
}

// Prefix returns the filename prefix of images of kind k.
func (k Kind) Prefix() string {
	switch k {
	case KindProfile:
		return "user-profile-"
	case KindCover:
		return "post-cover-"
	default:
		return ""
	}
}
