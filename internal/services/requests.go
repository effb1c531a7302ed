package services

type LoadRequest struct {
	// Name overrides the profile name reported by the source.
	Name string
	Path string
	Seed int64
}
