package apitype

// Texture is a renderer-owned handle to a prepared picture. Handles are only
// created and used on the thread that owns the rendering context.
type Texture interface {
	Name() string
	Size() Size
}

type LoadStatus int

const (
	LoadPending LoadStatus = iota
	LoadReady
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadPending:
		return "pending"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	}
	return "unknown"
}
