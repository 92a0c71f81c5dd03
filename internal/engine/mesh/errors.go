package mesh

import "fmt"

// ErrorKind classifies load failures.
type ErrorKind int

const (
	FileOpenError ErrorKind = iota
	FormatError
	EmptyMeshError
	UnsupportedFormatError
	GraphicsResourceError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case FileOpenError:
		return "file open"
	case FormatError:
		return "format"
	case EmptyMeshError:
		return "empty mesh"
	case UnsupportedFormatError:
		return "unsupported format"
	case GraphicsResourceError:
		return "graphics resource"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LoadError is returned by Slot.Load.
type LoadError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
