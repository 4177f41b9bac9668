package catalog

// ViewKind is one of the mutually exclusive states a renderer may draw
type ViewKind int

const (
	// ViewIdle means nothing has been requested yet
	ViewIdle ViewKind = iota
	// ViewLoadingFull replaces the whole screen with a progress indicator
	ViewLoadingFull
	// ViewLoadingRefresh shows a refresh indicator over any existing content
	ViewLoadingRefresh
	// ViewContent shows the loaded items
	ViewContent
	// ViewError shows the error placeholder
	ViewError
)

// String returns the string representation of a ViewKind
func (k ViewKind) String() string {
	switch k {
	case ViewIdle:
		return "idle"
	case ViewLoadingFull:
		return "loading"
	case ViewLoadingRefresh:
		return "refreshing"
	case ViewContent:
		return "content"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}

// ListView is the projection of a ListState
type ListView struct {
	Kind  ViewKind
	Items []Item
	// Paging is set while the next page is being fetched
	Paging      bool
	HasMore     bool
	CurrentPage int
	TotalPages  int
	// Err is the last failure, kept for diagnostics and retry prompts even
	// when the view stays on Content
	Err *Error
}

// DetailView is the projection of a DetailState
type DetailView struct {
	Kind ViewKind
	ID   int64
	Item *Item
	// ImageURL is resolved against the image configuration when the view
	// is published; it is empty until the configuration has loaded
	ImageURL string
	Err      *Error
}

// ProjectList maps list state to its view
func ProjectList(s ListState) ListView {
	v := ListView{
		Items:       s.Items,
		Paging:      s.InFlight == FetchNextPage,
		HasMore:     s.CurrentPage < s.TotalPages,
		CurrentPage: s.CurrentPage,
		TotalPages:  s.TotalPages,
		Err:         s.LastErr,
	}

	switch {
	case s.InFlight == FetchInitial:
		v.Kind = ViewLoadingFull
	case s.InFlight == FetchRefresh:
		v.Kind = ViewLoadingRefresh
	case s.LastErr != nil && len(s.Items) == 0:
		v.Kind = ViewError
	case len(s.Items) > 0 || s.Loaded:
		v.Kind = ViewContent
	default:
		v.Kind = ViewIdle
	}

	return v
}

// ProjectDetail maps detail state to its view
func ProjectDetail(s DetailState) DetailView {
	v := DetailView{ID: s.RequestedID, Err: s.LastErr}

	switch s.Phase {
	case DetailLoading:
		v.Kind = ViewLoadingFull
	case DetailFailed:
		v.Kind = ViewError
	case DetailLoaded:
		v.Kind = ViewContent
		v.Item = s.Item
	default:
		v.Kind = ViewIdle
	}

	return v
}
