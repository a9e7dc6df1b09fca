package entity

import "sync"

// Site is the snapshot of one generation run.
type Site struct {
	BaseURL string
	Posts   []*ContentItem
	Pages   []*ContentItem
	Layouts map[string]*Layout

	mu        sync.Mutex
	protected []string
}

func NewSite(baseURL string) *Site {
	return &Site{
		BaseURL: baseURL,
		Layouts: make(map[string]*Layout),
	}
}

// Protect registers a generated file that a cleanup pass must keep.
func (s *Site) Protect(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.protected {
		if p == path {
			return
		}
	}

	s.protected = append(s.protected, path)
}

func (s *Site) Protected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.protected))
	copy(out, s.protected)

	return out
}

func (s *Site) Layout(name string) (*Layout, bool) {
	if name == "" || s.Layouts == nil {
		return nil, false
	}

	l, ok := s.Layouts[name]

	return l, ok
}
