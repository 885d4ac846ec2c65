package container

import "sync"

type frame struct {
	name     Key
	lifetime Lifetime
}

// stack records the names being resolved by one top-level call. It is
// threaded through the cradles of that call only. Other resolutions read it
// only to detect cycles through a shared in-flight build, hence the lock.
type stack struct {
	mu     sync.Mutex
	frames []frame
}

func (s *stack) push(name Key, l Lifetime) {
	s.mu.Lock()
	s.frames = append(s.frames, frame{name: name, lifetime: l})
	s.mu.Unlock()
}

func (s *stack) pop() {
	s.mu.Lock()
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	s.mu.Unlock()
}

func (s *stack) depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *stack) truncate(n int) {
	s.mu.Lock()
	if n < len(s.frames) {
		s.frames = s.frames[:n]
	}
	s.mu.Unlock()
}

func (s *stack) contains(name Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.frames {
		if f.name == name {
			return true
		}
	}
	return false
}

// outliving returns the first frame whose lifetime is longer than l.
func (s *stack) outliving(l Lifetime) (frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.frames {
		if f.lifetime.LongerThan(l) {
			return f, true
		}
	}
	return frame{}, false
}

// path returns the names on the stack, followed by next when given.
func (s *stack) path(next ...Key) []Key {
	s.mu.Lock()
	out := make([]Key, 0, len(s.frames)+len(next))
	for _, f := range s.frames {
		out = append(out, f.name)
	}
	s.mu.Unlock()
	return append(out, next...)
}

// waitsOn reports whether owner, the stack building name, is itself waiting
// on a name held by s. Joining owner's build would then never return. The
// returned path follows s into name and on through owner until it reaches a
// name of s again.
func (s *stack) waitsOn(owner *stack, name Key) ([]Key, bool) {
	if owner == s {
		return nil, false
	}
	theirs := owner.path()

	at := -1
	for i, k := range theirs {
		if k == name {
			at = i
			break
		}
	}
	if at < 0 {
		return nil, false
	}

	cycle := s.path()
	for _, k := range theirs[at+1:] {
		cycle = append(cycle, k)
		if s.contains(k) {
			return cycle, true
		}
	}
	return nil, false
}
