package sweep

// The stop queue is a binary min-heap on rectangle bottoms, stored 1-based
// so that the children of i are 2i and 2i+1.

func (s *sweepLine) pushStop(r int32) {
	s.stop = append(s.stop, r)
	bottom := s.rects[r].bottom
	i := len(s.stop) - 1
	for i > 1 {
		parent := i >> 1
		if s.rects[s.stop[parent]].bottom <= bottom {
			break
		}
		s.stop[i] = s.stop[parent]
		i = parent
	}
	s.stop[i] = r
}

func (s *sweepLine) peekStop() (int32, bool) {
	if len(s.stop) <= 1 {
		return nilEdge, false
	}
	return s.stop[1], true
}

func (s *sweepLine) popStop() {
	last := s.stop[len(s.stop)-1]
	s.stop = s.stop[:len(s.stop)-1]
	n := len(s.stop) - 1
	if n == 0 {
		return
	}

	bottom := s.rects[last].bottom
	i := 1
	for child := 2; child <= n; child = 2 * i {
		if child < n && s.rects[s.stop[child+1]].bottom < s.rects[s.stop[child]].bottom {
			child++
		}
		if s.rects[s.stop[child]].bottom >= bottom {
			break
		}
		s.stop[i] = s.stop[child]
		i = child
	}
	s.stop[i] = last
}
