package service

// DragSessions reports how many gestures the service is tracking.
func (s *BoardService) DragSessions() int {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()
	return len(s.drags)
}
