package search

// State is the search overlay's result list and selection
type State struct {
	Active   bool
	Query    string
	Results  []Result
	Selected int
}

func (s *State) Reset() {
	s.Active = false
	s.Query = ""
	s.Results = nil
	s.Selected = 0
}

// Update reruns the query over texts and resets the selection
func (s *State) Update(query string, texts []string) {
	s.Query = query
	s.Results = Rank(query, texts)
	s.Selected = 0
}

func (s *State) SelectNext() {
	if len(s.Results) > 0 {
		s.Selected = (s.Selected + 1) % len(s.Results)
	}
}

func (s *State) SelectPrev() {
	if len(s.Results) > 0 {
		s.Selected = (s.Selected - 1 + len(s.Results)) % len(s.Results)
	}
}

// Current returns the selected result
func (s *State) Current() (Result, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Results) {
		return Result{}, false
	}
	return s.Results[s.Selected], true
}
